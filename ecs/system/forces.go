package system

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/ecs/entity"
	"github.com/milk9111/scenesim/scene"
)

var ErrUnknownForce = errors.New("forces: unknown force kind")

const (
	forceIndicatorRadius = 10.0
	orbitRadialShare     = 0.05
	spiralPull           = 0.00008
	spiralSwirl          = 0.00002
	diskOrbitRate        = 0.00015
	diskPullRate         = 0.000001
)

var indicatorColors = map[scene.ForceKind]string{
	scene.ForceAttractor: "#9C27B0",
	scene.ForceRepeller:  "#FF5722",
	scene.ForceWind:      "#2196F3",
	scene.ForceBlackHole: "#000000",
	scene.ForceExplosion: "#F44336",
	scene.ForceOrbit:     "#F44336",
}

// Field is the geometry of one force field in engine units.
type Field struct {
	Kind     scene.ForceKind
	Center   cp.Vector
	Strength float64
	Radius   float64
	// Gain multiplies the black-hole inverse-square law.
	Gain float64
}

// Force returns the force the field exerts on a body at pos, in scene units,
// and the distance to the center. ok is false outside the radius.
func (f Field) Force(pos cp.Vector) (force cp.Vector, distance float64, ok bool) {
	toCenter := f.Center.Sub(pos)
	distance = toCenter.Length()
	if !(distance < f.Radius) {
		return cp.Vector{}, distance, false
	}
	var unit cp.Vector
	if distance > 0 {
		unit = toCenter.Mult(1 / distance)
	}

	linear := f.Strength * (1 - distance/f.Radius)
	switch f.Kind {
	case scene.ForceAttractor:
		force = unit.Mult(linear)
	case scene.ForceRepeller, scene.ForceExplosion:
		force = unit.Neg().Mult(linear)
	case scene.ForceWind:
		force = cp.Vector{X: linear}
	case scene.ForceBlackHole:
		ratio := f.Radius / (distance + 1)
		force = unit.Mult(f.Strength * ratio * ratio * f.Gain)
	case scene.ForceOrbit:
		tangent := cp.Vector{X: -unit.Y, Y: unit.X}
		orbital := f.Strength * math.Sqrt(f.Radius/(distance+1))
		force = tangent.Mult(orbital).Add(unit.Mult(linear * orbitRadialShare))
	default:
		return cp.Vector{}, distance, false
	}
	if !common.Finite(force.X) || !common.Finite(force.Y) {
		return cp.Vector{}, distance, false
	}
	return force, distance, true
}

// ForceField applies one Field to every dynamic primary body each step. It
// holds only its own spec; side effects are ephemeral entities and hooks
// registered under the same run.
type ForceField struct {
	Field
	ID        ecs.HookID
	Indicator ecs.Entity

	env *Env
}

// AttachForce adds the field's indicator and registers its per-step hook.
// Unknown kinds return ErrUnknownForce and leave the world untouched.
func AttachForce(env *Env, spec scene.ForceSpec) (*ForceField, error) {
	if !spec.Type.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForce, spec.Type)
	}
	vp := env.Viewport
	ff := &ForceField{
		Field: Field{
			Kind:     spec.Type,
			Center:   cp.Vector{X: vp.X(spec.X), Y: vp.Y(spec.Y)},
			Strength: spec.Strength,
			Radius:   vp.X(spec.Radius),
			Gain:     env.Tuning.BlackHoleGain,
		},
		env: env,
	}

	fill := scene.MustColor(indicatorColors[spec.Type], color.NRGBA{R: 0xF4, G: 0x43, B: 0x36, A: 0xFF})
	indicator, err := entity.NewIndicator(env.Context, ff.Center, forceIndicatorRadius, fill)
	if err != nil {
		return nil, fmt.Errorf("forces: indicator: %w", err)
	}
	ff.Indicator = indicator
	ff.ID = env.Hooks.Register(env.Run, "force:"+string(spec.Type), ff)
	return ff, nil
}

func (ff *ForceField) Step(dt float64) {
	w := ff.env.World
	ecs.ForEach(w, component.BodyComponent, func(e ecs.Entity, rec *component.Body) {
		if rec.Role != component.RolePrimary || !rec.Dynamic() {
			return
		}
		force, d, ok := ff.Force(rec.Body.Position())
		if !ok {
			if ff.Kind == scene.ForceBlackHole {
				ff.unstretch(e)
			}
			return
		}
		entity.ApplyForce(rec.Body, force)

		switch ff.Kind {
		case scene.ForceBlackHole:
			ff.blackHole(e, rec, d)
		case scene.ForceOrbit:
			ff.orbitTrail(e, rec)
		}
	})
}

func (ff *ForceField) blackHole(e ecs.Entity, rec *component.Body, d float64) {
	env := ff.env
	tun := env.Tuning
	pos := rec.Body.Position()

	if render, ok := ecs.Get(env.World, e, component.RenderComponent); ok {
		toCenter := ff.Center.Sub(pos)
		render.Stretch = &component.Stretch{
			Factor: 1 + tun.BlackHoleStretch*(1-d/ff.Radius),
			Angle:  math.Atan2(toCenter.Y, toCenter.X),
		}
	}

	if v := rec.Body.Velocity(); v.Length() > tun.BlackHoleDampingSpeed {
		rec.Body.SetVelocityVector(v.Mult(tun.BlackHoleDamping))
	}

	if env.Random() < tun.SpiralChance && d < ff.Radius*tun.SpiralRange {
		ff.spawnSpiral(rec)
	}
	if env.Random() < tun.DiskChance {
		ff.spawnDisk()
	}
}

func (ff *ForceField) unstretch(e ecs.Entity) {
	if render, ok := ecs.Get(ff.env.World, e, component.RenderComponent); ok {
		render.Stretch = nil
	}
}

// spawnSpiral drops a particle near rec that is flung inward with a swirl and
// fades out over ten fade periods.
func (ff *ForceField) spawnSpiral(rec *component.Body) {
	env := ff.env
	extent := bodyExtent(rec)
	pos := rec.Body.Position().Add(cp.Vector{
		X: (env.Random() - 0.5) * extent * 2,
		Y: (env.Random() - 0.5) * extent * 2,
	})
	toCenter := ff.Center.Sub(pos)
	pd := toCenter.Length()
	var unit cp.Vector
	if pd > 0 {
		unit = toCenter.Mult(1 / pd)
	}
	tangent := cp.Vector{X: -unit.Y, Y: unit.X}
	push := unit.Mult(spiralPull).Add(tangent.Mult(spiralSwirl)).Mult(ff.Radius / (pd + 1))

	fill := color.NRGBA{
		R: uint8(155 + env.Random()*100),
		G: uint8(env.Random() * 100),
		B: uint8(100 + env.Random()*155),
		A: uint8(255 * (0.7 + env.Random()*0.3)),
	}
	_, _, err := entity.NewParticle(env.Context, entity.ParticleSpec{
		Kind:        component.ShapeCircle,
		Pos:         pos,
		Radius:      env.Random()*3 + 1,
		Density:     scene.DefaultDensity,
		FrictionAir: 0.001,
		Role:        component.RoleCosmetic,
		Fill:        fill,
		Force:       push,
		Decay:       entity.FadeOut(env.Now(), 0.1, env.Tuning.FadePeriod),
	})
	if err != nil {
		env.Logf("forces: spiral particle: %v", err)
	}
}

// spawnDisk adds an accretion-disk particle on a circular path around the
// center. A pull hook keeps it bound and is unregistered when it expires.
func (ff *ForceField) spawnDisk() {
	env := ff.env
	angle := env.Random() * 2 * math.Pi
	dist := ff.Radius * (0.2 + env.Random()*0.3)
	pos := ff.Center.Add(cp.Vector{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist})
	tangent := cp.Vector{X: -math.Sin(angle), Y: math.Cos(angle)}
	speed := diskOrbitRate * math.Sqrt(ff.Radius/dist) * dist

	decay := entity.ExpireAfter(env.Now(), env.Tuning.ParticleLifetime)
	fill := color.NRGBA{
		R: uint8(155 + env.Random()*100),
		G: uint8(100 + env.Random()*155),
		B: uint8(200 + env.Random()*55),
		A: 178,
	}
	e, rec, err := entity.NewParticle(env.Context, entity.ParticleSpec{
		Kind:        component.ShapeCircle,
		Pos:         pos,
		Radius:      env.Random()*2 + 1,
		Density:     scene.DefaultDensity,
		FrictionAir: 0.001,
		Role:        component.RoleCosmetic,
		Fill:        fill,
		Velocity:    tangent.Mult(speed),
		Decay:       decay,
	})
	if err != nil {
		env.Logf("forces: disk particle: %v", err)
		return
	}

	pull := &diskPull{env: env, particle: e, body: rec.Body, center: ff.Center, strength: diskPullRate * ff.Radius}
	id := env.Hooks.Register(env.Run, "force:blackhole:disk", pull)
	decay.OnExpire = func() { env.Hooks.Unregister(id) }
}

// diskPull draws one disk particle toward the black hole.
type diskPull struct {
	env      *Env
	particle ecs.Entity
	body     *cp.Body
	center   cp.Vector
	strength float64
}

func (p *diskPull) Step(dt float64) {
	if !p.env.alive(p.particle) {
		return
	}
	toCenter := p.center.Sub(p.body.Position())
	d := toCenter.Length()
	if d <= 0 {
		return
	}
	entity.ApplyForce(p.body, toCenter.Mult(p.strength/d))
}

// orbitTrail occasionally leaves a fading ghost of a round body behind.
func (ff *ForceField) orbitTrail(e ecs.Entity, rec *component.Body) {
	env := ff.env
	tun := env.Tuning
	if rec.Shape != component.ShapeCircle || rec.Radius <= tun.OrbitTrailMinRadius {
		return
	}
	if env.Random() >= tun.OrbitTrailChance {
		return
	}
	fill := color.NRGBA{R: 255, G: 255, B: 255}
	if render, ok := ecs.Get(env.World, e, component.RenderComponent); ok {
		fill = render.Fill
	}
	fill.A = 0x30
	spawnGhost(env, rec.Body.Position(), rec.Radius*0.3, fill, 0.3, 0.02)
}

// spawnGhost adds a static cosmetic circle that fades from opacity by step
// every fade period.
func spawnGhost(env *Env, pos cp.Vector, radius float64, fill color.NRGBA, opacity, step float64) {
	_, _, err := entity.NewParticle(env.Context, entity.ParticleSpec{
		Kind:    component.ShapeCircle,
		Pos:     pos,
		Radius:  radius,
		Static:  true,
		Role:    component.RoleCosmetic,
		Fill:    fill,
		Opacity: opacity,
		Decay:   entity.FadeOut(env.Now(), step, env.Tuning.FadePeriod),
	})
	if err != nil {
		env.Logf("trails: %v", err)
	}
}

func bodyExtent(rec *component.Body) float64 {
	if rec.Shape == component.ShapeBox {
		return math.Max(rec.Width, rec.Height) / 2
	}
	return rec.Radius
}
