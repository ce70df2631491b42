package system

import (
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

const (
	emitterIndicatorRadius = 8.0
	maxEmitterRate         = 60.0
)

// Emitter spawns one particle per period from a fixed point. Each particle
// is removed ParticleLifetime ms after its spawn, so at most
// rate·lifetime/1000 + 1 are alive at any time.
type Emitter struct {
	Pos       cp.Vector
	Period    float64
	Timer     ecs.TimerID
	Indicator ecs.Entity

	env       *Env
	spec      scene.EmitterSpec
	fill      color.NRGBA
	direction float64
	spread    float64
}

// AttachEmitter adds the emitter indicator and starts its spawn timer.
func AttachEmitter(env *Env, spec scene.EmitterSpec) (*Emitter, error) {
	rate := spec.Rate
	if !(rate > 0) {
		rate = scene.DefaultEmitterRate
	}
	rate = math.Min(rate, maxEmitterRate)
	if !(spec.ParticleSize > 0) {
		spec.ParticleSize = scene.DefaultParticleSize
	}

	fill := scene.MustColor(spec.ParticleColor, scene.MustColor(scene.DefaultParticleColor, entity.FlareColor))
	em := &Emitter{
		Pos:       cp.Vector{X: env.Viewport.X(spec.X), Y: env.Viewport.Y(spec.Y)},
		Period:    1000 / rate,
		env:       env,
		spec:      spec,
		fill:      fill,
		direction: common.DegToRad(spec.Direction),
		spread:    common.DegToRad(spec.Spread),
	}

	indicator, err := entity.NewIndicator(env.Context, em.Pos, emitterIndicatorRadius, fill)
	if err != nil {
		return nil, fmt.Errorf("emitters: indicator: %w", err)
	}
	em.Indicator = indicator
	em.Timer = env.Timers.Every(env.Run, em.Period, em.Emit)
	return em, nil
}

// Emit spawns one particle aimed within the spread around the direction.
func (em *Emitter) Emit() {
	env := em.env
	angle := em.direction + (env.Random()*em.spread*2 - em.spread)
	_, _, err := entity.NewParticle(env.Context, entity.ParticleSpec{
		Kind:        component.ShapeCircle,
		Pos:         em.Pos,
		Radius:      em.spec.ParticleSize,
		Density:     0.0005,
		Restitution: 0.8,
		Friction:    0.1,
		FrictionAir: 0.02,
		Role:        component.RoleParticle,
		Fill:        em.fill,
		Force:       cp.Vector{X: math.Cos(angle), Y: math.Sin(angle)}.Mult(em.spec.Force),
		Decay:       entity.ExpireAfter(env.Now(), env.Tuning.ParticleLifetime),
	})
	if err != nil {
		env.Logf("emitters: %v", err)
	}
}
