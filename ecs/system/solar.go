package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/ecs/entity"
)

// AttachSolar wires the dynamics and effects of a built solar system: a well
// per planet and moon, a trail timer per planet and the sun's flare timer.
func AttachSolar(env *Env, s *entity.SolarSystem) {
	if s == nil {
		return
	}
	tun := env.Tuning
	for _, p := range s.Planets {
		AttachWell(env, s.Sun, p.Entity, tun.SolarGravity, true)

		period := tun.OuterTrailPeriod
		if p.Index < 3 {
			period = tun.InnerTrailPeriod
		}
		planet := p
		env.Timers.Every(env.Run, period, func() { planetTrail(env, planet) })

		for _, m := range p.Moons {
			AttachWell(env, p.Entity, m.Entity, tun.MoonGravity, false)
		}
	}
	env.Timers.Every(env.Run, tun.FlarePeriod, func() {
		if env.Random() < tun.FlareChance {
			spawnFlare(env, s)
		}
	})
}

func planetTrail(env *Env, p entity.Planet) {
	if !env.alive(p.Entity) {
		return
	}
	fill := p.Fill
	fill.A = 0x30
	spawnGhost(env, p.Body.Position(), p.Radius*0.3, fill, 0.3, 0.03)
}

// spawnFlare adds a short-lived tongue of light on the sun's rim.
func spawnFlare(env *Env, s *entity.SolarSystem) {
	if !env.alive(s.Sun) {
		return
	}
	angle := env.Random() * 2 * math.Pi
	length := s.SunRadius * (0.5 + env.Random()*0.5)
	width := s.SunRadius * (0.1 + env.Random()*0.2)
	pos := s.Center.Add(cp.Vector{X: math.Cos(angle), Y: math.Sin(angle)}.Mult(s.SunRadius * 0.8))

	_, _, err := entity.NewParticle(env.Context, entity.ParticleSpec{
		Kind:    component.ShapeBox,
		Pos:     pos,
		Angle:   angle,
		Width:   length,
		Height:  width,
		Static:  true,
		Role:    component.RoleCosmetic,
		Fill:    entity.FlareColor,
		Opacity: 0.7,
		Decay:   entity.ExpireAfter(env.Now(), 300+env.Random()*200),
	})
	if err != nil {
		env.Logf("solar: flare: %v", err)
	}
}
