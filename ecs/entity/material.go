package entity

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

// Chipmunk multiplies the elasticity and friction of both shapes in contact.
// Boundaries use 1 so the moving body's own material decides the outcome.
const (
	boundaryElasticity = 1.0
	boundaryFriction   = 1.0
)

func applyMaterial(rec *component.Body, m scene.Material) {
	for _, s := range rec.Shapes {
		s.SetElasticity(common.Clamp(m.Restitution, 0, 1))
		s.SetFriction(math.Max(m.Friction, 0))
	}
	if !rec.Static {
		SetAirFriction(rec.Body, m.FrictionAir)
	}
}

// SetRestitution overrides the elasticity of every shape of rec.
func SetRestitution(rec *component.Body, e float64) {
	if rec == nil {
		return
	}
	for _, s := range rec.Shapes {
		s.SetElasticity(common.Clamp(e, 0, 1))
	}
}

// SetAirFriction installs a velocity integrator that keeps (1 - frictionAir)
// of the velocity per tick.
func SetAirFriction(body *cp.Body, frictionAir float64) {
	if body == nil {
		return
	}
	keep := 1 - common.Clamp(frictionAir, 0, 1)
	if keep == 1 {
		body.SetVelocityUpdateFunc(cp.BodyUpdateVelocity)
		return
	}
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping, dt float64) {
		cp.BodyUpdateVelocity(b, gravity, damping*math.Pow(keep, dt), dt)
	})
}
