package entity

import (
	"fmt"
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
)

// ParticleSpec describes a short-lived body. Cosmetic particles never collide;
// emitter particles collide with everything but each other.
type ParticleSpec struct {
	Kind   component.ShapeKind
	Pos    cp.Vector
	Angle  float64
	Radius float64
	Width  float64
	Height float64
	Static bool

	Density     float64
	Restitution float64
	Friction    float64
	FrictionAir float64

	Role     component.Role
	Fill     color.NRGBA
	Opacity  float64
	Velocity cp.Vector
	// Force is a one-shot force in scene units.
	Force cp.Vector

	Decay *component.Decay
}

// NewParticle spawns an ephemeral body with its decay schedule.
func NewParticle(ctx *Context, spec ParticleSpec) (ecs.Entity, *component.Body, error) {
	density := spec.Density
	if density <= 0 {
		density = 0.0005
	}
	rec := newBody(bodyDef{
		Kind:    spec.Kind,
		Pos:     spec.Pos,
		Angle:   spec.Angle,
		Radius:  spec.Radius,
		Width:   spec.Width,
		Height:  spec.Height,
		Density: density,
		Static:  spec.Static,
	})
	rec.Role = spec.Role
	if rec.Role != component.RoleParticle {
		rec.Role = component.RoleCosmetic
	}

	for _, s := range rec.Shapes {
		s.SetElasticity(spec.Restitution)
		s.SetFriction(spec.Friction)
		if rec.Role == component.RoleParticle {
			s.SetFilter(ecs.ParticleFilter)
			s.SetCollisionType(ecs.CollisionParticle)
		} else {
			s.SetSensor(true)
			s.SetFilter(ecs.CosmeticFilter)
			s.SetCollisionType(ecs.CollisionCosmetic)
		}
	}
	if !rec.Static {
		SetAirFriction(rec.Body, spec.FrictionAir)
	}

	opacity := spec.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	layer := layerCosmetic
	if rec.Role == component.RoleParticle {
		layer = layerPrimary
	}
	render := &component.Render{Fill: spec.Fill, Opacity: opacity, Visible: true, Layer: layer}

	e, err := spawn(ctx, rec, render)
	if err != nil {
		return 0, nil, fmt.Errorf("particles: %w", err)
	}
	if spec.Decay != nil {
		if err := ecs.Add(ctx.World, e, component.DecayComponent, spec.Decay); err != nil {
			ctx.World.DestroyEntity(e)
			return 0, nil, fmt.Errorf("particles: add decay: %w", err)
		}
	}
	if !rec.Static {
		if spec.Velocity != (cp.Vector{}) {
			rec.Body.SetVelocityVector(spec.Velocity)
		}
		if spec.Force != (cp.Vector{}) {
			ApplyForce(rec.Body, spec.Force)
		}
	}
	return e, rec, nil
}

// ExpireAfter schedules removal lifetime ms after now.
func ExpireAfter(now, lifetime float64) *component.Decay {
	return &component.Decay{ExpiresAt: now + lifetime}
}

// FadeOut lowers opacity by step every period ms, starting one period after now.
func FadeOut(now, step, period float64) *component.Decay {
	return &component.Decay{Fade: &component.Fade{Step: step, Every: period, Next: now + period}}
}
