package entity

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

var pendulumMaterial = scene.Material{
	Density:     scene.DefaultDensity,
	Restitution: 0.8,
	Friction:    0.005,
	FrictionAir: 0.0001,
}

const pendulumSwing = 5.0

func buildPendulum(ctx *Context, spec scene.CompositeSpec, f frame) (*Composite, error) {
	stringLength := f.Size * spec.Option("stringLength", 70) / 100
	r := f.Size * 0.1
	world := ctx.physics().StaticBody()

	c := &Composite{}
	for i := 0; i < f.Elements; i++ {
		angle := float64(i) / float64(f.Elements) * math.Pi
		anchor := cp.Vector{X: f.Origin.X + math.Sin(angle)*f.Size*0.3, Y: f.Origin.Y}
		pos := cp.Vector{X: anchor.X, Y: anchor.Y + stringLength}

		rec := newBody(bodyDef{Kind: component.ShapeCircle, Pos: pos, Radius: r, Density: pendulumMaterial.Density})
		rec.Role = component.RolePrimary
		applyMaterial(rec, pendulumMaterial)
		for _, s := range rec.Shapes {
			s.SetCollisionType(ecs.CollisionPrimary)
		}

		fill := scene.HSL(280+float64((i*15)%60), 0.7, 0.6)
		e, err := spawn(ctx, rec, solidRender(fill, layerPrimary))
		if err != nil {
			return c, err
		}
		_ = ecs.Add(ctx.World, e, component.MaterialComponent, component.Material(pendulumMaterial))
		c.add(e)

		joint := cp.NewPinJoint(world, rec.Body, anchor, cp.Vector{})
		c.join(tether(ctx, e, component.Tether{Joint: joint, A: world, AnchorA: anchor, B: rec.Body, Color: tetherColor}))

		vx := pendulumSwing
		if i%2 == 1 {
			vx = -pendulumSwing
		}
		rec.Body.SetVelocity(vx, 0)
	}
	return c, nil
}
