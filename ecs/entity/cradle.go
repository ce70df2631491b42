package entity

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

var (
	cradleEndColor = scene.MustColor("#E91E63", defaultObjectColor)
	cradleMidColor = scene.MustColor("#9C27B0", defaultObjectColor)
)

// Cradle balls swing on rigid strings with infinite inertia so contacts only
// transfer linear momentum.
var cradleMaterial = scene.Material{
	Density:     scene.DefaultDensity,
	Restitution: 0.99,
	Friction:    0.0001,
	FrictionAir: 0.00001,
}

func buildCradle(ctx *Context, spec scene.CompositeSpec, f frame) (*Composite, error) {
	r := f.Size * spec.Option("ballRadius", 10) / 100
	stringLength := f.Size * 0.8
	spacing := r * 2.1
	world := ctx.physics().StaticBody()

	c := &Composite{}
	for i := 0; i < f.Elements; i++ {
		anchor := cp.Vector{X: f.Origin.X + (float64(i)-float64(f.Elements-1)/2)*spacing, Y: f.Origin.Y}
		pos := cp.Vector{X: anchor.X, Y: anchor.Y + stringLength}
		if i == 0 {
			pos = cradleLift(anchor, stringLength, 4*r)
		}

		rec := newBody(bodyDef{Kind: component.ShapeCircle, Pos: pos, Radius: r, Density: cradleMaterial.Density, FixedRotation: true})
		rec.Role = component.RolePrimary
		applyMaterial(rec, cradleMaterial)
		for _, s := range rec.Shapes {
			s.SetCollisionType(ecs.CollisionPrimary)
		}

		fill := cradleMidColor
		if i == 0 || i == f.Elements-1 {
			fill = cradleEndColor
		}
		e, err := spawn(ctx, rec, solidRender(fill, layerPrimary))
		if err != nil {
			return c, err
		}
		_ = ecs.Add(ctx.World, e, component.MaterialComponent, component.Material(cradleMaterial))
		c.add(e)

		joint := cp.NewPinJoint(world, rec.Body, anchor, cp.Vector{})
		joint.Class.(*cp.PinJoint).Dist = stringLength
		c.join(tether(ctx, e, component.Tether{Joint: joint, A: world, AnchorA: anchor, B: rec.Body, Color: tetherColor}))
	}
	return c, nil
}

// cradleLift moves a hanging ball dx to the left along its string's arc.
func cradleLift(anchor cp.Vector, length, dx float64) cp.Vector {
	if dx >= length {
		return cp.Vector{X: anchor.X - length, Y: anchor.Y}
	}
	return cp.Vector{X: anchor.X - dx, Y: anchor.Y + math.Sqrt(length*length-dx*dx)}
}
