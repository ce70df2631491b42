package entity

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

var (
	chainEvenColor = scene.MustColor("#9C27B0", defaultObjectColor)
	chainOddColor  = scene.MustColor("#7B1FA2", defaultObjectColor)
)

var linkMaterial = scene.Material{
	Density:     scene.DefaultDensity,
	Restitution: scene.DefaultRestitution,
	Friction:    scene.DefaultFriction,
	FrictionAir: 0.001,
}

// buildChain hangs links from the anchor, each pivoted to the one above.
// Links share a collision group so neighbours do not push each other apart.
func buildChain(ctx *Context, spec scene.CompositeSpec, f frame) (*Composite, error) {
	length := f.Size * spec.Option("linkLength", 10) / 100
	width := length * 0.4
	group := ctx.physics().NextGroup()
	world := ctx.physics().StaticBody()

	c := &Composite{}
	var prev *component.Body
	for i := 0; i < f.Elements; i++ {
		pos := cp.Vector{X: f.Origin.X, Y: f.Origin.Y + (float64(i)+0.5)*length}
		rec := newBody(bodyDef{Kind: component.ShapeBox, Pos: pos, Width: width, Height: length, Density: linkMaterial.Density})
		rec.Role = component.RolePrimary
		applyMaterial(rec, linkMaterial)
		for _, s := range rec.Shapes {
			s.SetFilter(cp.ShapeFilter{Group: group, Categories: cp.ALL_CATEGORIES, Mask: cp.ALL_CATEGORIES})
			s.SetCollisionType(ecs.CollisionPrimary)
		}

		fill := chainEvenColor
		if i%2 == 1 {
			fill = chainOddColor
		}
		e, err := spawn(ctx, rec, solidRender(fill, layerPrimary))
		if err != nil {
			return c, err
		}
		c.add(e)

		top := cp.Vector{X: 0, Y: -length / 2}
		pivot := cp.Vector{X: pos.X, Y: pos.Y - length/2}
		if prev == nil {
			joint := cp.NewPivotJoint(world, rec.Body, pivot)
			c.join(tether(ctx, e, component.Tether{Joint: joint, A: world, AnchorA: pivot, B: rec.Body, AnchorB: top, Color: tetherColor, Hidden: true}))
		} else {
			joint := cp.NewPivotJoint(prev.Body, rec.Body, pivot)
			bottom := cp.Vector{X: 0, Y: length / 2}
			c.join(tether(ctx, e, component.Tether{Joint: joint, A: prev.Body, AnchorA: bottom, B: rec.Body, AnchorB: top, Color: tetherColor, Hidden: true}))
		}
		prev = rec
	}
	return c, nil
}
