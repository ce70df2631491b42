package entity

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

var plankColor = scene.MustColor("#795548", defaultObjectColor)

// buildBridge lays planks across size, centered on the anchor, pinned at both
// ends to the world.
func buildBridge(ctx *Context, spec scene.CompositeSpec, f frame) (*Composite, error) {
	n := f.Elements
	plankW := f.Size / float64(n)
	plankH := f.Size * spec.Option("plankHeight", 4) / 100
	left := f.Origin.X - f.Size/2
	group := ctx.physics().NextGroup()
	world := ctx.physics().StaticBody()
	mat := scene.MaterialSpec{}.Resolve()

	c := &Composite{}
	var prev *component.Body
	for i := 0; i < n; i++ {
		pos := cp.Vector{X: left + (float64(i)+0.5)*plankW, Y: f.Origin.Y}
		rec := newBody(bodyDef{Kind: component.ShapeBox, Pos: pos, Width: plankW * 0.95, Height: plankH, Density: mat.Density})
		rec.Role = component.RolePrimary
		applyMaterial(rec, mat)
		for _, s := range rec.Shapes {
			s.SetFilter(cp.ShapeFilter{Group: group, Categories: cp.ALL_CATEGORIES, Mask: cp.ALL_CATEGORIES})
			s.SetCollisionType(ecs.CollisionPrimary)
		}
		e, err := spawn(ctx, rec, solidRender(plankColor, layerPrimary))
		if err != nil {
			return c, err
		}
		c.add(e)

		leftEdge := cp.Vector{X: pos.X - plankW/2, Y: pos.Y}
		localLeft := cp.Vector{X: -plankW / 2}
		if prev == nil {
			joint := cp.NewPivotJoint(world, rec.Body, leftEdge)
			c.join(tether(ctx, e, component.Tether{Joint: joint, A: world, AnchorA: leftEdge, B: rec.Body, AnchorB: localLeft, Color: tetherColor}))
		} else {
			joint := cp.NewPivotJoint(prev.Body, rec.Body, leftEdge)
			c.join(tether(ctx, e, component.Tether{Joint: joint, A: prev.Body, AnchorA: cp.Vector{X: plankW / 2}, B: rec.Body, AnchorB: localLeft, Color: tetherColor, Hidden: true}))
		}
		if i == n-1 {
			rightEdge := cp.Vector{X: pos.X + plankW/2, Y: pos.Y}
			joint := cp.NewPivotJoint(world, rec.Body, rightEdge)
			c.join(tether(ctx, e, component.Tether{Joint: joint, A: world, AnchorA: rightEdge, B: rec.Body, AnchorB: cp.Vector{X: plankW / 2}, Color: tetherColor}))
		}
		prev = rec
	}
	return c, nil
}
