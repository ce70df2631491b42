package entity

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

// buildPyramid stacks rows of boxes whose base row is centered on the anchor
// and rests on it.
func buildPyramid(ctx *Context, spec scene.CompositeSpec, f frame) (*Composite, error) {
	rows := int(spec.Option("rows", float64(f.Elements)))
	if rows < 1 {
		rows = 1
	}
	box := f.Size / float64(rows)
	c := &Composite{}
	for row := 0; row < rows; row++ {
		count := rows - row
		y := f.Origin.Y - (float64(row)+0.5)*box
		startX := f.Origin.X - float64(count-1)*box/2
		for i := 0; i < count; i++ {
			pos := cp.Vector{X: startX + float64(i)*box, Y: y}
			fill := scene.HSL(260+float64(row*12%80), 0.6, 0.55)
			if err := addBlock(ctx, c, pos, box, fill); err != nil {
				return c, err
			}
		}
	}
	return c, nil
}

// buildStack piles columns x rows boxes upward from the anchor.
func buildStack(ctx *Context, spec scene.CompositeSpec, f frame) (*Composite, error) {
	cols := int(spec.Option("columns", float64(f.Elements)))
	rows := int(spec.Option("rows", 3))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	box := f.Size / float64(max(cols, rows))
	startX := f.Origin.X - float64(cols-1)*box/2
	c := &Composite{}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			pos := cp.Vector{X: startX + float64(col)*box, Y: f.Origin.Y - (float64(row)+0.5)*box}
			fill := scene.HSL(200+float64((row+col)*10%60), 0.6, 0.5)
			if err := addBlock(ctx, c, pos, box, fill); err != nil {
				return c, err
			}
		}
	}
	return c, nil
}

func addBlock(ctx *Context, c *Composite, pos cp.Vector, size float64, fill color.NRGBA) error {
	mat := scene.MaterialSpec{Restitution: scene.Float(0.1), Friction: scene.Float(0.6)}.Resolve()
	rec := newBody(bodyDef{Kind: component.ShapeBox, Pos: pos, Width: size * 0.98, Height: size * 0.98, Density: mat.Density})
	rec.Role = component.RolePrimary
	applyMaterial(rec, mat)
	for _, s := range rec.Shapes {
		s.SetCollisionType(ecs.CollisionPrimary)
	}
	e, err := spawn(ctx, rec, solidRender(fill, layerPrimary))
	if err != nil {
		return err
	}
	_ = ecs.Add(ctx.World, e, component.MaterialComponent, component.Material(mat))
	c.add(e)
	return nil
}
