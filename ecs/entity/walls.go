package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

const WallThickness = 50.0

var wallColor = scene.MustColor("#3B0764", scene.HSL(280, 0.8, 0.2))

// NewWalls adds four static boxes just outside the viewport edges.
func NewWalls(ctx *Context) ([]ecs.Entity, error) {
	w, h := ctx.Viewport.Width, ctx.Viewport.Height
	t := WallThickness
	boxes := []struct {
		name string
		pos  cp.Vector
		w, h float64
	}{
		{"bottom", cp.Vector{X: w / 2, Y: h + t/2}, w, t},
		{"left", cp.Vector{X: -t / 2, Y: h / 2}, t, h},
		{"right", cp.Vector{X: w + t/2, Y: h / 2}, t, h},
		{"top", cp.Vector{X: w / 2, Y: -t / 2}, w, t},
	}

	walls := make([]ecs.Entity, 0, len(boxes))
	for _, b := range boxes {
		rec := newBody(bodyDef{Kind: component.ShapeBox, Pos: b.pos, Width: b.w, Height: b.h, Static: true})
		rec.Role = component.RoleBoundary
		for _, s := range rec.Shapes {
			s.SetElasticity(boundaryElasticity)
			s.SetFriction(boundaryFriction)
			s.SetCollisionType(ecs.CollisionBoundary)
		}
		e, err := spawn(ctx, rec, solidRender(wallColor, layerBoundary))
		if err != nil {
			return walls, fmt.Errorf("walls: %s: %w", b.name, err)
		}
		walls = append(walls, e)
	}
	return walls, nil
}
