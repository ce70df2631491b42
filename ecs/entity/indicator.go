package entity

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
)

// NewIndicator adds a static marker that never collides.
func NewIndicator(ctx *Context, pos cp.Vector, radius float64, fill color.NRGBA) (ecs.Entity, error) {
	rec := newBody(bodyDef{Kind: component.ShapeCircle, Pos: pos, Radius: radius, Static: true})
	rec.Role = component.RoleIndicator
	for _, s := range rec.Shapes {
		s.SetSensor(true)
		s.SetFilter(ecs.CosmeticFilter)
		s.SetCollisionType(ecs.CollisionIndicator)
	}
	return spawn(ctx, rec, solidRender(fill, layerIndicator))
}
