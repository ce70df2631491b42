package entity

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
)

// Context carries what builders need from the scene being built.
type Context struct {
	World    *ecs.World
	Viewport common.Viewport
	Rand     *rand.Rand
	Logger   *log.Logger
	Tuning   Tuning
}

func (c *Context) physics() *ecs.PhysicsWorld {
	return c.World.Physics()
}

func (c *Context) Random() float64 {
	if c.Rand == nil {
		return rand.Float64()
	}
	return c.Rand.Float64()
}

func (c *Context) Logf(format string, args ...any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Printf(format, args...)
}

// point maps percentage coordinates to engine coordinates.
func (c *Context) point(xPct, yPct float64) cp.Vector {
	return cp.Vector{X: c.Viewport.X(xPct), Y: c.Viewport.Y(yPct)}
}

// spawn creates an entity for rec with the given render data.
func spawn(ctx *Context, rec *component.Body, render *component.Render) (ecs.Entity, error) {
	w := ctx.World
	e := w.CreateEntity()
	if err := w.AttachBody(e, rec); err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("spawn %s: %w", rec.Role, err)
	}
	if render != nil {
		if err := ecs.Add(w, e, component.RenderComponent, render); err != nil {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("spawn %s: add render: %w", rec.Role, err)
		}
	}
	return e, nil
}

func solidRender(fill color.NRGBA, layer int) *component.Render {
	return &component.Render{Fill: fill, Opacity: 1, Visible: true, Layer: layer}
}

// tether adds a joint to the space and records it on e for drawing.
func tether(ctx *Context, e ecs.Entity, t component.Tether) *cp.Constraint {
	ctx.physics().AddConstraint(t.Joint)
	tethers, _ := ecs.Get(ctx.World, e, component.TetherComponent)
	tethers = append(tethers, t)
	_ = ecs.Add(ctx.World, e, component.TetherComponent, tethers)
	return t.Joint
}

const (
	layerBoundary = iota
	layerCosmetic
	layerPrimary
	layerIndicator
)
