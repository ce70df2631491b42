package entity

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/scene"
)

var ErrUnknownArchetype = errors.New("composite: unknown archetype")

// Composite is the result of one archetype build.
type Composite struct {
	Type   scene.Archetype
	Bodies []ecs.Entity
	Joints []*cp.Constraint
	// Solar is set for solar systems; its gravity and effects are attached by
	// the systems package.
	Solar *SolarSystem
}

// frame holds the archetype's anchor and size in engine units.
type frame struct {
	Origin   cp.Vector
	Size     float64
	Elements int
}

type compositeBuildFn func(ctx *Context, spec scene.CompositeSpec, f frame) (*Composite, error)

var compositeRegistry = map[scene.Archetype]compositeBuildFn{
	scene.ArchetypeNewtonsCradle: buildCradle,
	scene.ArchetypePendulum:      buildPendulum,
	scene.ArchetypeSolarSystem:   buildSolarSystem,
	scene.ArchetypeChain:         buildChain,
	scene.ArchetypeBridge:        buildBridge,
	scene.ArchetypePyramid:       buildPyramid,
	scene.ArchetypeStack:         buildStack,
}

// BuildComposite synthesizes an archetype anchored at its scene position.
// Size is a percentage of the viewport height.
func BuildComposite(ctx *Context, spec scene.CompositeSpec) (*Composite, error) {
	build, ok := compositeRegistry[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, spec.Type)
	}
	elements := spec.Elements
	if elements <= 0 {
		elements = scene.DefaultCompositeElements
	}
	f := frame{
		Origin:   ctx.point(spec.X, spec.Y),
		Size:     ctx.Viewport.Y(spec.Size),
		Elements: elements,
	}
	c, err := build(ctx, spec, f)
	if err != nil {
		return c, fmt.Errorf("composite %s: %w", spec.Type, err)
	}
	c.Type = spec.Type
	return c, nil
}

// Archetypes lists the registered archetype names.
func Archetypes() []scene.Archetype {
	out := make([]scene.Archetype, 0, len(compositeRegistry))
	for k := range compositeRegistry {
		out = append(out, k)
	}
	return out
}

func (c *Composite) add(e ecs.Entity) {
	c.Bodies = append(c.Bodies, e)
}

func (c *Composite) join(j *cp.Constraint) {
	c.Joints = append(c.Joints, j)
}
