package entity

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

var (
	defaultObjectColor = scene.MustColor(scene.DefaultObjectColor, scene.HSL(291, 0.64, 0.42))
	tetherColor        = scene.MustColor("#FFFFFF", scene.HSL(0, 0, 1))
)

// NewObject builds one primitive body: shape and material first, then the
// initial velocity, the angular velocity and the one-shot force, in that order.
func NewObject(ctx *Context, spec scene.ObjectSpec) (ecs.Entity, error) {
	vp := ctx.Viewport
	def := bodyDef{Pos: ctx.point(spec.X, spec.Y), Static: spec.Static}
	mat := spec.Material.Resolve()
	def.Density = mat.Density

	switch spec.Type {
	case scene.ShapeCircle:
		def.Kind = component.ShapeCircle
		def.Radius = vp.Min(spec.RadiusOr())
	case scene.ShapeRectangle:
		def.Kind = component.ShapeBox
		def.Width = vp.X(spec.WidthOr())
		def.Height = vp.Y(spec.HeightOr())
	case scene.ShapePolygon:
		def.Kind = component.ShapePolygon
		def.Sides = spec.SidesOr()
		def.Radius = vp.Min(spec.SizeOr())
	default:
		ctx.Logf("objects: unknown shape %q, using a circle of radius %g", spec.Type, scene.DefaultCircleRadius)
		def.Kind = component.ShapeCircle
		def.Radius = scene.DefaultCircleRadius
	}
	if def.Radius <= 0 && def.Kind != component.ShapeBox {
		def.Radius = scene.DefaultCircleRadius
	}

	rec := newBody(def)
	rec.Role = component.RolePrimary
	applyMaterial(rec, mat)
	for _, s := range rec.Shapes {
		s.SetCollisionType(ecs.CollisionPrimary)
	}

	fill := scene.MustColor(spec.ColorOr(), defaultObjectColor)
	e, err := spawn(ctx, rec, solidRender(fill, layerPrimary))
	if err != nil {
		return 0, fmt.Errorf("objects: %w", err)
	}
	_ = ecs.Add(ctx.World, e, component.MaterialComponent, component.Material(mat))

	if !rec.Static {
		if v := spec.InitialVelocity; v != nil {
			rec.Body.SetVelocity(v.X, v.Y)
		}
		if w := spec.InitialAngularVelocity; w != nil {
			rec.Body.SetAngularVelocity(*w)
		}
		if f := spec.Force; f != nil {
			ApplyForce(rec.Body, cp.Vector{X: f.X, Y: f.Y})
		}
	}

	for i, c := range spec.Constraints {
		if rec.Static {
			ctx.Logf("objects: constraint %d ignored on a static body", i)
			continue
		}
		if _, err := attachConstraint(ctx, e, rec, c); err != nil {
			ctx.Logf("objects: constraint %d: %v", i, err)
		}
	}
	return e, nil
}

// attachConstraint ties rec to a world point.
func attachConstraint(ctx *Context, e ecs.Entity, rec *component.Body, c scene.ConstraintSpec) (*cp.Constraint, error) {
	world := ctx.physics().StaticBody()
	point := ctx.point(c.PointX, c.PointY)
	pos := rec.Body.Position()
	length := pos.Distance(point)
	if c.Length != nil {
		length = ctx.Viewport.Y(*c.Length)
	}

	var joint *cp.Constraint
	anchorB := cp.Vector{}
	switch c.Type {
	case scene.ConstraintPin:
		joint = cp.NewPivotJoint(world, rec.Body, point)
		anchorB = rec.Body.WorldToLocal(point)
	case scene.ConstraintRope:
		joint = cp.NewSlideJoint(world, rec.Body, point, cp.Vector{}, 0, length)
	case scene.ConstraintSpring:
		k := c.Stiffness * rec.Body.Mass() * ctx.Tuning.SpringRate
		damping := c.Damping * 2 * math.Sqrt(k*rec.Body.Mass())
		joint = cp.NewDampedSpring(world, rec.Body, point, cp.Vector{}, length, k, damping)
	case scene.ConstraintChain:
		joint = cp.NewPinJoint(world, rec.Body, point, cp.Vector{})
		joint.Class.(*cp.PinJoint).Dist = length
	default:
		return nil, fmt.Errorf("unknown constraint %q", c.Type)
	}
	return tether(ctx, e, component.Tether{
		Joint:   joint,
		A:       world,
		AnchorA: point,
		B:       rec.Body,
		AnchorB: anchorB,
		Color:   tetherColor,
		Hidden:  c.Type == scene.ConstraintPin,
	}), nil
}

// ApplyForce adds a force in scene units at the body's center of gravity.
func ApplyForce(body *cp.Body, f cp.Vector) {
	body.ApplyForceAtWorldPoint(f.Mult(common.ForceScale), body.Position())
}
