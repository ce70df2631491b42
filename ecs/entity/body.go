package entity

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs/component"
)

const minMass = 1e-6

// bodyDef describes one single-shape body in engine units.
type bodyDef struct {
	Kind    component.ShapeKind
	Pos     cp.Vector
	Angle   float64
	Radius  float64
	Width   float64
	Height  float64
	Sides   int
	Density float64
	Static  bool
	// FixedRotation gives the body infinite moment of inertia.
	FixedRotation bool
}

// newBody builds the Chipmunk body and shape for def. Mass is density times
// area; static bodies keep the nominal mass for force calculations.
func newBody(def bodyDef) *component.Body {
	var (
		area   float64
		verts  []cp.Vector
		moment func(mass float64) float64
	)
	switch def.Kind {
	case component.ShapeBox:
		area = def.Width * def.Height
		moment = func(m float64) float64 { return cp.MomentForBox(m, def.Width, def.Height) }
	case component.ShapePolygon:
		verts = regularPolygon(def.Sides, def.Radius)
		area = cp.AreaForPoly(len(verts), verts, 0)
		moment = func(m float64) float64 { return cp.MomentForPoly(m, len(verts), verts, cp.Vector{}, 0) }
	default:
		area = cp.AreaForCircle(0, def.Radius)
		moment = func(m float64) float64 { return cp.MomentForCircle(m, 0, def.Radius, cp.Vector{}) }
	}
	mass := def.Density * area

	var body *cp.Body
	if def.Static {
		body = cp.NewStaticBody()
	} else {
		// The integrator asserts a positive mass and moment.
		if !(mass > minMass) {
			mass = minMass
		}
		i := moment(mass)
		if def.FixedRotation || !(i > 0) {
			i = math.Inf(1)
		}
		body = cp.NewBody(mass, i)
	}
	body.SetPosition(def.Pos)
	if def.Angle != 0 {
		body.SetAngle(def.Angle)
	}

	var shape *cp.Shape
	switch def.Kind {
	case component.ShapeBox:
		shape = cp.NewBox(body, def.Width, def.Height, 0)
	case component.ShapePolygon:
		shape = cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), 0)
	default:
		shape = cp.NewCircle(body, def.Radius, cp.Vector{})
	}

	return &component.Body{
		Body:        body,
		Shapes:      []*cp.Shape{shape},
		Shape:       def.Kind,
		Static:      def.Static,
		Attached:    true,
		NominalMass: mass,
		Radius:      def.Radius,
		Width:       def.Width,
		Height:      def.Height,
	}
}

// regularPolygon returns counter-clockwise vertices around the origin.
func regularPolygon(sides int, radius float64) []cp.Vector {
	if sides < 3 {
		sides = 3
	}
	theta := 2 * math.Pi / float64(sides)
	offset := theta * 0.5
	verts := make([]cp.Vector, sides)
	for i := range verts {
		a := offset + theta*float64(i)
		verts[i] = cp.Vector{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return verts
}
