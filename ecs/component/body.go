package component

import "github.com/jakecoffman/cp"

// Body stores the engine objects behind one simulated body.
type Body struct {
	Body   *cp.Body
	Shapes []*cp.Shape
	Role   Role
	Shape  ShapeKind
	Static bool

	// Attached reports whether Body is owned by the space. Boundary walls hang
	// their shapes off the space's static body instead.
	Attached bool

	// NominalMass is density times area, also for static bodies.
	NominalMass float64
	// Radius is set for circles and used by trail spawning.
	Radius float64
	Width  float64
	Height float64
}

var BodyComponent = NewComponent[*Body]("body")

// Position returns the body position or the zero vector for a detached record.
func (b *Body) Position() cp.Vector {
	if b == nil || b.Body == nil {
		return cp.Vector{}
	}
	return b.Body.Position()
}

// Dynamic reports whether forces should act on the body.
func (b *Body) Dynamic() bool {
	return b != nil && b.Body != nil && !b.Static && b.Body.GetType() == cp.BODY_DYNAMIC
}

type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
	ShapePolygon
)

// Material is the applied material of a primary body.
type Material struct {
	Density     float64
	Restitution float64
	Friction    float64
	FrictionAir float64
}

var MaterialComponent = NewComponent[Material]("material")
