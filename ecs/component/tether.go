package component

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// Tether is a drawn link between two bodies. Anchors are local to their body;
// the space's static body maps local to world coordinates unchanged.
type Tether struct {
	Joint   *cp.Constraint
	A       *cp.Body
	AnchorA cp.Vector
	B       *cp.Body
	AnchorB cp.Vector
	Color   color.NRGBA
	Hidden  bool
}

// Ends returns the current world endpoints of the tether.
func (t Tether) Ends() (cp.Vector, cp.Vector) {
	return t.A.LocalToWorld(t.AnchorA), t.B.LocalToWorld(t.AnchorB)
}

// Live reports whether the joint is still part of space.
func (t Tether) Live(space *cp.Space) bool {
	return space != nil && t.Joint != nil && space.ContainsConstraint(t.Joint)
}

var TetherComponent = NewComponent[[]Tether]("tethers")
