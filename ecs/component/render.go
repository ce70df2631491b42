package component

import "image/color"

// Render describes how a body is drawn. The renderer reads it; physics never does.
type Render struct {
	Fill    color.NRGBA
	Stroke  color.NRGBA
	Opacity float64
	Visible bool
	Layer   int

	// Stretch elongates the drawing toward a point (black holes).
	Stretch *Stretch
	// Halo draws a soft disc behind the body (sun glow, atmospheres).
	Halo *Halo
}

// Stretch scales the drawing by Factor along Angle and 1/Factor across it.
type Stretch struct {
	Factor float64
	Angle  float64
}

type Halo struct {
	Color  color.NRGBA
	Radius float64
}

var RenderComponent = NewComponent[*Render]("render")

// Color returns the fill with opacity applied to its alpha.
func (r *Render) Color() color.NRGBA {
	c := r.Fill
	o := r.Opacity
	if o < 0 {
		o = 0
	}
	if o > 1 {
		o = 1
	}
	c.A = uint8(float64(c.A)*o + 0.5)
	return c
}
