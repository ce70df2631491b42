package render

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
)

const (
	ellipseSegments = 24
	tetherWidth     = 2
)

// Renderer draws bodies from their render metadata. It never touches physics.
type Renderer struct {
	// Scale maps engine units to screen pixels.
	Scale float64
	// Debug overlays the Chipmunk shapes and constraints.
	Debug bool

	white   *ebiten.Image
	verts   []ebiten.Vertex
	indices []uint16
	order   []drawItem
}

type drawItem struct {
	e      ecs.Entity
	body   *component.Body
	render *component.Render
}

func NewRenderer() *Renderer {
	base := ebiten.NewImage(3, 3)
	base.Fill(color.White)
	return &Renderer{
		Scale: 1,
		white: base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// Draw paints the world in layer order, then tethers on top.
func (r *Renderer) Draw(screen *ebiten.Image, w *ecs.World, background color.NRGBA) {
	if r == nil || screen == nil || w == nil {
		return
	}
	screen.Fill(background)

	r.order = r.order[:0]
	for _, e := range w.Entities() {
		body, ok := ecs.Get(w, e, component.BodyComponent)
		if !ok {
			continue
		}
		rnd, ok := ecs.Get(w, e, component.RenderComponent)
		if !ok || rnd == nil || !rnd.Visible {
			continue
		}
		r.order = append(r.order, drawItem{e: e, body: body, render: rnd})
	}
	sort.SliceStable(r.order, func(i, j int) bool {
		return r.order[i].render.Layer < r.order[j].render.Layer
	})

	for _, it := range r.order {
		if h := it.render.Halo; h != nil {
			p := it.body.Position()
			vector.FillCircle(screen, r.px(p.X), r.px(p.Y), r.px(h.Radius), h.Color, true)
		}
		r.drawBody(screen, it.body, it.render)
	}

	space := w.Physics().Space()
	ecs.ForEach(w, component.TetherComponent, func(_ ecs.Entity, tethers []component.Tether) {
		for _, t := range tethers {
			if t.Hidden || !t.Live(space) {
				continue
			}
			a, b := t.Ends()
			vector.StrokeLine(screen, r.px(a.X), r.px(a.Y), r.px(b.X), r.px(b.Y), tetherWidth, t.Color, true)
		}
	})

	if r.Debug && space != nil {
		DrawPhysicsDebug(space, screen, r.Scale)
	}
}

func (r *Renderer) drawBody(screen *ebiten.Image, body *component.Body, rnd *component.Render) {
	fill := rnd.Color()
	if fill.A == 0 {
		return
	}
	switch body.Shape {
	case component.ShapeCircle:
		p := body.Position()
		if s := rnd.Stretch; s != nil && s.Factor > 0 {
			r.fillConvex(screen, ellipse(p, body.Radius*s.Factor, body.Radius/s.Factor, s.Angle), fill)
			return
		}
		vector.FillCircle(screen, r.px(p.X), r.px(p.Y), r.px(body.Radius), fill, true)
		if rnd.Stroke.A > 0 {
			vector.StrokeCircle(screen, r.px(p.X), r.px(p.Y), r.px(body.Radius), 1, rnd.Stroke, true)
		}
	default:
		for _, shape := range body.Shapes {
			poly, ok := shape.Class.(*cp.PolyShape)
			if !ok {
				continue
			}
			pts := make([]cp.Vector, poly.Count())
			for i := range pts {
				pts[i] = poly.TransformVert(i)
			}
			if s := rnd.Stretch; s != nil && s.Factor > 0 {
				pts = stretch(pts, body.Position(), s)
			}
			r.fillConvex(screen, pts, fill)
			if rnd.Stroke.A > 0 {
				r.strokeLoop(screen, pts, rnd.Stroke)
			}
		}
	}
}

// fillConvex draws a convex polygon as a triangle fan.
func (r *Renderer) fillConvex(screen *ebiten.Image, pts []cp.Vector, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	cr, cg, cb, ca := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	r.verts = r.verts[:0]
	r.indices = r.indices[:0]
	for _, p := range pts {
		r.verts = append(r.verts, ebiten.Vertex{
			DstX: r.px(p.X), DstY: r.px(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	for i := 1; i+1 < len(pts); i++ {
		r.indices = append(r.indices, 0, uint16(i), uint16(i+1))
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(r.verts, r.indices, r.white, op)
}

func (r *Renderer) strokeLoop(screen *ebiten.Image, pts []cp.Vector, c color.NRGBA) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, r.px(a.X), r.px(a.Y), r.px(b.X), r.px(b.Y), 1, c, true)
	}
}

func (r *Renderer) px(v float64) float32 {
	return float32(v * r.Scale)
}

func ellipse(center cp.Vector, major, minor, angle float64) []cp.Vector {
	pts := make([]cp.Vector, ellipseSegments)
	cos, sin := math.Cos(angle), math.Sin(angle)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / ellipseSegments
		x, y := math.Cos(t)*major, math.Sin(t)*minor
		pts[i] = cp.Vector{X: center.X + x*cos - y*sin, Y: center.Y + x*sin + y*cos}
	}
	return pts
}

// stretch scales points around center by Factor along the stretch axis and
// 1/Factor across it.
func stretch(pts []cp.Vector, center cp.Vector, s *component.Stretch) []cp.Vector {
	axis := cp.ForAngle(s.Angle)
	out := make([]cp.Vector, len(pts))
	for i, p := range pts {
		d := p.Sub(center)
		along := d.Dot(axis)
		across := d.Cross(axis)
		out[i] = center.Add(axis.Mult(along * s.Factor)).Add(axis.Perp().Mult(-across / s.Factor))
	}
	return out
}
