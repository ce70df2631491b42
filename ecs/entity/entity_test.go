package entity

import (
	"errors"
	"io"
	"log"
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/scene"
)

func newTestContext(t *testing.T, gravity cp.Vector) *Context {
	t.Helper()
	vp, err := common.NewViewport(1000, 800)
	if err != nil {
		t.Fatalf("viewport: %v", err)
	}
	logger := log.New(io.Discard, "", 0)
	return &Context{
		World:    ecs.NewWorld(ecs.NewPhysicsWorld(gravity, logger)),
		Viewport: vp,
		Rand:     rand.New(rand.NewSource(1)),
		Logger:   logger,
		Tuning:   DefaultTuning(),
	}
}

func bodyOf(t *testing.T, ctx *Context, e ecs.Entity) *component.Body {
	t.Helper()
	rec, ok := ecs.Get(ctx.World, e, component.BodyComponent)
	if !ok {
		t.Fatalf("entity %v has no body", e)
	}
	return rec
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestNewObjectMaterialDefaults(t *testing.T) {
	ctx := newTestContext(t, cp.Vector{})
	e, err := NewObject(ctx, scene.ObjectSpec{Type: scene.ShapeCircle, X: 50, Y: 50, Radius: scene.Float(5)})
	if err != nil {
		t.Fatalf("new object: %v", err)
	}
	rec := bodyOf(t, ctx, e)

	mat, ok := ecs.Get(ctx.World, e, component.MaterialComponent)
	if !ok {
		t.Fatalf("expected material component")
	}
	want := component.Material{Density: 0.001, Restitution: 0.6, Friction: 0.1, FrictionAir: 0.01}
	if mat != want {
		t.Fatalf("expected %+v, got %+v", want, mat)
	}
	shape := rec.Shapes[0]
	if shape.Elasticity() != 0.6 || shape.Friction() != 0.1 {
		t.Fatalf("shape material not applied: e=%v f=%v", shape.Elasticity(), shape.Friction())
	}

	// radius is 5% of the smaller viewport dimension
	if !near(rec.Radius, 40, 1e-9) {
		t.Fatalf("expected radius 40, got %v", rec.Radius)
	}
	wantMass := 0.001 * math.Pi * 40 * 40
	if !near(rec.Body.Mass(), wantMass, 1e-9) {
		t.Fatalf("expected mass %v, got %v", wantMass, rec.Body.Mass())
	}
	if p := rec.Body.Position(); !near(p.X, 500, 1e-9) || !near(p.Y, 400, 1e-9) {
		t.Fatalf("unexpected position %v", p)
	}
}

func TestNewObjectShapes(t *testing.T) {
	tests := []struct {
		name  string
		spec  scene.ObjectSpec
		check func(t *testing.T, rec *component.Body)
	}{
		{
			name: "rectangle uses width and height axes",
			spec: scene.ObjectSpec{Type: scene.ShapeRectangle, X: 10, Y: 10, Width: scene.Float(10), Height: scene.Float(5)},
			check: func(t *testing.T, rec *component.Body) {
				if rec.Shape != component.ShapeBox || !near(rec.Width, 100, 1e-9) || !near(rec.Height, 40, 1e-9) {
					t.Fatalf("unexpected box %+v", rec)
				}
			},
		},
		{
			name: "polygon defaults to five sides",
			spec: scene.ObjectSpec{Type: scene.ShapePolygon, X: 10, Y: 10},
			check: func(t *testing.T, rec *component.Body) {
				poly, ok := rec.Shapes[0].Class.(*cp.PolyShape)
				if !ok || poly.Count() != scene.DefaultSides {
					t.Fatalf("expected %d-gon", scene.DefaultSides)
				}
			},
		},
		{
			name: "unknown kind becomes a circle of radius 30",
			spec: scene.ObjectSpec{Type: "blob", X: 10, Y: 10},
			check: func(t *testing.T, rec *component.Body) {
				if rec.Shape != component.ShapeCircle || rec.Radius != scene.DefaultCircleRadius {
					t.Fatalf("unexpected fallback %+v", rec)
				}
			},
		},
		{
			name: "static bodies keep nominal mass",
			spec: scene.ObjectSpec{Type: scene.ShapeCircle, X: 10, Y: 10, Radius: scene.Float(5), Static: true},
			check: func(t *testing.T, rec *component.Body) {
				if !rec.Static || rec.Body.GetType() != cp.BODY_STATIC {
					t.Fatalf("expected static body")
				}
				if !near(rec.NominalMass, 0.001*math.Pi*1600, 1e-9) {
					t.Fatalf("unexpected nominal mass %v", rec.NominalMass)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(t, cp.Vector{})
			e, err := NewObject(ctx, tt.spec)
			if err != nil {
				t.Fatalf("new object: %v", err)
			}
			tt.check(t, bodyOf(t, ctx, e))
		})
	}
}

func TestNewObjectKinematicsOrder(t *testing.T) {
	ctx := newTestContext(t, cp.Vector{})
	spec := scene.ObjectSpec{
		Type:                   scene.ShapeCircle,
		X:                      50,
		Y:                      50,
		Material:               scene.MaterialSpec{FrictionAir: scene.Float(0)},
		InitialVelocity:        &scene.Vec{X: 3, Y: -1},
		InitialAngularVelocity: scene.Float(0.2),
		Force:                  &scene.Vec{X: 0.001},
	}
	e, err := NewObject(ctx, spec)
	if err != nil {
		t.Fatalf("new object: %v", err)
	}
	rec := bodyOf(t, ctx, e)
	if v := rec.Body.Velocity(); v.X != 3 || v.Y != -1 {
		t.Fatalf("velocity not applied: %v", v)
	}
	if rec.Body.AngularVelocity() != 0.2 {
		t.Fatalf("angular velocity not applied: %v", rec.Body.AngularVelocity())
	}

	ctx.World.Physics().Step(1)
	// The one-shot force adds F·ForceScale/m on top of the initial velocity.
	want := 3 + 0.001*common.ForceScale/rec.Body.Mass()
	if v := rec.Body.Velocity(); !near(v.X, want, 1e-9) {
		t.Fatalf("expected vx %v after impulse, got %v", want, v.X)
	}
	ctx.World.Physics().Step(1)
	if v := rec.Body.Velocity(); !near(v.X, want, 1e-9) {
		t.Fatalf("force should apply once, vx %v", v.X)
	}
}

func TestAirFrictionDampsVelocity(t *testing.T) {
	ctx := newTestContext(t, cp.Vector{})
	e, err := NewObject(ctx, scene.ObjectSpec{Type: scene.ShapeCircle, X: 50, Y: 50, InitialVelocity: &scene.Vec{X: 10}})
	if err != nil {
		t.Fatalf("new object: %v", err)
	}
	rec := bodyOf(t, ctx, e)
	ctx.World.Physics().Step(1)
	if v := rec.Body.Velocity(); !near(v.X, 9.9, 1e-9) {
		t.Fatalf("expected 1%% air drag, got %v", v.X)
	}
}

func TestObjectConstraints(t *testing.T) {
	kinds := []scene.ConstraintKind{scene.ConstraintPin, scene.ConstraintRope, scene.ConstraintSpring, scene.ConstraintChain}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			ctx := newTestContext(t, cp.Vector{})
			spec := scene.ObjectSpec{
				Type:        scene.ShapeCircle,
				X:           50,
				Y:           50,
				Constraints: []scene.ConstraintSpec{{Type: kind, PointX: 50, PointY: 10, Stiffness: 0.5, Damping: 0.1}},
			}
			e, err := NewObject(ctx, spec)
			if err != nil {
				t.Fatalf("new object: %v", err)
			}
			tethers, ok := ecs.Get(ctx.World, e, component.TetherComponent)
			if !ok || len(tethers) != 1 {
				t.Fatalf("expected one tether, got %d", len(tethers))
			}
			if c := ctx.World.Physics().Census(); c.Constraints != 1 {
				t.Fatalf("expected one constraint, got %d", c.Constraints)
			}
			if kind == scene.ConstraintChain {
				pin := tethers[0].Joint.Class.(*cp.PinJoint)
				if !near(pin.Dist, 320, 1e-9) {
					t.Fatalf("expected current distance 320, got %v", pin.Dist)
				}
			}

			ctx.World.DestroyEntity(e)
			if c := ctx.World.Physics().Census(); c.Constraints != 0 {
				t.Fatalf("constraint should leave with its body, got %d", c.Constraints)
			}
		})
	}
}

func TestNewWallsSitOutsideViewport(t *testing.T) {
	ctx := newTestContext(t, cp.Vector{})
	walls, err := NewWalls(ctx)
	if err != nil {
		t.Fatalf("walls: %v", err)
	}
	if len(walls) != 4 {
		t.Fatalf("expected 4 walls, got %d", len(walls))
	}
	for _, e := range walls {
		rec := bodyOf(t, ctx, e)
		if rec.Role != component.RoleBoundary || !rec.Static {
			t.Fatalf("expected static boundary, got %+v", rec)
		}
		bb := rec.Shapes[0].BB()
		inside := bb.L > 0 && bb.R < 1000 && bb.T < 800 && bb.B > 0
		if inside {
			t.Fatalf("wall %v intrudes into the viewport: %+v", e, bb)
		}
	}
}

func TestBuildCompositeUnknown(t *testing.T) {
	ctx := newTestContext(t, cp.Vector{})
	c, err := BuildComposite(ctx, scene.CompositeSpec{Type: "galaxy", X: 50, Y: 50, Size: 30, Elements: 3})
	if !errors.Is(err, ErrUnknownArchetype) || c != nil {
		t.Fatalf("expected ErrUnknownArchetype, got %v", err)
	}
	if ctx.World.Len() != 0 {
		t.Fatalf("unknown archetype should build nothing")
	}
}

func TestBuildCompositeArchetypes(t *testing.T) {
	tests := []struct {
		kind   scene.Archetype
		elems  int
		bodies int
		joints int
	}{
		{scene.ArchetypeNewtonsCradle, 5, 5, 5},
		{scene.ArchetypePendulum, 4, 4, 4},
		{scene.ArchetypeChain, 6, 6, 6},
		{scene.ArchetypeBridge, 5, 5, 6},
		{scene.ArchetypePyramid, 4, 10, 0},
		{scene.ArchetypeStack, 2, 6, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			ctx := newTestContext(t, cp.Vector{})
			c, err := BuildComposite(ctx, scene.CompositeSpec{Type: tt.kind, X: 50, Y: 30, Size: 40, Elements: tt.elems})
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if len(c.Bodies) != tt.bodies || len(c.Joints) != tt.joints {
				t.Fatalf("expected %d bodies %d joints, got %d %d", tt.bodies, tt.joints, len(c.Bodies), len(c.Joints))
			}
			census := ctx.World.Physics().Census()
			if census.Bodies != tt.bodies || census.Constraints != tt.joints {
				t.Fatalf("space holds %+v", census)
			}
		})
	}
}

func TestCradleGeometry(t *testing.T) {
	ctx := newTestContext(t, cp.Vector{})
	c, err := BuildComposite(ctx, scene.CompositeSpec{Type: scene.ArchetypeNewtonsCradle, X: 50, Y: 25, Size: 50, Elements: 3})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	size := 400.0
	r := size * 0.1
	first := bodyOf(t, ctx, c.Bodies[0])
	if first.Body.Moment() != math.Inf(1) {
		t.Fatalf("cradle balls need infinite moment, got %v", first.Body.Moment())
	}
	if first.Shapes[0].Elasticity() != 0.99 {
		t.Fatalf("unexpected restitution %v", first.Shapes[0].Elasticity())
	}
	anchorX := 500 - 2.1*r
	if p := first.Body.Position(); !near(p.X, anchorX-4*r, 1e-9) {
		t.Fatalf("first ball should be lifted 4r left, got %v", p)
	}
	for i, e := range c.Bodies[1:] {
		p := bodyOf(t, ctx, e).Body.Position()
		if !near(p.Y, 200+0.8*size, 1e-9) {
			t.Fatalf("ball %d should hang at string length, got %v", i+1, p)
		}
	}
}

func TestSolarSystemBuild(t *testing.T) {
	ctx := newTestContext(t, cp.Vector{})
	c, err := BuildComposite(ctx, scene.CompositeSpec{Type: scene.ArchetypeSolarSystem, X: 50, Y: 50, Size: 80, Elements: 4})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	solar := c.Solar
	if solar == nil || len(solar.Planets) != 4 {
		t.Fatalf("expected 4 planets, got %+v", solar)
	}
	if !solar.SunBody.Static {
		t.Fatalf("sun should be static")
	}
	sunR := 640 * 0.15
	mu := Well(ctx.Tuning.SolarGravity, solar.SunBody.NominalMass)
	for i, p := range solar.Planets {
		d := p.Body.Body.Position().Distance(solar.Center)
		wantD := sunR*2 + float64(i+1)*640*0.1
		if !near(d, wantD, 1e-6) {
			t.Fatalf("planet %d at %v, want %v", i, d, wantD)
		}
		if p.Radius < sunR*0.2 || p.Radius > sunR*0.5 {
			t.Fatalf("planet %d radius %v out of range", i, p.Radius)
		}
		speed := p.Body.Body.Velocity().Length()
		if !near(speed, math.Sqrt(mu/d), 1e-9) {
			t.Fatalf("planet %d speed %v, want circular %v", i, speed, math.Sqrt(mu/d))
		}
		if i == 0 && len(p.Moons) != 0 {
			t.Fatalf("innermost planet never has moons")
		}
	}
}

func TestPendulumSwingAlternates(t *testing.T) {
	ctx := newTestContext(t, cp.Vector{})
	c, err := BuildComposite(ctx, scene.CompositeSpec{Type: scene.ArchetypePendulum, X: 50, Y: 20, Size: 40, Elements: 4})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i, e := range c.Bodies {
		want := 5.0
		if i%2 == 1 {
			want = -5
		}
		v := bodyOf(t, ctx, e).Body.Velocity()
		if v.X != want || v.Y != 0 {
			t.Fatalf("bob %d: expected velocity (%v, 0), got %v", i, want, v)
		}
	}
}
