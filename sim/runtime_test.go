package sim

import (
	"errors"
	"io"
	"log"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/ecs/entity"
	"github.com/milk9111/scenesim/scene"
)

func testViewport(t *testing.T) common.Viewport {
	t.Helper()
	vp, err := common.NewViewport(1000, 800)
	if err != nil {
		t.Fatalf("viewport: %v", err)
	}
	return vp
}

func buildJSON(t *testing.T, doc string, opts ...Option) *Runtime {
	t.Helper()
	opts = append([]Option{WithSeed(7), WithLogger(log.New(io.Discard, "", 0))}, opts...)
	rt, err := BuildFromJSON([]byte(doc), testViewport(t), opts...)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(rt.Teardown)
	return rt
}

func bodyOf(t *testing.T, rt *Runtime, e ecs.Entity) *component.Body {
	t.Helper()
	rec, ok := ecs.Get(rt.World, e, component.BodyComponent)
	if !ok {
		t.Fatalf("entity %v has no body", e)
	}
	return rec
}

func TestBuildMalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"truncated", `{"objects": [{"type": "circle", "x": 5`},
		{"empty", ``},
		{"array at top level", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := BuildFromJSON([]byte(tt.doc), testViewport(t), WithLogger(log.New(io.Discard, "", 0)))
			if !errors.Is(err, ErrInvalidScene) {
				t.Fatalf("expected ErrInvalidScene, got %v", err)
			}
			if rt != nil {
				t.Fatalf("expected no runtime")
			}
		})
	}
}

func TestBuildOrderAndStats(t *testing.T) {
	rt := buildJSON(t, `{
		"objects": [
			{"type": "circle", "x": 30, "y": 30},
			{"type": "rectangle", "x": 60, "y": 30, "isStatic": true}
		],
		"forces": [
			{"type": "attractor", "x": 50, "y": 50, "strength": 0.001, "radius": 40},
			{"type": "vortex", "x": 50, "y": 50}
		],
		"behaviors": {
			"composites": [{"type": "chain", "x": 50, "y": 10, "size": 40, "elements": 4}],
			"particleEmitters": [{"x": 50, "y": 90, "rate": 2}]
		}
	}`)

	if len(rt.Walls) != 4 || len(rt.Objects) != 2 || len(rt.Forces) != 1 || len(rt.Composites) != 1 || len(rt.Emitters) != 1 {
		t.Fatalf("unexpected build: walls=%d objects=%d forces=%d composites=%d emitters=%d",
			len(rt.Walls), len(rt.Objects), len(rt.Forces), len(rt.Composites), len(rt.Emitters))
	}
	// Walls come first so objects can collide with them immediately.
	entities := rt.World.Entities()
	for i := 0; i < 4; i++ {
		if bodyOf(t, rt, entities[i]).Role != component.RoleBoundary {
			t.Fatalf("entity %d should be a wall", i)
		}
	}

	stats := rt.Stats()
	want := map[component.Role]int{
		component.RoleBoundary:  4,
		component.RolePrimary:   6,
		component.RoleIndicator: 2,
	}
	for role, n := range want {
		if stats.Bodies[role] != n {
			t.Fatalf("expected %d %s bodies, got %d", n, role, stats.Bodies[role])
		}
	}
	if stats.Hooks != 1 || stats.Timers != 1 {
		t.Fatalf("expected 1 hook and 1 timer, got %d and %d", stats.Hooks, stats.Timers)
	}
	if rt.TimeScale != scene.DefaultTimeScale {
		t.Fatalf("expected default time scale, got %v", rt.TimeScale)
	}
}

func TestTeardownReleasesEverything(t *testing.T) {
	rt := buildJSON(t, `{
		"objects": [{"type": "circle", "x": 50, "y": 50}],
		"forces": [{"type": "blackhole", "x": 50, "y": 50, "strength": 0.001, "radius": 30}],
		"behaviors": {
			"composites": [{"type": "solarSystem", "x": 50, "y": 50, "size": 40, "elements": 3}],
			"particleEmitters": [{"x": 20, "y": 80, "rate": 10}]
		}
	}`)
	for i := 0; i < 60; i++ {
		rt.Tick()
	}

	rt.Teardown()
	stats := rt.Stats()
	if stats.Hooks != 0 || stats.Timers != 0 {
		t.Fatalf("leaked %d hooks and %d timers", stats.Hooks, stats.Timers)
	}
	if stats.Census != (ecs.Census{}) || len(stats.Bodies) != 0 {
		t.Fatalf("world not released: %+v %v", stats.Census, stats.Bodies)
	}

	rt.Teardown()
	ticks := rt.Stats().Ticks
	rt.Tick()
	if rt.Stats().Ticks != ticks {
		t.Fatalf("tick after teardown advanced the run")
	}
}

func TestTeardownLeavesOtherRunsAlone(t *testing.T) {
	hooks := ecs.NewHooks()
	doc := `{"forces": [{"type": "wind", "x": 50, "y": 50, "strength": 0.001, "radius": 30}]}`
	a := buildJSON(t, doc, WithHooks(hooks))
	b := buildJSON(t, doc, WithHooks(hooks))

	a.Teardown()
	if hooks.Count(a.ID) != 0 || hooks.Count(b.ID) != 1 {
		t.Fatalf("teardown touched another run: a=%d b=%d", hooks.Count(a.ID), hooks.Count(b.ID))
	}
}

// Scenario A: the impulse of the raised ball travels through the row.
func TestCradleTransfersMomentum(t *testing.T) {
	rt := buildJSON(t, `{
		"behaviors": {"composites": [{"type": "newtonsCradle", "x": 50, "y": 20, "size": 30, "elements": 5}]}
	}`)
	balls := rt.Composites[0].Bodies
	if len(balls) != 5 {
		t.Fatalf("expected 5 balls, got %d", len(balls))
	}
	rest := make([]float64, len(balls))
	for i, e := range balls {
		rest[i] = bodyOf(t, rt, e).Body.Position().X
	}
	rest[0] = bodyOf(t, rt, balls[1]).Body.Position().X - (rest[2] - rest[1])

	peak := make([]float64, len(balls))
	for tick := 0; tick < 240; tick++ {
		rt.Tick()
		for i, e := range balls {
			d := math.Abs(bodyOf(t, rt, e).Body.Position().X - rest[i])
			peak[i] = math.Max(peak[i], d)
		}
	}
	for i := 1; i <= 3; i++ {
		if !(peak[4] > peak[i]) {
			t.Fatalf("last ball peak %v not above middle ball %d peak %v (all %v)", peak[4], i, peak[i], peak)
		}
	}
}

// Scenario B through the full tick loop, stopped before the body reaches a wall.
func TestWindAcceleratesAlongAxis(t *testing.T) {
	rt := buildJSON(t, `{
		"objects": [{"type": "circle", "x": 50, "y": 50, "material": {"frictionAir": 0}}],
		"forces": [{"type": "wind", "x": 50, "y": 50, "strength": 0.01, "radius": 100}],
		"gravity": {"x": 0, "y": 0}
	}`)
	rec := bodyOf(t, rt, rt.Objects[0])
	prev := rec.Body.Velocity().X
	for i := 0; i < 15; i++ {
		rt.Tick()
		vx := rec.Body.Velocity().X
		if vx < prev {
			t.Fatalf("tick %d: vx fell from %v to %v", i, prev, vx)
		}
		prev = vx
	}
}

// Scenario D: one bad composite does not stop the rest of the build.
func TestUnknownCompositeSkipped(t *testing.T) {
	rt := buildJSON(t, `{
		"behaviors": {"composites": [
			{"type": "unknownType", "x": 50, "y": 50},
			{"type": "newtonsCradle", "x": 50, "y": 20, "elements": 5}
		]}
	}`)
	if len(rt.Composites) != 1 || rt.Composites[0].Type != scene.ArchetypeNewtonsCradle {
		t.Fatalf("expected only the cradle, got %d composites", len(rt.Composites))
	}
	if got := rt.Stats().Bodies[component.RolePrimary]; got != 5 {
		t.Fatalf("expected 5 cradle balls, got %d", got)
	}
	for i := 0; i < 10; i++ {
		rt.Tick()
	}
}

func TestSolarOrbitStaysBounded(t *testing.T) {
	rt := buildJSON(t, `{
		"behaviors": {"composites": [{"type": "solarSystem", "x": 50, "y": 50, "size": 30, "elements": 1}]},
		"gravity": {"x": 0, "y": 0},
		"settings": {"timeScale": 1}
	}`)
	solar := rt.Composites[0].Solar
	planet := solar.Planets[0].Body
	start := planet.Position().Distance(solar.Center)

	for i := 0; i < 3000; i++ {
		rt.Tick()
		d := planet.Position().Distance(solar.Center)
		if drift := math.Abs(d-start) / start; drift >= 0.5 {
			t.Fatalf("tick %d: orbit drifted %.0f%%", i, drift*100)
		}
	}
}

func TestEmitterParticlesExpire(t *testing.T) {
	spawned := map[ecs.Entity]float64{}
	var lifetimes []float64
	rt := buildJSON(t, `{
		"behaviors": {"particleEmitters": [{"x": 50, "y": 50, "rate": 4, "force": 0}]},
		"gravity": {"x": 0, "y": 0}
	}`, WithEvents(func(evt ecs.Event) {
		if evt.Role != component.RoleParticle {
			return
		}
		switch evt.Kind {
		case ecs.EventBodyAdded:
			spawned[evt.Entity] = evt.Time
		case ecs.EventBodyExpired:
			lifetimes = append(lifetimes, evt.Time-spawned[evt.Entity])
		}
	}))

	limit := 4*5 + 1
	ticks := int(5 * 5000 / common.FrameMillis)
	for i := 0; i < ticks; i++ {
		rt.Tick()
		if live := rt.Stats().Bodies[component.RoleParticle]; live > limit {
			t.Fatalf("tick %d: %d live particles", i, live)
		}
	}
	if len(lifetimes) == 0 {
		t.Fatalf("no particle expired")
	}
	for _, life := range lifetimes {
		if life > 5000+common.FrameMillis {
			t.Fatalf("particle lived %vms", life)
		}
	}
	if rt.Stats().Expired != len(lifetimes) {
		t.Fatalf("expired counter %d, events %d", rt.Stats().Expired, len(lifetimes))
	}
}

func TestTuningShortensParticleLifetime(t *testing.T) {
	tuning := entity.DefaultTuning()
	tuning.ParticleLifetime = 1000
	expired := 0
	rt := buildJSON(t, `{
		"behaviors": {"particleEmitters": [{"x": 50, "y": 50, "rate": 4, "force": 0}]},
		"gravity": {"x": 0, "y": 0}
	}`, WithTuning(tuning), WithEvents(func(evt ecs.Event) {
		if evt.Kind == ecs.EventBodyExpired && evt.Role == component.RoleParticle {
			expired++
		}
	}))

	for i := 0; i < int(2000/common.FrameMillis); i++ {
		rt.Tick()
		if live := rt.Stats().Bodies[component.RoleParticle]; live > 4*1+1 {
			t.Fatalf("tick %d: %d live particles", i, live)
		}
	}
	if expired == 0 {
		t.Fatalf("no particle expired within two seconds")
	}
}

func TestSamplesRunFinite(t *testing.T) {
	for _, name := range scene.Samples() {
		t.Run(name, func(t *testing.T) {
			data, err := scene.Load(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			rt := buildJSON(t, string(data))
			for i := 0; i < 300; i++ {
				rt.Tick()
			}
			ecs.ForEach(rt.World, component.BodyComponent, func(e ecs.Entity, rec *component.Body) {
				p := rec.Body.Position()
				if !common.Finite(p.X) || !common.Finite(p.Y) {
					t.Fatalf("%s body %v at %v", rec.Role, e, p)
				}
			})
		})
	}
}

func TestResizeKeepsBodies(t *testing.T) {
	rt := buildJSON(t, `{"objects": [{"type": "circle", "x": 25, "y": 25}], "gravity": {"x": 0, "y": 0}}`)
	rec := bodyOf(t, rt, rt.Objects[0])
	before := rec.Body.Position()
	if err := rt.Resize(500, 400, 2); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if rt.Viewport.Width != 500 || rt.Viewport.PixelRatio != 2 {
		t.Fatalf("viewport not updated: %+v", rt.Viewport)
	}
	if w, h := rt.Viewport.Device(); w != 1000 || h != 800 {
		t.Fatalf("expected device size 1000x800, got %vx%v", w, h)
	}
	if rec.Body.Position() != before {
		t.Fatalf("resize moved a body")
	}
	if err := rt.Resize(-1, 10, 1); err == nil {
		t.Fatalf("expected error for negative extent")
	}
}

func TestTeardownReleasesDraggedBody(t *testing.T) {
	rt := buildJSON(t, `{"objects": [{"type": "circle", "x": 50, "y": 50}], "gravity": {"x": 0, "y": 0}}`)
	rec := bodyOf(t, rt, rt.Objects[0])
	if !rt.Drag.Grab(rec.Body.Position()) {
		t.Fatalf("expected to grab the object")
	}
	rt.Drag.MoveTo(rec.Body.Position().Add(cp.Vector{X: 50}))
	rt.Tick()

	rt.Teardown()
	if census := rt.World.Physics().Census(); census != (ecs.Census{}) {
		t.Fatalf("space not released: %+v", census)
	}
	if _, ok := rt.Drag.Held(); ok {
		t.Fatalf("drag still holds a body after teardown")
	}
	if rt.Drag.Grab(cp.Vector{X: 500, Y: 400}) {
		t.Fatalf("grabbed after teardown")
	}
}
