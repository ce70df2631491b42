package sim

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/ecs/entity"
	"github.com/milk9111/scenesim/ecs/system"
	"github.com/milk9111/scenesim/scene"
)

// ErrInvalidScene is the only build failure: the document could not be read.
var ErrInvalidScene = scene.ErrInvalidScene

var nextRunID atomic.Uint64

// Runtime owns one built scene: its world, physics space, hooks and timers.
// It is not safe for concurrent use; Tick, Resize and Teardown are called
// from the same goroutine.
type Runtime struct {
	ID         ecs.RunID
	Desc       *scene.Description
	World      *ecs.World
	Viewport   common.Viewport
	TimeScale  float64
	Background color.NRGBA

	Walls      []ecs.Entity
	Objects    []ecs.Entity
	Forces     []*system.ForceField
	Composites []*entity.Composite
	Emitters   []*system.Emitter
	Sticky     *system.StickyCollisions
	// Drag lets the viewer pull bodies with the pointer.
	Drag *system.Drag

	env     *system.Env
	sweep   *system.DecaySystem
	logger  *log.Logger
	onEvent func(ecs.Event)

	now      float64
	ticks    int
	counters map[ecs.EventKind]int
	torn     bool
}

// Build constructs a runtime from a parsed description. Build order matters:
// walls exist before objects, and forces see every primary body on the first
// tick. Field-level problems were already replaced by defaults while parsing;
// here unknown forces and archetypes are logged and skipped.
func Build(desc *scene.Description, vp common.Viewport, opts ...Option) (*Runtime, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: no description", ErrInvalidScene)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.Default()
	}
	tuning := entity.DefaultTuning()
	if o.tuning != nil {
		tuning = *o.tuning
	}
	hooks := o.hooks
	if hooks == nil {
		hooks = ecs.NewHooks()
	}
	timers := o.timers
	if timers == nil {
		timers = ecs.NewTimers()
	}
	seed := o.seed
	if seed == 0 {
		seed = desc.Settings.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := desc.Gravity
	gravity := cp.Vector{X: g.X, Y: g.Y}.Mult(g.Scale * common.ForceScale)
	world := ecs.NewWorld(ecs.NewPhysicsWorld(gravity, logger))
	if o.hooks == nil {
		hooks.Events = world.Events()
	}

	timeScale := desc.Settings.TimeScale
	if !(timeScale > 0) {
		timeScale = scene.DefaultTimeScale
	}

	rt := &Runtime{
		ID:         ecs.RunID(nextRunID.Add(1)),
		Desc:       desc,
		World:      world,
		Viewport:   vp,
		TimeScale:  timeScale,
		Background: scene.MustColor(desc.Settings.Background, scene.MustColor(scene.DefaultBackground, color.NRGBA{A: 255})),
		sweep:      system.NewDecaySystem(),
		logger:     logger,
		onEvent:    o.onEvent,
		now:        timers.Now(),
		counters:   make(map[ecs.EventKind]int),
	}
	world.SetTime(rt.now)
	rt.env = &system.Env{
		Context: &entity.Context{
			World:    world,
			Viewport: vp,
			Rand:     rand.New(rand.NewSource(seed)),
			Logger:   logger,
			Tuning:   tuning,
		},
		Hooks:  hooks,
		Timers: timers,
		Run:    rt.ID,
	}

	if err := rt.build(); err != nil {
		rt.Teardown()
		return nil, err
	}
	for _, issue := range desc.Issues {
		logger.Printf("scene: %s", issue)
	}
	logger.Printf("sim: run %d built: %d objects, %d forces, %d composites, %d emitters",
		rt.ID, len(rt.Objects), len(rt.Forces), len(rt.Composites), len(rt.Emitters))
	return rt, nil
}

// BuildFromJSON parses a scene document and builds it. A document that cannot
// be parsed yields ErrInvalidScene and no runtime.
func BuildFromJSON(data []byte, vp common.Viewport, opts ...Option) (*Runtime, error) {
	desc, err := scene.Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(desc, vp, opts...)
}

// Load builds a scene by name from the scene directory or the embedded
// samples.
func Load(name string, vp common.Viewport, opts ...Option) (*Runtime, error) {
	data, err := scene.Load(name)
	if err != nil {
		return nil, fmt.Errorf("sim: load %s: %w", name, err)
	}
	return BuildFromJSON(data, vp, opts...)
}

func (rt *Runtime) build() error {
	env := rt.env
	desc := rt.Desc

	walls, err := entity.NewWalls(env.Context)
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	rt.Walls = walls

	for i, spec := range desc.Objects {
		e, err := entity.NewObject(env.Context, spec)
		if err != nil {
			rt.logger.Printf("sim: object %d: %v", i, err)
			continue
		}
		rt.Objects = append(rt.Objects, e)
	}

	for i, spec := range desc.Forces {
		ff, err := system.AttachForce(env, spec)
		if err != nil {
			rt.logger.Printf("sim: force %d skipped: %v", i, err)
			continue
		}
		rt.Forces = append(rt.Forces, ff)
	}

	for i, spec := range desc.Composites {
		c, err := entity.BuildComposite(env.Context, spec)
		if err != nil {
			if errors.Is(err, entity.ErrUnknownArchetype) {
				rt.logger.Printf("sim: composite %d skipped: %v", i, err)
			} else {
				rt.logger.Printf("sim: composite %d: %v", i, err)
			}
			if c == nil {
				continue
			}
		}
		if c.Solar != nil {
			system.AttachSolar(env, c.Solar)
		}
		rt.Composites = append(rt.Composites, c)
	}

	for i, spec := range desc.Emitters {
		em, err := system.AttachEmitter(env, spec)
		if err != nil {
			rt.logger.Printf("sim: emitter %d: %v", i, err)
			continue
		}
		rt.Emitters = append(rt.Emitters, em)
	}

	if desc.Collisions == scene.CollisionsSticky {
		rt.Sticky = system.NewStickyCollisions(env)
		rt.Sticky.Install()
	} else {
		system.ApplyCollisions(env, desc.Collisions)
	}
	rt.Drag = system.NewDrag(env)
	return nil
}

// Tick advances the simulation by one frame: timers, the ephemeral sweep,
// force hooks in registration order, then the engine step. Tick after
// Teardown does nothing.
func (rt *Runtime) Tick() {
	if rt == nil || rt.torn {
		return
	}
	rt.now += common.FrameMillis
	rt.ticks++
	rt.World.SetTime(rt.now)

	rt.env.Timers.Advance(rt.now)
	rt.sweep.Update(rt.World, rt.now)
	rt.env.Hooks.Run(rt.ID, rt.TimeScale)
	rt.World.Physics().Step(rt.TimeScale)

	rt.drainEvents()
}

func (rt *Runtime) drainEvents() {
	for _, evt := range rt.World.Events().Drain() {
		rt.counters[evt.Kind]++
		if rt.onEvent != nil {
			rt.onEvent(evt)
		}
	}
}

// Resize updates the viewport used for drawing. Bodies keep their
// simulation state.
func (rt *Runtime) Resize(width, height, pixelRatio float64) error {
	vp, err := common.NewViewport(width, height)
	if err != nil {
		return fmt.Errorf("sim: resize: %w", err)
	}
	if pixelRatio > 0 {
		vp.PixelRatio = pixelRatio
	}
	rt.Viewport = vp
	return nil
}

// Teardown cancels the run's timers, unregisters its hooks and releases the
// world, in that order. It is safe to call more than once.
func (rt *Runtime) Teardown() {
	if rt == nil || rt.torn {
		return
	}
	rt.torn = true
	timers := rt.env.Timers.CancelRun(rt.ID)
	hooks := rt.env.Hooks.UnregisterRun(rt.ID)
	bodies := rt.World.Clear()
	rt.World.Physics().Release()
	rt.drainEvents()
	rt.logger.Printf("sim: run %d torn down: %d timers, %d hooks, %d bodies", rt.ID, timers, hooks, bodies)
}

// Stats is a snapshot of a runtime.
type Stats struct {
	Run     ecs.RunID
	Time    float64
	Ticks   int
	Bodies  map[component.Role]int
	Hooks   int
	Timers  int
	Census  ecs.Census
	Added   int
	Expired int
}

func (rt *Runtime) Stats() Stats {
	return Stats{
		Run:     rt.ID,
		Time:    rt.now,
		Ticks:   rt.ticks,
		Bodies:  ecs.RoleCounts(rt.World),
		Hooks:   rt.env.Hooks.Count(rt.ID),
		Timers:  rt.env.Timers.Count(rt.ID),
		Census:  rt.World.Physics().Census(),
		Added:   rt.counters[ecs.EventBodyAdded],
		Expired: rt.counters[ecs.EventBodyExpired],
	}
}
