package sim

import (
	"log"

	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/entity"
)

type options struct {
	seed    int64
	logger  *log.Logger
	hooks   *ecs.Hooks
	timers  *ecs.Timers
	tuning  *entity.Tuning
	onEvent func(ecs.Event)
}

// Option configures Build.
type Option func(*options)

// WithSeed fixes the random source of cosmetic spawns. It overrides the
// scene's own seed.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHooks shares a hook registry between runs. The runtime only ever
// touches hooks registered under its own run id.
func WithHooks(h *ecs.Hooks) Option {
	return func(o *options) { o.hooks = h }
}

// WithTimers shares a timer scheduler between runs.
func WithTimers(t *ecs.Timers) Option {
	return func(o *options) { o.timers = t }
}

func WithTuning(t entity.Tuning) Option {
	return func(o *options) { o.tuning = &t }
}

// WithEvents receives the world's lifecycle events once per tick.
func WithEvents(fn func(ecs.Event)) Option {
	return func(o *options) { o.onEvent = fn }
}
