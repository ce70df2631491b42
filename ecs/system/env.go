package system

import (
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/entity"
)

// Env is what behaviors need from the run they belong to. Every hook and timer
// is registered under Run so teardown can remove them together.
type Env struct {
	*entity.Context
	Hooks  *ecs.Hooks
	Timers *ecs.Timers
	Run    ecs.RunID
}

// Now returns the simulation clock in milliseconds.
func (env *Env) Now() float64 {
	if env.Timers != nil {
		return env.Timers.Now()
	}
	return env.World.Time()
}

func (env *Env) alive(e ecs.Entity) bool {
	return env.World.IsAlive(e)
}
