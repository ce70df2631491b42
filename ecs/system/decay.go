package system

import (
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
)

// fadeFloor absorbs float error from repeated opacity subtraction.
const fadeFloor = 1e-9

// DecaySystem is the ephemeral sweep: once per tick it advances fades and
// removes bodies whose expiry passed or whose opacity reached zero.
type DecaySystem struct{}

func NewDecaySystem() *DecaySystem {
	return &DecaySystem{}
}

// Update sweeps at simulation time now and returns how many bodies expired.
func (s *DecaySystem) Update(w *ecs.World, now float64) int {
	if w == nil {
		return 0
	}

	expired := 0
	ecs.ForEach(w, component.DecayComponent, func(e ecs.Entity, d *component.Decay) {
		if d == nil || !w.IsAlive(e) {
			return
		}
		if d.ExpiresAt > 0 && now >= d.ExpiresAt {
			expire(w, e, d)
			expired++
			return
		}
		if d.Fade == nil || !(d.Fade.Every > 0) {
			return
		}

		render, ok := ecs.Get(w, e, component.RenderComponent)
		if !ok {
			return
		}
		for d.Fade.Next <= now {
			render.Opacity -= d.Fade.Step
			d.Fade.Next += d.Fade.Every
			if render.Opacity <= fadeFloor {
				expire(w, e, d)
				expired++
				return
			}
		}
	})
	return expired
}

func expire(w *ecs.World, e ecs.Entity, d *component.Decay) {
	w.ExpireEntity(e)
	if d.OnExpire != nil {
		d.OnExpire()
	}
}
