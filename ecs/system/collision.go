package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/ecs/entity"
	"github.com/milk9111/scenesim/scene"
)

const (
	elasticRestitution   = 0.9
	inelasticRestitution = 0.2
)

var stickyColor = scene.MustColor("#FFFFFF80", scene.HSL(0, 0, 1))

// ApplyCollisions installs the scene-wide collision behavior. It reports
// false for unknown behaviors, which leave the engine defaults in place.
func ApplyCollisions(env *Env, behavior scene.CollisionBehavior) bool {
	switch behavior {
	case scene.CollisionsDefault:
		return true
	case scene.CollisionsElastic:
		setPrimaryRestitution(env.World, elasticRestitution)
		return true
	case scene.CollisionsInelastic:
		setPrimaryRestitution(env.World, inelasticRestitution)
		return true
	case scene.CollisionsSticky:
		NewStickyCollisions(env).Install()
		return true
	}
	env.Logf("collisions: unknown behavior %q ignored", behavior)
	return false
}

func setPrimaryRestitution(w *ecs.World, e float64) {
	ecs.ForEach(w, component.BodyComponent, func(ent ecs.Entity, rec *component.Body) {
		if rec.Role != component.RolePrimary {
			return
		}
		entity.SetRestitution(rec, e)
		if mat, ok := ecs.Get(w, ent, component.MaterialComponent); ok {
			mat.Restitution = e
			_ = ecs.Add(w, ent, component.MaterialComponent, mat)
		}
	})
}

type bodyPair struct {
	a, b ecs.Entity
}

func orderedPair(a, b ecs.Entity) bodyPair {
	if b < a {
		a, b = b, a
	}
	return bodyPair{a, b}
}

// StickyCollisions joins two dynamic primary bodies the first time they
// touch. Joints are created after the step since the space is locked while
// it runs callbacks.
type StickyCollisions struct {
	env   *Env
	stuck map[bodyPair]*cp.Constraint
}

func NewStickyCollisions(env *Env) *StickyCollisions {
	return &StickyCollisions{env: env, stuck: make(map[bodyPair]*cp.Constraint)}
}

func (s *StickyCollisions) Install() {
	h := s.env.World.Physics().HandleCollisions(ecs.CollisionPrimary, ecs.CollisionPrimary)
	if h == nil {
		return
	}
	h.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, _ interface{}) bool {
		a, b := arb.Bodies()
		s.touch(a, b)
		return true
	}
}

// Joints returns how many pairs are stuck together.
func (s *StickyCollisions) Joints() int {
	return len(s.stuck)
}

func (s *StickyCollisions) touch(a, b *cp.Body) {
	w := s.env.World
	ea, okA := ecs.BodyEntity(w, a)
	eb, okB := ecs.BodyEntity(w, b)
	if !okA || !okB || ea == eb {
		return
	}
	ra, _ := ecs.Get(w, ea, component.BodyComponent)
	rb, _ := ecs.Get(w, eb, component.BodyComponent)
	if !ra.Dynamic() || !rb.Dynamic() {
		return
	}

	key := orderedPair(ea, eb)
	if _, ok := s.stuck[key]; ok {
		return
	}
	s.stuck[key] = nil
	w.Physics().AddPostStep(key, func() {
		if !w.IsAlive(ea) || !w.IsAlive(eb) {
			delete(s.stuck, key)
			return
		}
		joint := cp.NewPinJoint(a, b, cp.Vector{}, cp.Vector{})
		w.Physics().AddConstraint(joint)
		s.stuck[key] = joint
		tethers, _ := ecs.Get(w, ea, component.TetherComponent)
		tethers = append(tethers, component.Tether{Joint: joint, A: a, B: b, Color: stickyColor})
		_ = ecs.Add(w, ea, component.TetherComponent, tethers)
	})
}
