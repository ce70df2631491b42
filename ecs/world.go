package ecs

import (
	"github.com/milk9111/scenesim/ecs/component"
)

// World owns entities, their components and the physics world behind them.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	order    []Entity
	events   EventQueue
	physics  *PhysicsWorld
	now      float64
}

// NewWorld creates an empty world backed by pw.
func NewWorld(pw *PhysicsWorld) *World {
	return &World{
		stores:  make(map[component.ComponentID]*SparseSet),
		physics: pw,
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	e := w.entities.create()
	w.order = append(w.order, e)
	return e
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.len()
}

// AttachBody adds rec to the physics world and stores it on e.
func (w *World) AttachBody(e Entity, rec *component.Body) error {
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	if rec == nil || rec.Body == nil {
		return component.ErrNilComponent
	}
	if Has(w, e, component.BodyComponent) {
		return component.ErrBodyAttached
	}
	w.physics.AddBody(rec)
	rec.Body.UserData = e
	for _, s := range rec.Shapes {
		s.UserData = e
	}
	if err := Add(w, e, component.BodyComponent, rec); err != nil {
		return err
	}
	w.events.Push(Event{Kind: EventBodyAdded, Entity: e, Role: rec.Role, Time: w.now})
	return nil
}

// DestroyEntity detaches the entity's body from physics and drops all of its
// components. Stale handles are ignored.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	if rec, ok := Get(w, e, component.BodyComponent); ok {
		w.physics.RemoveBody(rec)
		w.events.Push(Event{Kind: EventBodyRemoved, Entity: e, Role: rec.Role, Time: w.now})
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	w.entities.destroy(e)
	w.compactOrder()
	return true
}

// ExpireEntity records a lifetime expiry before destroying the entity.
func (w *World) ExpireEntity(e Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	role := component.RoleCosmetic
	if rec, ok := Get(w, e, component.BodyComponent); ok {
		role = rec.Role
	}
	w.events.Push(Event{Kind: EventBodyExpired, Entity: e, Role: role, Time: w.now})
	return w.DestroyEntity(e)
}

// Entities returns live entities in creation order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.len())
	for _, e := range w.order {
		if w.entities.isAlive(e) {
			out = append(out, e)
		}
	}
	return out
}

// Clear destroys every entity in reverse creation order and returns how many
// were destroyed.
func (w *World) Clear() int {
	if w == nil {
		return 0
	}
	order := append([]Entity(nil), w.order...)
	n := 0
	for i := len(order) - 1; i >= 0; i-- {
		if w.DestroyEntity(order[i]) {
			n++
		}
	}
	w.order = nil
	return n
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Physics returns the physics world.
func (w *World) Physics() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physics
}

// SetTime records the simulation clock in ms for event timestamps.
func (w *World) SetTime(now float64) {
	w.now = now
}

// Time returns the simulation clock in ms.
func (w *World) Time() float64 {
	if w == nil {
		return 0
	}
	return w.now
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s := w.stores[id]
	if s == nil && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// compactOrder drops dead handles once they dominate the order list.
func (w *World) compactOrder() {
	if len(w.order) < 64 || len(w.order) < 2*w.entities.len() {
		return
	}
	live := w.order[:0]
	for _, e := range w.order {
		if w.entities.isAlive(e) {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(w.order); i++ {
		w.order[i] = 0
	}
	w.order = live
}
