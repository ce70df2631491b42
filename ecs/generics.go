package ecs

import "github.com/milk9111/scenesim/ecs/component"

func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	kind := handle.Kind()
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	s := w.store(handle.Kind().ID(), false)
	return s.Remove(e)
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil {
		return false
	}
	return w.store(handle.Kind().ID(), false).Has(e)
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	if w == nil {
		return zero, false
	}
	value, ok := w.store(handle.Kind().ID(), false).Get(e)
	if !ok {
		return zero, false
	}
	cast, ok := value.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// ForEach visits every entity holding the component. The callback may
// destroy entities.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(Entity, T)) {
	if w == nil {
		return
	}
	s := w.store(handle.Kind().ID(), false)
	for _, e := range s.Entities() {
		v, ok := Get(w, e, handle)
		if !ok {
			continue
		}
		fn(e, v)
	}
}
