package ecs

import (
	"reflect"
	"testing"
)

func TestHooksRunInRegistrationOrder(t *testing.T) {
	h := NewHooks()
	var calls []string
	record := func(name string) Hook {
		return HookFunc(func(float64) { calls = append(calls, name) })
	}
	h.Register(1, "a", record("a"))
	h.Register(2, "other-run", record("x"))
	h.Register(1, "b", record("b"))
	h.Register(1, "c", record("c"))

	h.Run(1, 1)
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	if got := h.Names(1); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected names %v", got)
	}
}

func TestHooksUnregisterDuringRun(t *testing.T) {
	h := NewHooks()
	var calls []string
	var second HookID
	h.Register(1, "first", HookFunc(func(float64) {
		calls = append(calls, "first")
		h.Unregister(second)
		h.Register(1, "late", HookFunc(func(float64) { calls = append(calls, "late") }))
	}))
	second = h.Register(1, "second", HookFunc(func(float64) { calls = append(calls, "second") }))

	h.Run(1, 1)
	if want := []string{"first"}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	if h.Count(1) != 2 {
		t.Fatalf("expected first and late to remain, got %d", h.Count(1))
	}
}

func TestHooksUnregisterRun(t *testing.T) {
	h := NewHooks()
	events := &EventQueue{}
	h.Events = events
	for i := 0; i < 3; i++ {
		h.Register(7, "hook", HookFunc(func(float64) {}))
	}
	h.Register(8, "keep", HookFunc(func(float64) {}))

	if n := h.UnregisterRun(7); n != 3 {
		t.Fatalf("expected 3 removed, got %d", n)
	}
	if h.Count(7) != 0 || h.Count(8) != 1 {
		t.Fatalf("unexpected counts %d %d", h.Count(7), h.Count(8))
	}
	if n := h.UnregisterRun(7); n != 0 {
		t.Fatalf("second unregister should remove nothing, got %d", n)
	}
	if got := events.Len(); got != 7 {
		t.Fatalf("expected 4 registered and 3 removed events, got %d", got)
	}
}
