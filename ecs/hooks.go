package ecs

// RunID scopes hooks and timers to one scene build.
type RunID uint64

// Hook is a per-step callback. Implementations capture immutable build-time
// data (a force spec, a target handle) instead of reaching into globals.
type Hook interface {
	Step(dt float64)
}

// HookFunc adapts a function to Hook.
type HookFunc func(dt float64)

func (f HookFunc) Step(dt float64) { f(dt) }

type HookID uint64

type hookEntry struct {
	id      HookID
	run     RunID
	name    string
	hook    Hook
	removed bool
}

// Hooks is the per-step hook registry. Hooks run in registration order.
// Unregistering during Run takes effect immediately for hooks not yet called
// and is compacted after the pass.
type Hooks struct {
	nextID  HookID
	entries []*hookEntry
	running int
	dirty   bool

	// Events, when set, receives registration notices.
	Events *EventQueue
}

func NewHooks() *Hooks {
	return &Hooks{}
}

func (h *Hooks) Register(run RunID, name string, hook Hook) HookID {
	if h == nil || hook == nil {
		return 0
	}
	h.nextID++
	h.entries = append(h.entries, &hookEntry{id: h.nextID, run: run, name: name, hook: hook})
	h.Events.Push(Event{Kind: EventHookRegistered, Name: name})
	return h.nextID
}

// Unregister removes one hook. Unknown or already removed ids return false.
func (h *Hooks) Unregister(id HookID) bool {
	if h == nil || id == 0 {
		return false
	}
	for _, e := range h.entries {
		if e.id == id && !e.removed {
			h.remove(e)
			h.compact()
			return true
		}
	}
	return false
}

// UnregisterRun removes every hook of a run and returns how many were live.
func (h *Hooks) UnregisterRun(run RunID) int {
	if h == nil {
		return 0
	}
	n := 0
	for _, e := range h.entries {
		if e.run == run && !e.removed {
			h.remove(e)
			n++
		}
	}
	h.compact()
	return n
}

// Run calls the run's hooks once. Hooks registered during the pass wait for
// the next one.
func (h *Hooks) Run(run RunID, dt float64) {
	if h == nil {
		return
	}
	h.running++
	n := len(h.entries)
	for i := 0; i < n; i++ {
		e := h.entries[i]
		if e.run != run || e.removed {
			continue
		}
		e.hook.Step(dt)
	}
	h.running--
	h.compact()
}

// Count returns the number of live hooks for a run.
func (h *Hooks) Count(run RunID) int {
	if h == nil {
		return 0
	}
	n := 0
	for _, e := range h.entries {
		if e.run == run && !e.removed {
			n++
		}
	}
	return n
}

// Names lists the run's live hook names in call order.
func (h *Hooks) Names(run RunID) []string {
	if h == nil {
		return nil
	}
	var names []string
	for _, e := range h.entries {
		if e.run == run && !e.removed {
			names = append(names, e.name)
		}
	}
	return names
}

func (h *Hooks) remove(e *hookEntry) {
	e.removed = true
	h.dirty = true
	h.Events.Push(Event{Kind: EventHookRemoved, Name: e.name})
}

func (h *Hooks) compact() {
	if h.running > 0 || !h.dirty {
		return
	}
	live := h.entries[:0]
	for _, e := range h.entries {
		if !e.removed {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(h.entries); i++ {
		h.entries[i] = nil
	}
	h.entries = live
	h.dirty = false
}
