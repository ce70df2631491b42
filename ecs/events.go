package ecs

import "github.com/milk9111/scenesim/ecs/component"

type EventKind string

const (
	EventBodyAdded      EventKind = "body_added"
	EventBodyRemoved    EventKind = "body_removed"
	EventBodyExpired    EventKind = "body_expired"
	EventHookRegistered EventKind = "hook_registered"
	EventHookRemoved    EventKind = "hook_removed"
)

// Event is a lifecycle notification. Time is the simulation clock in ms.
type Event struct {
	Kind   EventKind
	Entity Entity
	Role   component.Role
	Name   string
	Time   float64
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
