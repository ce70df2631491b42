package ecs

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs/component"
)

// RoleCounts returns the number of live bodies per role.
func RoleCounts(w *World) map[component.Role]int {
	counts := make(map[component.Role]int, len(component.Roles()))
	ForEach(w, component.BodyComponent, func(_ Entity, rec *component.Body) {
		counts[rec.Role]++
	})
	return counts
}

// BodyEntity returns the live entity owning a Chipmunk body.
func BodyEntity(w *World, b *cp.Body) (Entity, bool) {
	if b == nil {
		return 0, false
	}
	e, ok := b.UserData.(Entity)
	if !ok || !w.IsAlive(e) {
		return 0, false
	}
	return e, true
}
