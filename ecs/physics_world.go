package ecs

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/ecs/component"
)

const (
	CollisionBoundary cp.CollisionType = iota + 1
	CollisionPrimary
	CollisionParticle
	CollisionCosmetic
	CollisionIndicator
)

// ParticleGroup is shared by emitter particles so they never collide with
// each other.
const ParticleGroup uint = 1

// CosmeticFilter collides with nothing.
var CosmeticFilter = cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: 0}

// ParticleFilter collides with everything except other particles.
var ParticleFilter = cp.ShapeFilter{Group: ParticleGroup, Categories: cp.ALL_CATEGORIES, Mask: cp.ALL_CATEGORIES}

// PhysicsWorld owns the Chipmunk space. Every engine mutation goes through it
// so teardown can release what was added. Mutating calls must not be made
// while the space is stepping; use AddPostStep from collision callbacks.
type PhysicsWorld struct {
	space     *cp.Space
	nextGroup uint
	logger    *log.Logger
}

// NewPhysicsWorld creates an empty space with the given gravity in px/tick².
func NewPhysicsWorld(gravity cp.Vector, logger *log.Logger) *PhysicsWorld {
	if logger == nil {
		logger = log.Default()
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)
	return &PhysicsWorld{space: space, nextGroup: ParticleGroup + 1, logger: logger}
}

// Space returns the underlying Chipmunk space, or nil after Release.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// StaticBody is the space's immovable world body, used as the anchor for
// constraints to world points.
func (pw *PhysicsWorld) StaticBody() *cp.Body {
	if pw == nil || pw.space == nil {
		return nil
	}
	return pw.space.StaticBody
}

func (pw *PhysicsWorld) Gravity() cp.Vector {
	if pw == nil || pw.space == nil {
		return cp.Vector{}
	}
	return pw.space.Gravity()
}

func (pw *PhysicsWorld) SetGravity(g cp.Vector) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.SetGravity(g)
}

// NextGroup returns a fresh non-zero collision group.
func (pw *PhysicsWorld) NextGroup() uint {
	g := pw.nextGroup
	pw.nextGroup++
	return g
}

// AddBody inserts a record's body and shapes into the space.
func (pw *PhysicsWorld) AddBody(rec *component.Body) {
	if pw == nil || pw.space == nil || rec == nil || rec.Body == nil {
		return
	}
	if rec.Attached {
		pw.space.AddBody(rec.Body)
	}
	for _, shape := range rec.Shapes {
		pw.space.AddShape(shape)
	}
}

// RemoveBody removes every constraint touching the body, then its shapes,
// then the body itself.
func (pw *PhysicsWorld) RemoveBody(rec *component.Body) {
	if pw == nil || pw.space == nil || rec == nil || rec.Body == nil {
		return
	}
	if rec.Body != pw.space.StaticBody {
		var joints []*cp.Constraint
		rec.Body.EachConstraint(func(c *cp.Constraint) {
			joints = append(joints, c)
		})
		for _, c := range joints {
			pw.RemoveConstraint(c)
		}
	}
	for _, shape := range rec.Shapes {
		if shape.Space() == pw.space {
			pw.space.RemoveShape(shape)
		}
	}
	if rec.Attached && pw.space.ContainsBody(rec.Body) {
		pw.space.RemoveBody(rec.Body)
	}
}

// AddKinematic adds a shapeless kinematic body, moved by its velocity.
func (pw *PhysicsWorld) AddKinematic() *cp.Body {
	if pw == nil || pw.space == nil {
		return nil
	}
	return pw.space.AddBody(cp.NewKinematicBody())
}

func (pw *PhysicsWorld) AddConstraint(c *cp.Constraint) *cp.Constraint {
	if pw == nil || pw.space == nil || c == nil {
		return c
	}
	return pw.space.AddConstraint(c)
}

func (pw *PhysicsWorld) RemoveConstraint(c *cp.Constraint) {
	if pw == nil || pw.space == nil || c == nil {
		return
	}
	if pw.space.ContainsConstraint(c) {
		pw.space.RemoveConstraint(c)
	}
}

// AddPostStep runs fn once after the current step. Callbacks sharing a key
// are coalesced.
func (pw *PhysicsWorld) AddPostStep(key any, fn func()) bool {
	if pw == nil || pw.space == nil || fn == nil {
		return false
	}
	return pw.space.AddPostStepCallback(func(*cp.Space, interface{}, interface{}) {
		fn()
	}, key, nil)
}

// HandleCollisions returns the handler for a pair of collision types.
func (pw *PhysicsWorld) HandleCollisions(a, b cp.CollisionType) *cp.CollisionHandler {
	if pw == nil || pw.space == nil {
		return nil
	}
	return pw.space.NewCollisionHandler(a, b)
}

// Step advances the simulation by dt ticks.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

// Census counts what the space currently holds, excluding its static body.
type Census struct {
	Bodies      int
	Shapes      int
	Constraints int
}

func (pw *PhysicsWorld) Census() Census {
	var c Census
	if pw == nil || pw.space == nil {
		return c
	}
	pw.space.EachBody(func(b *cp.Body) {
		if b != pw.space.StaticBody {
			c.Bodies++
		}
	})
	pw.space.EachShape(func(*cp.Shape) { c.Shapes++ })
	pw.space.EachConstraint(func(*cp.Constraint) { c.Constraints++ })
	return c
}

// Release removes every constraint, shape and body, then drops the space.
func (pw *PhysicsWorld) Release() {
	if pw == nil || pw.space == nil {
		return
	}
	space := pw.space

	var joints []*cp.Constraint
	space.EachConstraint(func(c *cp.Constraint) { joints = append(joints, c) })
	for _, c := range joints {
		space.RemoveConstraint(c)
	}

	var shapes []*cp.Shape
	space.EachShape(func(s *cp.Shape) { shapes = append(shapes, s) })
	for _, s := range shapes {
		space.RemoveShape(s)
	}

	var bodies []*cp.Body
	space.EachBody(func(b *cp.Body) {
		if b != space.StaticBody {
			bodies = append(bodies, b)
		}
	})
	for _, b := range bodies {
		space.RemoveBody(b)
	}

	if len(joints)+len(shapes)+len(bodies) > 0 {
		pw.logger.Printf("PhysicsWorld: released %d constraints, %d shapes, %d bodies", len(joints), len(shapes), len(bodies))
	}
	pw.space = nil
}
