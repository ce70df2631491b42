package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
)

// Drag pulls a grabbed dynamic body toward the pointer through a soft pivot
// joint. The joint hangs off a kinematic pointer body, so the body keeps the
// pointer's velocity when released.
type Drag struct {
	env     *Env
	pointer *cp.Body
	joint   *cp.Constraint
	held    ecs.Entity
}

func NewDrag(env *Env) *Drag {
	return &Drag{env: env}
}

// Grab attaches the dynamic body under p and reports whether there was one.
// Static, cosmetic and indicator bodies are never grabbed.
func (d *Drag) Grab(p cp.Vector) bool {
	d.Release()
	pw := d.env.World.Physics()
	space := pw.Space()
	if space == nil {
		return false
	}
	info := space.PointQueryNearest(p, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return false
	}
	body := info.Shape.Body()
	e, ok := ecs.BodyEntity(d.env.World, body)
	if !ok {
		return false
	}
	if rec, ok := ecs.Get(d.env.World, e, component.BodyComponent); !ok || !rec.Dynamic() {
		return false
	}

	if d.pointer == nil || !space.ContainsBody(d.pointer) {
		d.pointer = pw.AddKinematic()
	}
	d.pointer.SetPosition(p)
	d.pointer.SetVelocity(0, 0)

	tun := d.env.Tuning
	joint := cp.NewPivotJoint2(d.pointer, body, cp.Vector{}, body.WorldToLocal(p))
	joint.SetMaxForce(body.Mass() * tun.DragMaxAccel)
	// Steps are one tick long, so the bias is the error left after one tick.
	joint.SetErrorBias(1 - common.Clamp(tun.DragStiffness, 0, 1))
	pw.AddConstraint(joint)
	d.joint, d.held = joint, e
	d.env.Logf("drag: grabbed %v", e)
	return true
}

// MoveTo sets the pointer velocity so the next step lands it on p.
func (d *Drag) MoveTo(p cp.Vector) {
	if _, ok := d.Held(); !ok {
		return
	}
	d.pointer.SetVelocityVector(p.Sub(d.pointer.Position()))
}

// Held returns the grabbed entity. A body that expired or was removed while
// held releases the drag.
func (d *Drag) Held() (ecs.Entity, bool) {
	if d.joint == nil {
		return 0, false
	}
	if !d.env.alive(d.held) {
		d.Release()
		return 0, false
	}
	return d.held, true
}

// Release drops the held body, if any.
func (d *Drag) Release() {
	if d.joint == nil {
		return
	}
	d.env.World.Physics().RemoveConstraint(d.joint)
	if d.pointer != nil {
		d.pointer.SetVelocity(0, 0)
	}
	d.joint, d.held = nil, 0
}
