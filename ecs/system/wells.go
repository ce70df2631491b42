package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/ecs/entity"
)

var _ ecs.Hook = (*GravityWell)(nil)

// GravityWell pulls Target toward Center with an inverse-square force
// G·M·m/d², using the nominal mass of both bodies so static centers work.
type GravityWell struct {
	Center, Target ecs.Entity
	G              float64
	// Boost nudges a target that has slowed below orbital speed along its
	// orbit instead of letting it fall in.
	Boost bool

	env    *Env
	center *component.Body
	target *component.Body
}

// AttachWell registers a gravity well hook between two bodies.
func AttachWell(env *Env, center, target ecs.Entity, g float64, boost bool) (*GravityWell, ecs.HookID) {
	cb, _ := ecs.Get(env.World, center, component.BodyComponent)
	tb, _ := ecs.Get(env.World, target, component.BodyComponent)
	well := &GravityWell{Center: center, Target: target, G: g, Boost: boost, env: env, center: cb, target: tb}
	return well, env.Hooks.Register(env.Run, "gravity-well", well)
}

func (gw *GravityWell) Step(dt float64) {
	if gw.center == nil || gw.target == nil {
		return
	}
	if !gw.env.alive(gw.Center) || !gw.env.alive(gw.Target) || !gw.target.Dynamic() {
		return
	}
	toCenter := gw.center.Position().Sub(gw.target.Position())
	d := toCenter.Length()
	if d <= 0 {
		return
	}
	unit := toCenter.Mult(1 / d)
	pull := gw.G * gw.center.NominalMass * gw.target.NominalMass / (d * d)
	applyFinite(gw.target.Body, unit.Mult(pull))

	if !gw.Boost {
		return
	}
	tun := gw.env.Tuning
	if gw.target.Body.Velocity().Length() < tun.SlowOrbitFactor*math.Sqrt(1/d) {
		tangent := cp.Vector{X: -unit.Y, Y: unit.X}
		applyFinite(gw.target.Body, tangent.Mult(tun.SlowOrbitBoost))
	}
}

func applyFinite(body *cp.Body, f cp.Vector) {
	if !common.Finite(f.X) || !common.Finite(f.Y) {
		return
	}
	entity.ApplyForce(body, f)
}
