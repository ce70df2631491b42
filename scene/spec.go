package scene

import "fmt"

type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapeRectangle ShapeKind = "rectangle"
	ShapePolygon   ShapeKind = "polygon"
)

type ForceKind string

const (
	ForceAttractor ForceKind = "attractor"
	ForceRepeller  ForceKind = "repeller"
	ForceWind      ForceKind = "wind"
	ForceExplosion ForceKind = "explosion"
	ForceOrbit     ForceKind = "orbit"
	ForceBlackHole ForceKind = "blackhole"
)

// Known reports whether the force kind has an evaluator.
func (k ForceKind) Known() bool {
	switch k {
	case ForceAttractor, ForceRepeller, ForceWind, ForceExplosion, ForceOrbit, ForceBlackHole:
		return true
	}
	return false
}

type Archetype string

const (
	ArchetypeNewtonsCradle Archetype = "newtonsCradle"
	ArchetypePendulum      Archetype = "pendulum"
	ArchetypeSolarSystem   Archetype = "solarSystem"
	ArchetypeChain         Archetype = "chain"
	ArchetypeBridge        Archetype = "bridge"
	ArchetypePyramid       Archetype = "pyramid"
	ArchetypeStack         Archetype = "stack"
)

type ConstraintKind string

const (
	ConstraintPin    ConstraintKind = "pin"
	ConstraintSpring ConstraintKind = "spring"
	ConstraintRope   ConstraintKind = "rope"
	ConstraintChain  ConstraintKind = "chain"
)

type CollisionBehavior string

const (
	CollisionsDefault   CollisionBehavior = ""
	CollisionsElastic   CollisionBehavior = "elastic"
	CollisionsInelastic CollisionBehavior = "inelastic"
	CollisionsSticky    CollisionBehavior = "sticky"
)

// Description is one decoded scene. Positions and sizes are percentages of the
// viewport unless a field says otherwise.
type Description struct {
	Objects    []ObjectSpec
	Forces     []ForceSpec
	Composites []CompositeSpec
	Emitters   []EmitterSpec
	Gravity    GravitySpec
	Settings   SettingsSpec
	Collisions CollisionBehavior

	// Issues lists field-level problems that were replaced by defaults.
	Issues []Issue
}

// Issue is a recovered field-level problem.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

type Vec struct {
	X float64
	Y float64
}

// ObjectSpec describes one primitive body. Optional fields stay nil so the
// builder can substitute kind-appropriate defaults.
type ObjectSpec struct {
	Type   ShapeKind
	X      float64
	Y      float64
	Radius *float64
	Width  *float64
	Height *float64
	Sides  *int
	Size   *float64
	Color  string
	Static bool

	Material MaterialSpec

	InitialVelocity        *Vec
	InitialAngularVelocity *float64
	Force                  *Vec

	Constraints []ConstraintSpec
}

type MaterialSpec struct {
	Density     *float64
	Restitution *float64
	Friction    *float64
	FrictionAir *float64
}

type ConstraintSpec struct {
	Type      ConstraintKind
	PointX    float64
	PointY    float64
	Stiffness float64
	Damping   float64
	// Length is a percentage of the viewport height; nil keeps the current distance.
	Length *float64
}

type ForceSpec struct {
	Type     ForceKind
	X        float64
	Y        float64
	Strength float64
	// Radius is a percentage of the viewport width.
	Radius float64
	Mass   float64
}

type CompositeSpec struct {
	Type Archetype
	X    float64
	Y    float64
	// Size is a percentage of the viewport height.
	Size     float64
	Elements int
	Options  map[string]float64
}

// Option returns a numeric archetype option or def when it is absent.
func (c CompositeSpec) Option(name string, def float64) float64 {
	if v, ok := c.Options[name]; ok {
		return v
	}
	return def
}

type EmitterSpec struct {
	X    float64
	Y    float64
	Rate float64
	// ParticleSize is in engine units, not a percentage.
	ParticleSize  float64
	ParticleColor string
	Direction     float64
	Spread        float64
	Force         float64
}

type GravitySpec struct {
	X     float64
	Y     float64
	Scale float64
}

type SettingsSpec struct {
	TimeScale  float64
	Background string
	// Seed fixes the random source for cosmetic spawns; zero picks one.
	Seed int64
}
