package scene

const (
	DefaultDensity     = 0.001
	DefaultRestitution = 0.6
	DefaultFriction    = 0.1
	DefaultFrictionAir = 0.01

	DefaultObjectColor = "#9C27B0"

	// DefaultCircleRadius is used, in engine units, when the shape kind is unknown.
	DefaultCircleRadius = 30.0

	DefaultRadius  = 5.0
	DefaultWidth   = 10.0
	DefaultHeight  = 10.0
	DefaultSize    = 5.0
	DefaultSides   = 5
	MinPolygonSide = 3
	MaxPolygonSide = 24

	DefaultForceStrength = 0.001
	DefaultForceRadius   = 30.0
	DefaultForceMass     = 1.0

	DefaultCompositeSize     = 30.0
	DefaultCompositeElements = 5
	MaxCompositeElements     = 50

	DefaultEmitterRate      = 0.5
	MaxEmitterRate          = 60.0
	DefaultParticleSize     = 5.0
	DefaultParticleColor    = "#9C27B0"
	DefaultEmitterDirection = 270.0
	DefaultEmitterSpread    = 30.0
	DefaultEmitterForce     = 0.005

	DefaultGravityX     = 0.0
	DefaultGravityY     = 1.0
	DefaultGravityScale = 0.001

	DefaultTimeScale  = 2.0
	DefaultBackground = "#0F0A1F"

	DefaultConstraintStiffness = 1.0
	DefaultConstraintDamping   = 0.0
)

// Material is a fully resolved set of material properties.
type Material struct {
	Density     float64
	Restitution float64
	Friction    float64
	FrictionAir float64
}

// Resolve fills unset fields with the documented defaults.
func (m MaterialSpec) Resolve() Material {
	return Material{
		Density:     orDefault(m.Density, DefaultDensity),
		Restitution: orDefault(m.Restitution, DefaultRestitution),
		Friction:    orDefault(m.Friction, DefaultFriction),
		FrictionAir: orDefault(m.FrictionAir, DefaultFrictionAir),
	}
}

func (o ObjectSpec) RadiusOr() float64 { return orDefault(o.Radius, DefaultRadius) }
func (o ObjectSpec) WidthOr() float64  { return orDefault(o.Width, DefaultWidth) }
func (o ObjectSpec) HeightOr() float64 { return orDefault(o.Height, DefaultHeight) }
func (o ObjectSpec) SizeOr() float64   { return orDefault(o.Size, DefaultSize) }

func (o ObjectSpec) SidesOr() int {
	if o.Sides == nil {
		return DefaultSides
	}
	n := *o.Sides
	if n < MinPolygonSide {
		return MinPolygonSide
	}
	if n > MaxPolygonSide {
		return MaxPolygonSide
	}
	return n
}

func (o ObjectSpec) ColorOr() string {
	if o.Color == "" {
		return DefaultObjectColor
	}
	return o.Color
}

// DefaultGravity is the engine's gravity when a scene omits it.
func DefaultGravity() GravitySpec {
	return GravitySpec{X: DefaultGravityX, Y: DefaultGravityY, Scale: DefaultGravityScale}
}

func DefaultSettings() SettingsSpec {
	return SettingsSpec{TimeScale: DefaultTimeScale, Background: DefaultBackground}
}

// Float returns a pointer to v, for building descriptions in code.
func Float(v float64) *float64 {
	return &v
}

func Int(v int) *int {
	return &v
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
