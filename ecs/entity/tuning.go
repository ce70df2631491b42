package entity

// Tuning holds the empirically chosen constants of the force fields and
// composites. Forces are in scene units and scaled by common.ForceScale when
// applied; times are simulation milliseconds.
type Tuning struct {
	BlackHoleGain         float64
	BlackHoleDamping      float64
	BlackHoleDampingSpeed float64
	BlackHoleStretch      float64
	SpiralChance          float64
	SpiralRange           float64
	DiskChance            float64
	OrbitTrailChance      float64
	OrbitTrailMinRadius   float64

	SolarGravity     float64
	MoonGravity      float64
	SlowOrbitFactor  float64
	SlowOrbitBoost   float64
	MoonChance       float64
	FlarePeriod      float64
	FlareChance      float64
	InnerTrailPeriod float64
	OuterTrailPeriod float64

	ParticleLifetime float64
	FadePeriod       float64

	// SpringRate converts a 0..1 constraint stiffness to a spring constant
	// per unit mass, in 1/tick².
	SpringRate float64

	// DragStiffness is the share of the pointer offset a dragged body closes
	// each tick; DragMaxAccel caps the pull in px/tick².
	DragStiffness float64
	DragMaxAccel  float64
}

func DefaultTuning() Tuning {
	return Tuning{
		BlackHoleGain:         10,
		BlackHoleDamping:      0.85,
		BlackHoleDampingSpeed: 10,
		BlackHoleStretch:      2.5,
		SpiralChance:          0.2,
		SpiralRange:           0.7,
		DiskChance:            0.05,
		OrbitTrailChance:      0.05,
		OrbitTrailMinRadius:   5,

		SolarGravity:     0.0006,
		MoonGravity:      0.0003,
		SlowOrbitFactor:  0.15,
		SlowOrbitBoost:   0.0002,
		MoonChance:       0.7,
		FlarePeriod:      200,
		FlareChance:      0.3,
		InnerTrailPeriod: 50,
		OuterTrailPeriod: 100,

		ParticleLifetime: 5000,
		FadePeriod:       50,

		SpringRate: 0.05,

		DragStiffness: 0.2,
		DragMaxAccel:  10,
	}
}
