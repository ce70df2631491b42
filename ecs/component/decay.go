package component

// Decay schedules the removal of an ephemeral body. Times are simulation
// milliseconds. A body is removed at ExpiresAt or when its fade reaches zero,
// whichever comes first.
type Decay struct {
	// ExpiresAt is the absolute removal time; zero disables it.
	ExpiresAt float64
	Fade      *Fade
	// OnExpire runs once after the body is removed.
	OnExpire func()
}

// Fade lowers the render opacity by Step every Every milliseconds.
type Fade struct {
	Step  float64
	Every float64
	Next  float64
}

var DecayComponent = NewComponent[*Decay]("decay")
