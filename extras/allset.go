package extras

// AllSetState is embedded by every generated AllSet type. S is the concrete
// resolved AllSet, so optional setters declared anywhere in a model
// hierarchy return the most derived type.
type AllSetState[S any] struct {
	carrier Carrier
	target  string
	self    S
}

// Init binds the state to a carrier. self is the value returned by Self.
func (a *AllSetState[S]) Init(c Carrier, target string, self S) {
	a.carrier = c
	a.target = target
	a.self = self
}

// Self returns the resolved AllSet.
func (a *AllSetState[S]) Self() S {
	return a.self
}

// Carrier returns the carrier extras are written to.
func (a *AllSetState[S]) Carrier() Carrier {
	return a.carrier
}

// Target returns the target name the intent is built for.
func (a *AllSetState[S]) Target() string {
	return a.target
}

// Build returns the intent. It can be called repeatedly; every intent
// shares the same carrier.
func (a *AllSetState[S]) Build() *Intent {
	return &Intent{
		Target: a.target,
		Extras: a.carrier,
	}
}
