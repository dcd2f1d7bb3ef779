package lattice

// Fact is the capability set every analysis fact type must provide so the
// generic fixed-point solvers (package dataflow) can clone and meet facts
// without knowing their concrete type (spec §9 "Polymorphic fact types").
type Fact interface {
	// Clone returns an independent copy of this fact.
	Clone() Fact
	// MeetFrom meets src into the receiver in place (receiver becomes
	// receiver ⊓ src) and reports whether the receiver changed.
	MeetFrom(src Fact) bool
}
