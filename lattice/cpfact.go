package lattice

import "github.com/viant/staticflow/ir"

// CPFact maps variables to CPValue, treating absent keys as UNDEF (spec
// §3 "CP Fact"). The zero value is a valid empty fact.
type CPFact struct {
	m map[*ir.Var]CPValue
}

func NewCPFact() *CPFact {
	return &CPFact{m: map[*ir.Var]CPValue{}}
}

// Get returns the value bound to v, or Undef if absent.
func (f *CPFact) Get(v *ir.Var) CPValue {
	if f == nil || f.m == nil {
		return Undef
	}
	if val, ok := f.m[v]; ok {
		return val
	}
	return Undef
}

// Update stores val for v, returning true iff the stored value changed.
func (f *CPFact) Update(v *ir.Var, val CPValue) bool {
	if f.m == nil {
		f.m = map[*ir.Var]CPValue{}
	}
	old, ok := f.m[v]
	if ok && old.Equal(val) {
		return false
	}
	if !ok && val.IsUndef() {
		return false
	}
	f.m[v] = val
	return true
}

// Kill removes v's binding entirely, as opposed to Update(v, Undef) which
// would still record an explicit (if meaningless) entry. Used by the
// call-to-return edge transfer to drop a call site's result binding (spec
// §4.9): the edge that actually carries the result (Return) must not be
// shadowed by a stale pre-call value surviving in a persisted OUT fact.
func (f *CPFact) Kill(v *ir.Var) {
	if f.m != nil {
		delete(f.m, v)
	}
}

// Keys returns the variables with a stored binding in this fact. A binding
// that Update later overwrote with UNDEF is still listed; Kill removes one.
func (f *CPFact) Keys() []*ir.Var {
	if f == nil {
		return nil
	}
	out := make([]*ir.Var, 0, len(f.m))
	for v := range f.m {
		out = append(out, v)
	}
	return out
}

// Clone returns an independent copy of this fact.
func (f *CPFact) Clone() Fact {
	cp := &CPFact{m: make(map[*ir.Var]CPValue, len(f.m))}
	for k, v := range f.m {
		cp.m[k] = v
	}
	return cp
}

// MeetFrom meets src into the receiver (receiver becomes receiver ⊓ src),
// returning whether anything changed.
func (f *CPFact) MeetFrom(src Fact) bool {
	other, ok := src.(*CPFact)
	if !ok {
		panic("lattice: MeetFrom type mismatch, expected *CPFact")
	}
	changed := false
	if f.m == nil {
		f.m = map[*ir.Var]CPValue{}
	}
	for v, val := range other.m {
		merged := MeetCP(f.Get(v), val)
		if f.Update(v, merged) {
			changed = true
		}
	}
	return changed
}
