package lattice

import (
	"golang.org/x/tools/container/intsets"

	"github.com/viant/staticflow/ir"
)

// SetFact is a set of variables used by live-variable analysis (spec §3,
// §4.4); meet is set union. Membership is backed by intsets.Sparse, keyed
// by each Var's method-scoped id, with a side table resolving ids back to
// *ir.Var for iteration.
type SetFact struct {
	bits  intsets.Sparse
	byID  map[int]*ir.Var
}

func NewSetFact() *SetFact {
	return &SetFact{byID: map[int]*ir.Var{}}
}

func (f *SetFact) Contains(v *ir.Var) bool {
	if f == nil || v == nil {
		return false
	}
	return f.bits.Has(v.ID)
}

// Add inserts v, returning true iff the set changed.
func (f *SetFact) Add(v *ir.Var) bool {
	if f.byID == nil {
		f.byID = map[int]*ir.Var{}
	}
	f.byID[v.ID] = v
	return f.bits.Insert(v.ID)
}

// Remove deletes v, returning true iff the set changed.
func (f *SetFact) Remove(v *ir.Var) bool {
	if f == nil {
		return false
	}
	return f.bits.Remove(v.ID)
}

func (f *SetFact) Vars() []*ir.Var {
	if f == nil {
		return nil
	}
	ids := f.bits.AppendTo(nil)
	out := make([]*ir.Var, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.byID[id])
	}
	return out
}

func (f *SetFact) Clone() Fact {
	cp := NewSetFact()
	cp.bits.Copy(&f.bits)
	for id, v := range f.byID {
		cp.byID[id] = v
	}
	return cp
}

// MeetFrom unions src into the receiver.
func (f *SetFact) MeetFrom(src Fact) bool {
	other, ok := src.(*SetFact)
	if !ok {
		panic("lattice: MeetFrom type mismatch, expected *SetFact")
	}
	if f.byID == nil {
		f.byID = map[int]*ir.Var{}
	}
	for id, v := range other.byID {
		f.byID[id] = v
	}
	return f.bits.UnionWith(&other.bits)
}
