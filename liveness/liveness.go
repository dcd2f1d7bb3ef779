// Package liveness implements live-variable analysis (C5): a backward
// data-flow analysis over the variable-set lattice (spec §4.4), solved by
// dataflow.SolveBackward.
package liveness

import (
	"github.com/viant/staticflow/dataflow"
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/lattice"
)

type Analysis struct {
	Method *ir.Method
}

func New(m *ir.Method) *Analysis { return &Analysis{Method: m} }

func (a *Analysis) Direction() dataflow.Direction { return dataflow.Backward }

func (a *Analysis) NewBoundaryFact(cfg dataflow.CFG) dataflow.Fact {
	return lattice.NewSetFact()
}

func (a *Analysis) NewInitialFact() dataflow.Fact { return lattice.NewSetFact() }

// TransferNode implements IN = (OUT \ defs(stmt)) ∪ uses(stmt).
func (a *Analysis) TransferNode(stmt *ir.Stmt, out dataflow.Fact, in dataflow.Fact) bool {
	outSet := out.(*lattice.SetFact)
	inSet := in.(*lattice.SetFact)

	next := lattice.NewSetFact()
	defs := map[*ir.Var]bool{}
	for _, d := range stmt.Defs() {
		defs[d] = true
	}
	for _, v := range outSet.Vars() {
		if !defs[v] {
			next.Add(v)
		}
	}
	for _, v := range stmt.Uses() {
		next.Add(v)
	}

	// OUT only grows across iterations (its meet is union over successors'
	// IN), so next = (OUT \ defs) ∪ uses is always a superset of the
	// previous IN: merging it in is equivalent to replacing IN outright,
	// and keeps this transfer consistent with the monotone-growth
	// contract every Fact.MeetFrom implementation relies on.
	return inSet.MeetFrom(next)
}

// Solve runs the backward iterative solver over m's CFG.
func Solve(m *ir.Method) *dataflow.Result {
	return dataflow.SolveBackward(m, New(m))
}

// LiveAt returns the set of variables live at the IN of stmt.
func LiveAt(res *dataflow.Result, stmt *ir.Stmt) *lattice.SetFact {
	f := res.In(stmt)
	if f == nil {
		return lattice.NewSetFact()
	}
	return f.(*lattice.SetFact)
}
