// Package dataflow provides the common analysis abstraction (C2) and the
// fixed-point solvers (C3) shared by every intraprocedural analysis:
// constant propagation, live variables, and dead-code detection's
// reachability walk. Convergence relies on finite-height lattices and
// monotone transfer functions (spec §4.2, §8).
package dataflow

import (
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/lattice"
)

// Direction is the propagation direction of an analysis.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// CFG is the minimal control-flow-graph surface a solver needs: entry/exit
// nodes, the full node list, and predecessor/successor queries. *ir.Method
// satisfies this interface directly.
type CFG interface {
	Entry() *ir.Stmt
	Exit() *ir.Stmt
	Nodes() []*ir.Stmt
	Preds(*ir.Stmt) []*ir.Stmt
	Succs(*ir.Stmt) []*ir.Stmt
}

// Fact re-exports the capability every analysis fact type must provide
// (lattice.Fact) as a type alias, so callers only need to import one
// package for the solver-facing surface, and concrete fact types (package
// lattice) satisfy this interface and lattice.Fact identically rather than
// two merely-identical-shaped-but-distinct interface types.
type Fact = lattice.Fact

// Analysis is the common shape of an intraprocedural data-flow analysis
// (spec §4.1): a direction, boundary/initial facts, and a transfer
// function. meetInto is realized as Fact.MeetFrom; this interface only
// adds what is specific to the analysis (boundary/initial facts and the
// transfer itself).
type Analysis interface {
	Direction() Direction
	NewBoundaryFact(cfg CFG) Fact
	NewInitialFact() Fact
	// TransferNode runs the statement's transfer function: in is the
	// current IN (forward) or OUT (backward) fact; out is mutated in
	// place to hold the new OUT (forward) or IN (backward) fact. Returns
	// whether out changed.
	TransferNode(stmt *ir.Stmt, in Fact, out Fact) bool
}

// Result holds, for every node, its IN and OUT fact (spec §6
// DataflowResult).
type Result struct {
	in  map[*ir.Stmt]Fact
	out map[*ir.Stmt]Fact
}

func newResult() *Result {
	return &Result{in: map[*ir.Stmt]Fact{}, out: map[*ir.Stmt]Fact{}}
}

func (r *Result) In(s *ir.Stmt) Fact  { return r.in[s] }
func (r *Result) Out(s *ir.Stmt) Fact { return r.out[s] }

func (r *Result) setIn(s *ir.Stmt, f Fact)  { r.in[s] = f }
func (r *Result) setOut(s *ir.Stmt, f Fact) { r.out[s] = f }
