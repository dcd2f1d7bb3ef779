package dataflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/staticflow/dataflow"
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/lattice"
)

// markAnalysis is a toy forward analysis: OUT[n] = IN[n] U {n's mark var},
// used to exercise SolveForward's join-at-a-diamond and loop-convergence
// behavior directly, independent of any real client analysis.
type markAnalysis struct {
	mark map[*ir.Stmt]*ir.Var
}

func (a *markAnalysis) Direction() dataflow.Direction { return dataflow.Forward }
func (a *markAnalysis) NewBoundaryFact(dataflow.CFG) dataflow.Fact { return lattice.NewSetFact() }
func (a *markAnalysis) NewInitialFact() dataflow.Fact              { return lattice.NewSetFact() }
func (a *markAnalysis) TransferNode(stmt *ir.Stmt, in, out dataflow.Fact) bool {
	inFact := in.(*lattice.SetFact)
	outFact := out.(*lattice.SetFact)
	changed := outFact.MeetFrom(inFact)
	if v, ok := a.mark[stmt]; ok {
		if outFact.Add(v) {
			changed = true
		}
	}
	return changed
}

// TestSolveForward_DiamondJoinsBothBranches builds entry -> {left, right} ->
// join, each branch marking a distinct variable, and checks join's IN is
// the union of both (the forward solver's meet is union for SetFact).
func TestSolveForward_DiamondJoinsBothBranches(t *testing.T) {
	m := &ir.Method{Name: "m"}
	b := ir.NewBuilder(m)
	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	left := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	right := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	join := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	b.Edge(entry, left)
	b.Edge(entry, right)
	b.Edge(left, join)
	b.Edge(right, join)
	b.Finish(entry, join)

	lv := m.NewVar("l", ir.TypeInt)
	rv := m.NewVar("r", ir.TypeInt)
	a := &markAnalysis{mark: map[*ir.Stmt]*ir.Var{left: lv, right: rv}}

	res := dataflow.SolveForward(m, a)
	in := res.In(join).(*lattice.SetFact)
	assert.True(t, in.Contains(lv))
	assert.True(t, in.Contains(rv))
}

// TestSolveForward_LoopReachesFixedPoint builds a back-edge (entry -> body
// -> body -> exit) and checks the solver terminates with the loop body's
// mark visible at its own IN on the second iteration.
func TestSolveForward_LoopReachesFixedPoint(t *testing.T) {
	m := &ir.Method{Name: "m"}
	b := ir.NewBuilder(m)
	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	body := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	exit := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	b.Edge(entry, body)
	b.Edge(body, body)
	b.Edge(body, exit)
	b.Finish(entry, exit)

	bodyVar := m.NewVar("v", ir.TypeInt)
	a := &markAnalysis{mark: map[*ir.Stmt]*ir.Var{body: bodyVar}}

	res := dataflow.SolveForward(m, a)
	assert.True(t, res.In(body).(*lattice.SetFact).Contains(bodyVar), "the loop's own mark must appear at its own IN once the back-edge is processed")
	assert.True(t, res.In(exit).(*lattice.SetFact).Contains(bodyVar))
}

// backwardMarkAnalysis mirrors markAnalysis but propagates from exit
// backward, exercising SolveBackward's symmetric join-over-successors.
type backwardMarkAnalysis struct {
	mark map[*ir.Stmt]*ir.Var
}

func (a *backwardMarkAnalysis) Direction() dataflow.Direction { return dataflow.Backward }
func (a *backwardMarkAnalysis) NewBoundaryFact(dataflow.CFG) dataflow.Fact {
	return lattice.NewSetFact()
}
func (a *backwardMarkAnalysis) NewInitialFact() dataflow.Fact { return lattice.NewSetFact() }
func (a *backwardMarkAnalysis) TransferNode(stmt *ir.Stmt, out, in dataflow.Fact) bool {
	outFact := out.(*lattice.SetFact)
	inFact := in.(*lattice.SetFact)
	changed := inFact.MeetFrom(outFact)
	if v, ok := a.mark[stmt]; ok {
		if inFact.Add(v) {
			changed = true
		}
	}
	return changed
}

func TestSolveBackward_JoinsOverSuccessors(t *testing.T) {
	m := &ir.Method{Name: "m"}
	b := ir.NewBuilder(m)
	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	left := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	right := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	exit := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	b.Edge(entry, left)
	b.Edge(entry, right)
	b.Edge(left, exit)
	b.Edge(right, exit)
	b.Finish(entry, exit)

	lv := m.NewVar("l", ir.TypeInt)
	rv := m.NewVar("r", ir.TypeInt)
	a := &backwardMarkAnalysis{mark: map[*ir.Stmt]*ir.Var{left: lv, right: rv}}

	res := dataflow.SolveBackward(m, a)
	out := res.Out(entry).(*lattice.SetFact)
	assert.True(t, out.Contains(lv))
	assert.True(t, out.Contains(rv))
}

func TestSolveForward_PanicsOnBackwardAnalysis(t *testing.T) {
	a := &backwardMarkAnalysis{}
	m := &ir.Method{Name: "m"}
	b := ir.NewBuilder(m)
	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	b.Finish(entry, entry)

	assert.Panics(t, func() { dataflow.SolveForward(m, a) })
}
