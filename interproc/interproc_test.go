package interproc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/staticflow/callgraph"
	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/interproc"
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/pointer"
)

func varExpr(v *ir.Var) *ir.Expr    { return &ir.Expr{Kind: ir.ExprVar, Var: v} }
func intLit(v int32) *ir.Expr       { return &ir.Expr{Kind: ir.ExprIntLit, IntValue: v} }
func addExpr(l, r *ir.Expr) *ir.Expr { return &ir.Expr{Kind: ir.ExprBinary, Op: ir.ADD, Operand1: l, Operand2: r} }

// buildAddProgram builds a static method add(a, b) { r = a + b; return r; }
// and a main that calls z = add(2, 3) (spec §8 scenario 6: a constant
// propagated across a call boundary).
func buildAddProgram(t *testing.T) (*ir.Method, *ir.Var, *ir.Method) {
	t.Helper()
	owner := ir.NewClass("Adder", false, false)
	addSub := ir.Subsignature("add(int,int)")
	add := &ir.Method{Name: "add", Subsignature: addSub, IsStatic: true}
	a := add.NewParam("a", ir.TypeInt)
	bParam := add.NewParam("b", ir.TypeInt)
	{
		ab := ir.NewBuilder(add)
		entry := ab.Add(&ir.Stmt{Kind: ir.StmtNop})
		r := add.NewVar("r", ir.TypeInt)
		assignR := ab.Add(&ir.Stmt{Kind: ir.StmtAssign, LHSVar: r, RHS: addExpr(varExpr(a), varExpr(bParam))})
		ret := ab.Add(&ir.Stmt{Kind: ir.StmtReturn, ReturnVars: []*ir.Var{r}})
		exit := ab.Add(&ir.Stmt{Kind: ir.StmtNop})
		ab.Edge(entry, assignR)
		ab.Edge(assignR, ret)
		ab.Edge(ret, exit)
		ab.Finish(entry, exit)
	}
	owner.AddMethod(add)

	main := &ir.Method{Name: "main"}
	mb := ir.NewBuilder(main)
	entry := mb.Add(&ir.Stmt{Kind: ir.StmtNop})
	x := main.NewVar("x", ir.TypeInt)
	y := main.NewVar("y", ir.TypeInt)
	z := main.NewVar("z", ir.TypeInt)
	assignX := mb.Add(&ir.Stmt{Kind: ir.StmtAssign, LHSVar: x, RHS: intLit(2)})
	assignY := mb.Add(&ir.Stmt{Kind: ir.StmtAssign, LHSVar: y, RHS: intLit(3)})
	ref := &ir.MethodRef{DeclaringClass: owner, Subsignature: addSub, Name: "add"}
	call := mb.Add(&ir.Stmt{Kind: ir.StmtInvoke, LHSVar: z, InvokeExp: &ir.InvokeExp{
		Kind: ir.Static, Args: []*ir.Var{x, y}, MethodRef: ref,
	}})
	exit := mb.Add(&ir.Stmt{Kind: ir.StmtNop})
	mb.Edge(entry, assignX)
	mb.Edge(assignX, assignY)
	mb.Edge(assignY, call)
	mb.Edge(call, exit)
	mb.Finish(entry, exit)

	return main, z, add
}

func TestInterprocSolver_PropagatesConstantAcrossCall(t *testing.T) {
	main, z, add := buildAddProgram(t)
	_ = add

	ch := hierarchy.NewSimpleHierarchy(nil)
	cg := callgraph.BuildCHA(main, ch)

	heap := hierarchy.NewAllocSiteHeap()
	ptsRes := pointer.New(ch, heap, pointer.InsensitiveSelector{}, nil).Solve(main)

	g := interproc.Build(cg)
	res := interproc.NewSolver(g, ptsRes).Solve()

	afterCall := interproc.Node{Method: main, Stmt: main.Exit()}
	in := res.In(afterCall)
	assert.True(t, in.Get(z).IsConst())
	assert.Equal(t, int32(5), in.Get(z).C)
}

func TestICFG_BuildLinksCallReturnAndCallToReturn(t *testing.T) {
	main, _, add := buildAddProgram(t)
	ch := hierarchy.NewSimpleHierarchy(nil)
	cg := callgraph.BuildCHA(main, ch)
	g := interproc.Build(cg)

	callStmt := main.Stmts[3]
	callNode := interproc.Node{Method: main, Stmt: callStmt}
	assert.True(t, callNode.IsCall())

	var kinds []interproc.EdgeKind
	for _, e := range g.Succs(callNode) {
		kinds = append(kinds, e.Kind)
	}
	assert.ElementsMatch(t, []interproc.EdgeKind{interproc.Call, interproc.CallToReturn}, kinds)

	var sawReturn bool
	for _, e := range g.Preds(interproc.Node{Method: main, Stmt: main.Exit()}) {
		if e.Kind == interproc.Return && e.Callee == add {
			sawReturn = true
		}
	}
	assert.True(t, sawReturn)
}
