package callgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/staticflow/callgraph"
	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/ir"
)

// buildShapeHierarchy builds Shape (abstract area()) <- Circle, Square, and a
// main that declares a Shape-typed local and calls area() virtually
// (spec §8 scenario 5).
func buildShapeHierarchy(t *testing.T) (*ir.Method, hierarchy.ClassHierarchy, *ir.Method, *ir.Method) {
	t.Helper()
	shape := ir.NewClass("Shape", false, true)
	sub := ir.Subsignature("area()")
	shape.AddMethod(&ir.Method{Name: "area", Subsignature: sub, IsAbstract: true})

	circle := ir.NewClass("Circle", false, false)
	circle.Super = shape
	circleArea := &ir.Method{Name: "area", Subsignature: sub}
	circle.AddMethod(circleArea)

	square := ir.NewClass("Square", false, false)
	square.Super = shape
	squareArea := &ir.Method{Name: "area", Subsignature: sub}
	square.AddMethod(squareArea)

	ch := hierarchy.NewSimpleHierarchy([]*ir.Class{shape, circle, square})

	main := &ir.Method{Name: "main"}
	b := ir.NewBuilder(main)
	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	s := main.NewVar("s", ir.TypeRef)
	call := b.Add(&ir.Stmt{Kind: ir.StmtInvoke, InvokeExp: &ir.InvokeExp{
		Kind: ir.Virtual, Base: s,
		MethodRef: &ir.MethodRef{DeclaringClass: shape, Subsignature: sub, Name: "area"},
	}})
	exit := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	b.Edge(entry, call)
	b.Edge(call, exit)
	b.Finish(entry, exit)

	return main, ch, circleArea, squareArea
}

func TestBuildCHA_VirtualDispatchAddsEveryOverride(t *testing.T) {
	main, ch, circleArea, squareArea := buildShapeHierarchy(t)

	g := callgraph.BuildCHA(main, ch)

	assert.True(t, g.IsReachable(main))
	assert.True(t, g.IsReachable(circleArea))
	assert.True(t, g.IsReachable(squareArea))
	assert.Len(t, g.Edges(), 2, "CHA over-approximates: one edge per concrete override")
}

func TestBuildCHA_UnresolvableCallContributesNoEdge(t *testing.T) {
	// An abstract method with no concrete override anywhere reachable
	// silently contributes no edge (spec §7).
	shape := ir.NewClass("Shape", false, true)
	sub := ir.Subsignature("area()")
	shape.AddMethod(&ir.Method{Name: "area", Subsignature: sub, IsAbstract: true})
	ch := hierarchy.NewSimpleHierarchy([]*ir.Class{shape})

	main := &ir.Method{Name: "main"}
	b := ir.NewBuilder(main)
	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	s := main.NewVar("s", ir.TypeRef)
	call := b.Add(&ir.Stmt{Kind: ir.StmtInvoke, InvokeExp: &ir.InvokeExp{
		Kind: ir.Virtual, Base: s,
		MethodRef: &ir.MethodRef{DeclaringClass: shape, Subsignature: sub, Name: "area"},
	}})
	exit := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	b.Edge(entry, call)
	b.Edge(call, exit)
	b.Finish(entry, exit)

	g := callgraph.BuildCHA(main, ch)
	assert.Empty(t, g.Edges())
	assert.Len(t, g.ReachableMethods(), 1, "only main is reachable")
}

func TestBuildCHA_CalleesAndCallersIndices(t *testing.T) {
	main, ch, circleArea, squareArea := buildShapeHierarchy(t)
	g := callgraph.BuildCHA(main, ch)

	site := main.Stmts[1]
	assert.Len(t, g.CalleesOf(site), 2)
	assert.Len(t, g.CallersOf(circleArea), 1)
	assert.Len(t, g.CallersOf(squareArea), 1)
}
