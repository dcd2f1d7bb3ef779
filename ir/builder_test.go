package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/staticflow/ir"
)

// buildLoadStoreMethod builds: entry -> store f.field = v -> load x = f.field -> exit
func buildLoadStoreMethod(t *testing.T) (*ir.Method, *ir.Var, *ir.Var, *ir.Var, *ir.FieldRef) {
	t.Helper()
	m := &ir.Method{Name: "m"}
	b := ir.NewBuilder(m)

	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	f := m.NewVar("f", ir.TypeRef)
	v := m.NewVar("v", ir.TypeInt)
	field := &ir.FieldRef{Name: "n", Type: ir.TypeInt}
	store := b.Add(&ir.Stmt{Kind: ir.StmtStoreField, FieldBase: f, Field: field, StoreValue: v})
	x := m.NewVar("x", ir.TypeInt)
	load := b.Add(&ir.Stmt{Kind: ir.StmtLoadField, FieldBase: f, Field: field, LHSVar: x})
	exit := b.Add(&ir.Stmt{Kind: ir.StmtNop})

	b.Edge(entry, store)
	b.Edge(store, load)
	b.Edge(load, exit)
	b.Finish(entry, exit)

	return m, f, v, x, field
}

func TestBuilder_WiresCFGEdges(t *testing.T) {
	m, _, _, _, _ := buildLoadStoreMethod(t)

	assert.Equal(t, m.Stmts[0], m.Entry())
	assert.Equal(t, m.Stmts[3], m.Exit())
	assert.Equal(t, []*ir.Stmt{m.Stmts[1]}, m.Succs(m.Stmts[0]))
	assert.Equal(t, []*ir.Stmt{m.Stmts[0]}, m.Preds(m.Stmts[1]))
}

func TestBuilder_IndexesFieldAccessLists(t *testing.T) {
	m, f, _, _, _ := buildLoadStoreMethod(t)

	assert.Len(t, f.StoreFieldStmts(), 1)
	assert.Equal(t, ir.StmtStoreField, f.StoreFieldStmts()[0].Kind)
	assert.Len(t, f.LoadFieldStmts(), 1)
	assert.Equal(t, ir.StmtLoadField, f.LoadFieldStmts()[0].Kind)

	assert.Equal(t, 0, m.Stmts[0].Index)
	assert.Equal(t, 1, m.Stmts[1].Index)
	assert.Equal(t, 2, m.Stmts[2].Index)
	assert.Equal(t, 3, m.Stmts[3].Index)
}

func TestBuilder_IndexesExpressionLevelFieldAccess(t *testing.T) {
	m := &ir.Method{Name: "m"}
	b := ir.NewBuilder(m)

	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	f := m.NewVar("f", ir.TypeRef)
	field := &ir.FieldRef{Name: "n", Type: ir.TypeInt}
	y := m.NewVar("y", ir.TypeInt)
	assign := b.Add(&ir.Stmt{Kind: ir.StmtAssign, LHSVar: y, RHS: &ir.Expr{
		Kind: ir.ExprInstanceFieldAccess, Base: f, Field: field,
	}})
	exit := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	b.Edge(entry, assign)
	b.Edge(assign, exit)
	b.Finish(entry, exit)

	assert.Len(t, f.LoadFieldStmts(), 1, "an expression-level field read must be indexed too")
	assert.Equal(t, assign, f.LoadFieldStmts()[0])
}

func TestClass_DeclaredMethodAndDispatch(t *testing.T) {
	base := ir.NewClass("Base", false, false)
	sub := ir.NewClass("Sub", false, false)
	sub.Super = base

	baseM := &ir.Method{Name: "run", Subsignature: "run()"}
	base.AddMethod(baseM)

	assert.Equal(t, baseM, base.DeclaredMethod("run()"))
	assert.Nil(t, sub.DeclaredMethod("run()"), "DeclaredMethod only looks at the class itself")
	assert.Equal(t, base, baseM.DeclaringClass)
}
