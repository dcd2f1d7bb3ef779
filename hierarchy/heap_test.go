package hierarchy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/ir"
)

func TestAllocSiteHeap_ObjIsMemoizedPerSite(t *testing.T) {
	m := &ir.Method{Name: "m"}
	site := &ir.Stmt{Kind: ir.StmtNew, Method: m, Index: 0}
	typ := ir.NewClass("T", false, false)

	h := hierarchy.NewAllocSiteHeap()
	first := h.Obj(site, typ)
	second := h.Obj(site, typ)

	assert.Same(t, first, second, "the same allocation site must yield the canonical Obj")
	assert.Equal(t, typ, first.Type)
}

func TestAllocSiteHeap_DistinctSitesYieldDistinctObjs(t *testing.T) {
	m := &ir.Method{Name: "m"}
	site1 := &ir.Stmt{Kind: ir.StmtNew, Method: m, Index: 0}
	site2 := &ir.Stmt{Kind: ir.StmtNew, Method: m, Index: 1}
	typ := ir.NewClass("T", false, false)

	h := hierarchy.NewAllocSiteHeap()
	o1 := h.Obj(site1, typ)
	o2 := h.Obj(site2, typ)

	assert.NotSame(t, o1, o2)
	assert.NotEqual(t, o1.Hash(), o2.Hash())
}

func TestObj_HashIsStableAcrossHeaps(t *testing.T) {
	m := &ir.Method{Name: "m"}
	site := &ir.Stmt{Kind: ir.StmtNew, Method: m, Index: 0}
	typ := ir.NewClass("T", false, false)

	h1 := hierarchy.NewAllocSiteHeap()
	h2 := hierarchy.NewAllocSiteHeap()

	assert.Equal(t, h1.Obj(site, typ).Hash(), h2.Obj(site, typ).Hash(), "identity hash depends only on site content, not heap instance")
}
