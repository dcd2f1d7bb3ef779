// Package pointer implements Andersen-style points-to analysis, both
// context-insensitive (C8) and context-sensitive (C9): a single solver
// parameterized over a csctx.Context, with CI simply fixing every context
// to csctx.Empty (spec §4.7, §4.8).
package pointer

import (
	"github.com/viant/staticflow/csctx"
	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/ir"
)

// CSVar is a variable qualified by a context.
type CSVar struct {
	Ctx csctx.Context
	Var *ir.Var
}

// CSObj is a heap object qualified by a (heap) context.
type CSObj struct {
	Ctx csctx.Context
	Obj *hierarchy.Obj
}

// CSMethod is a method qualified by a context.
type CSMethod struct {
	Ctx    csctx.Context
	Method *ir.Method
}

// CSCallSite is a call site qualified by its caller's context.
type CSCallSite struct {
	Ctx  csctx.Context
	Site *ir.Stmt
}

// PointerKind discriminates Pointer variants (spec §3 "Pointer Flow
// Graph").
type PointerKind int

const (
	VarPtrKind PointerKind = iota
	StaticFieldKind
	InstanceFieldKind
	ArrayIndexKind
)

// Pointer is a PFG node: a variable pointer, a static field, an instance
// field (object × field), or an array index (object). Only the fields
// relevant to Kind are populated; Pointer is comparable so it can key a
// map directly during arena interning.
type Pointer struct {
	Kind PointerKind

	CSVar CSVar // VarPtrKind

	StaticClass *ir.Class    // StaticFieldKind
	StaticField *ir.FieldRef // StaticFieldKind

	Obj   CSObj        // InstanceFieldKind, ArrayIndexKind
	Field *ir.FieldRef // InstanceFieldKind
}

func varPtr(csv CSVar) Pointer { return Pointer{Kind: VarPtrKind, CSVar: csv} }
func staticField(c *ir.Class, f *ir.FieldRef) Pointer {
	return Pointer{Kind: StaticFieldKind, StaticClass: c, StaticField: f}
}
func instanceField(o CSObj, f *ir.FieldRef) Pointer {
	return Pointer{Kind: InstanceFieldKind, Obj: o, Field: f}
}
func arrayIndex(o CSObj) Pointer { return Pointer{Kind: ArrayIndexKind, Obj: o} }

// ContextSelector is the collaborator the context-sensitive solver
// consults to compute a new context at each call/allocation (spec §4.8).
// A context-insensitive run uses InsensitiveSelector, which always
// returns csctx.Empty.
type ContextSelector interface {
	// SelectContext computes the callee context for a static call.
	SelectContext(site CSCallSite, callee *ir.Method) csctx.Context
	// SelectContextForVirtual computes the callee context for a call with
	// a receiver (virtual, interface or special), given the receiver object.
	SelectContextForVirtual(site CSCallSite, recv CSObj, callee *ir.Method) csctx.Context
	// SelectHeapContext computes the context an allocation's Obj is
	// qualified with.
	SelectHeapContext(method CSMethod, obj *hierarchy.Obj) csctx.Context
}

// InsensitiveSelector is the trivial selector used for context-insensitive
// analysis (C8): every context is csctx.Empty.
type InsensitiveSelector struct{}

func (InsensitiveSelector) SelectContext(CSCallSite, *ir.Method) csctx.Context { return csctx.Empty }
func (InsensitiveSelector) SelectContextForVirtual(CSCallSite, CSObj, *ir.Method) csctx.Context {
	return csctx.Empty
}
func (InsensitiveSelector) SelectHeapContext(CSMethod, *hierarchy.Obj) csctx.Context {
	return csctx.Empty
}
