package pointer

import (
	"golang.org/x/tools/container/intsets"

	"github.com/viant/staticflow/csctx"
	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/ir"
)

// TaintPlugin observes invoke processing during solving, implementing the
// taint overlay (C11, spec §4.10). It is optional; a nil plugin disables
// taint tracking entirely.
type TaintPlugin interface {
	// OnCall is invoked once per newly-discovered call-graph edge, after
	// argument/parameter and return/LHS PFG edges have been wired, so the
	// plugin may itself push objects into PTS (e.g. a freshly forged
	// taint object) through Solver.Enqueue.
	OnCall(s *Solver, site CSCallSite, inv *ir.InvokeExp, callee CSMethod)
}

// Solver is the Andersen points-to solver (spec §4.7), generalized with a
// ContextSelector so the same code path implements both the
// context-insensitive (C8) and context-sensitive (C9) variants: C8 simply
// plugs in InsensitiveSelector.
type Solver struct {
	Hierarchy hierarchy.ClassHierarchy
	Heap      *hierarchy.AllocSiteHeap
	Selector  ContextSelector
	Taint     TaintPlugin

	arena *arena
	pfg   *pfg
	cg    *CSCallGraph

	wl []wlItem

	reachableMethods map[CSMethod]bool
}

type wlItem struct {
	node  NodeID
	delta *intsets.Sparse
}

// New builds a solver ready to Solve from main.
func New(ch hierarchy.ClassHierarchy, heap *hierarchy.AllocSiteHeap, sel ContextSelector, taint TaintPlugin) *Solver {
	return &Solver{
		Hierarchy:        ch,
		Heap:             heap,
		Selector:         sel,
		Taint:            taint,
		arena:            newArena(),
		pfg:              newPFG(),
		cg:               newCSCallGraph(),
		reachableMethods: map[CSMethod]bool{},
	}
}

// Solve runs the main Andersen worklist loop to completion (spec §4.7)
// starting from main in the empty context.
func (s *Solver) Solve(main *ir.Method) *Result {
	s.addReachable(CSMethod{Ctx: csctx.Empty, Method: main})
	for len(s.wl) > 0 {
		item := s.wl[0]
		s.wl = s.wl[1:]

		cur := s.pfg.ptsOf(item.node)
		delta := &intsets.Sparse{}
		delta.Difference(item.delta, cur)
		if delta.IsEmpty() {
			continue
		}
		cur.UnionWith(delta)

		for _, succ := range s.pfg.successors(item.node) {
			s.push(succ, delta)
		}

		p := s.arena.pointerAt(item.node)
		if p.Kind == VarPtrKind {
			var objIDs []int
			objIDs = delta.AppendTo(objIDs)
			for _, id := range objIDs {
				obj := s.arena.objAt(ObjID(id))
				s.processVarPtrNewObj(p.CSVar, obj)
			}
		}
	}
	return &Result{s: s}
}

// push enqueues (node, delta) onto the worklist.
func (s *Solver) push(node NodeID, delta *intsets.Sparse) {
	if delta == nil || delta.IsEmpty() {
		return
	}
	cp := &intsets.Sparse{}
	cp.Copy(delta)
	s.wl = append(s.wl, wlItem{node: node, delta: cp})
}

// Enqueue is the TaintPlugin-facing surface for pushing an object into a
// variable pointer's PTS (used to materialize taint objects at source
// call sites).
func (s *Solver) Enqueue(csv CSVar, obj CSObj) {
	n := s.arena.node(varPtr(csv))
	single := &intsets.Sparse{}
	single.Insert(int(s.arena.obj(obj)))
	s.push(n, single)
}

// addPFGEdge adds src -> dst, immediately pushing any existing PTS of src
// to dst (spec §4.7).
func (s *Solver) addPFGEdge(src, dst Pointer) {
	srcID := s.arena.node(src)
	dstID := s.arena.node(dst)
	if delta := s.pfg.addEdge(srcID, dstID); delta != nil {
		s.push(dstID, delta)
	}
}

func (s *Solver) addReachable(m CSMethod) {
	if s.reachableMethods[m] {
		return
	}
	s.reachableMethods[m] = true
	s.cg.addReachable(m)
	s.processMethod(m)
}

// processMethod runs the eager statement-kind visitor over a newly
// reachable method: allocations, copies, static field access, and static
// invokes (spec §4.7 "Seed"). Instance field/array access and
// virtual/special dispatch are left for the lazy main-loop processing.
func (s *Solver) processMethod(cm CSMethod) {
	for _, stmt := range cm.Method.Stmts {
		switch stmt.Kind {
		case ir.StmtNew:
			obj := s.Heap.Obj(stmt, allocType(stmt))
			heapCtx := s.Selector.SelectHeapContext(cm, obj)
			csObj := CSObj{Ctx: heapCtx, Obj: obj}
			s.Enqueue(CSVar{Ctx: cm.Ctx, Var: stmt.LHSVar}, csObj)
		case ir.StmtCopy:
			s.addPFGEdge(varPtr(CSVar{cm.Ctx, stmt.CopyRHS}), varPtr(CSVar{cm.Ctx, stmt.LHSVar}))
		case ir.StmtLoadField:
			if stmt.FieldBase == nil { // static
				s.addPFGEdge(staticField(stmt.FieldCls, stmt.Field), varPtr(CSVar{cm.Ctx, stmt.LHSVar}))
			}
		case ir.StmtStoreField:
			if stmt.FieldBase == nil { // static
				s.addPFGEdge(varPtr(CSVar{cm.Ctx, stmt.StoreValue}), staticField(stmt.FieldCls, stmt.Field))
			}
		case ir.StmtInvoke:
			if stmt.InvokeExp.Kind == ir.Static {
				s.processStaticCall(CSCallSite{Ctx: cm.Ctx, Site: stmt}, stmt.InvokeExp)
			}
		}
	}
}

func allocType(stmt *ir.Stmt) *ir.Class {
	if stmt.RHS != nil {
		return stmt.RHS.Class
	}
	return nil
}

func (s *Solver) processStaticCall(site CSCallSite, inv *ir.InvokeExp) {
	callee := inv.MethodRef.DeclaringClass.DeclaredMethod(inv.MethodRef.Subsignature)
	if callee == nil {
		return // spec §7: unresolvable call target silently elided
	}
	calleeCtx := s.Selector.SelectContext(site, callee)
	csCallee := CSMethod{Ctx: calleeCtx, Method: callee}
	s.wireCall(CSEdge{Kind: ir.Static, Site: site, Callee: csCallee}, inv)
}

// processVarPtrNewObj implements the bulk of the inner loop of spec
// §4.7's pseudocode: "for each new obj in delta: for each stored/loaded
// instance field of var: add PFG edge...; for each stored/loaded array
// access of var: add PFG edge...; processCall(var, obj)".
func (s *Solver) processVarPtrNewObj(csv CSVar, obj CSObj) {
	v := csv.Var
	for _, stmt := range v.LoadFieldStmts() {
		if stmt.FieldBase == v {
			s.addPFGEdge(instanceField(obj, stmt.Field), varPtr(CSVar{csv.Ctx, stmt.LHSVar}))
		}
	}
	for _, stmt := range v.StoreFieldStmts() {
		if stmt.FieldBase == v {
			s.addPFGEdge(varPtr(CSVar{csv.Ctx, stmt.StoreValue}), instanceField(obj, stmt.Field))
		}
	}
	for _, stmt := range v.LoadArrayStmts() {
		if stmt.ArrayBase == v {
			s.addPFGEdge(arrayIndex(obj), varPtr(CSVar{csv.Ctx, stmt.LHSVar}))
		}
	}
	for _, stmt := range v.StoreArrayStmts() {
		if stmt.ArrayBase == v {
			s.addPFGEdge(varPtr(CSVar{csv.Ctx, stmt.StoreValue}), arrayIndex(obj))
		}
	}
	s.processCall(csv, obj)
}

// processCall resolves and wires every invoke statement that uses csv.Var
// as receiver, using obj's dynamic type for Virtual/Interface dispatch;
// Special calls dispatch from the declaring class (spec §4.7 "Virtual
// dispatch").
func (s *Solver) processCall(csv CSVar, obj CSObj) {
	for _, stmt := range csv.Var.InvokeStmts() {
		inv := stmt.InvokeExp
		if inv.Base != csv.Var {
			continue
		}
		site := CSCallSite{Ctx: csv.Ctx, Site: stmt}
		callee := hierarchy.ResolveCallee(inv, obj.Obj.Type)
		if callee == nil {
			continue // spec §7: unresolvable call target silently elided
		}
		calleeCtx := s.Selector.SelectContextForVirtual(site, obj, callee)
		csCallee := CSMethod{Ctx: calleeCtx, Method: callee}
		if s.wireCall(CSEdge{Kind: inv.Kind, Site: site, Callee: csCallee}, inv) {
			if callee.ThisVar != nil {
				s.Enqueue(CSVar{Ctx: csCallee.Ctx, Var: callee.ThisVar}, obj)
			}
		}
	}
}

// wireCall adds the call-graph edge (if new) plus argument->parameter and
// return->LHS PFG edges, and notifies the taint plugin. Returns whether
// the edge was new (callers use this to know whether the receiver binding
// still needs to happen).
func (s *Solver) wireCall(e CSEdge, inv *ir.InvokeExp) bool {
	if !s.cg.addEdge(e) {
		return false
	}
	s.addReachable(e.Callee)

	callee := e.Callee.Method
	for i, arg := range inv.Args {
		if i >= len(callee.Params) {
			break
		}
		s.addPFGEdge(varPtr(CSVar{e.Site.Ctx, arg}), varPtr(CSVar{e.Callee.Ctx, callee.Params[i]}))
	}
	if e.Site.Site.LHSVar != nil {
		for _, ret := range callee.ReturnStmts() {
			for _, rv := range ret.ReturnVars {
				s.addPFGEdge(varPtr(CSVar{e.Callee.Ctx, rv}), varPtr(CSVar{e.Site.Ctx, e.Site.Site.LHSVar}))
			}
		}
	}
	if s.Taint != nil {
		s.Taint.OnCall(s, e.Site, inv, e.Callee)
	}
	return true
}

// CallGraph exposes the context-sensitive call graph discovered during
// solving.
func (s *Solver) CallGraph() *CSCallGraph { return s.cg }

// PointsTo gives a TaintPlugin mid-solve read access to a variable's
// current points-to set (the snapshot as of this call, not the final
// fixed point), needed to decide whether a transfer rule's source pointer
// currently carries a taint object.
func (s *Solver) PointsTo(csv CSVar) []CSObj {
	id, ok := s.arena.ptrID[varPtr(csv)]
	if !ok {
		return nil
	}
	ids := s.pfg.ptsOf(id).AppendTo(nil)
	out := make([]CSObj, 0, len(ids))
	for _, i := range ids {
		out = append(out, s.arena.objAt(ObjID(i)))
	}
	return out
}
