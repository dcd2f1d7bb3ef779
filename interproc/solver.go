package interproc

import (
	"github.com/viant/staticflow/constprop"
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/lattice"
	"github.com/viant/staticflow/pointer"
)

// Result is the inter-procedural constant-propagation result: per-ICFG-node
// IN/OUT facts (spec §6 DataflowResult, specialized to the ICFG's Node).
type Result struct {
	in  map[Node]*lattice.CPFact
	out map[Node]*lattice.CPFact
}

func (r *Result) In(n Node) *lattice.CPFact  { return r.in[n] }
func (r *Result) Out(n Node) *lattice.CPFact { return r.out[n] }

// Solver runs inter-procedural constant propagation over an ICFG, with an
// alias-aware heap for field/array stores and loads (spec §4.9).
type Solver struct {
	g    *ICFG
	heap *Heap
}

// NewSolver builds a solver over g, deriving its alias map from pts.
func NewSolver(g *ICFG, pts *pointer.Result) *Solver {
	return &Solver{g: g, heap: NewHeap(pts, g)}
}

// Solve runs the worklist to a fixed point (spec §4.9 "identical shape to
// the intra-procedural forward solver but IN = meet over transferEdge(e,
// OUT[source(e)])").
func (s *Solver) Solve() *Result {
	res := &Result{in: map[Node]*lattice.CPFact{}, out: map[Node]*lattice.CPFact{}}
	for _, n := range s.g.Nodes() {
		res.in[n] = lattice.NewCPFact()
		res.out[n] = lattice.NewCPFact()
	}

	wl := newNodeFIFO(s.g.Nodes())
	for {
		n, ok := wl.pop()
		if !ok {
			break
		}

		in := lattice.NewCPFact()
		for _, e := range s.g.Preds(n) {
			in.MeetFrom(transferEdge(e, res.Out(e.From)))
		}
		res.in[n] = in

		out := res.out[n]
		changed, enqueue := s.transferNode(n, in, out)
		if changed {
			for _, e := range s.g.Succs(n) {
				wl.push(e.To)
			}
		}
		for _, stmt := range enqueue {
			wl.push(Node{Method: stmt.Method, Stmt: stmt})
		}
	}
	return res
}

// transferEdge implements spec §4.9's per-edge-kind rule, returning a fresh
// fact (never mutating srcOut).
func transferEdge(e ICFGEdge, srcOut *lattice.CPFact) *lattice.CPFact {
	switch e.Kind {
	case Normal:
		return srcOut.Clone().(*lattice.CPFact)

	case CallToReturn:
		f := srcOut.Clone().(*lattice.CPFact)
		if e.Site.LHSVar != nil {
			f.Kill(e.Site.LHSVar)
		}
		return f

	case Call:
		f := lattice.NewCPFact()
		inv := e.Site.InvokeExp
		for i, arg := range inv.Args {
			if i >= len(e.Callee.Params) {
				break
			}
			f.Update(e.Callee.Params[i], srcOut.Get(arg))
		}
		return f

	case Return:
		f := lattice.NewCPFact()
		if e.Site.LHSVar != nil {
			for _, rv := range e.From.Stmt.ReturnVars {
				f.Update(e.Site.LHSVar, lattice.MeetCP(f.Get(e.Site.LHSVar), srcOut.Get(rv)))
			}
		}
		return f

	default:
		panic("interproc: unknown ICFG edge kind")
	}
}

// transferNode implements spec §4.9's transferNode: identity for call
// nodes (the real work happens on outbound edges), heap-aware handling for
// field/array load/store, and plain intraprocedural constprop.TransferNode
// for everything else. Returns whether out's local-variable fact changed,
// plus any LoadField/LoadArray statements a heap store just invalidated
// and which must be re-enqueued (spec §4.9 "enqueue every LoadField/
// LoadArray statement reachable via the alias set").
func (s *Solver) transferNode(n Node, in, out *lattice.CPFact) (bool, []*ir.Stmt) {
	stmt := n.Stmt
	switch stmt.Kind {
	case ir.StmtStoreField:
		changed := constprop.TransferNode(stmt, in, out)
		return changed, s.applyStoreField(stmt, in)
	case ir.StmtStoreArray:
		changed := constprop.TransferNode(stmt, in, out)
		return changed, s.applyStoreArray(stmt, in)
	case ir.StmtLoadField:
		return s.applyLoadField(stmt, in, out), nil
	case ir.StmtLoadArray:
		return s.applyLoadArray(stmt, in, out), nil
	default:
		return constprop.TransferNode(stmt, in, out), nil
	}
}

func (s *Solver) applyStoreField(stmt *ir.Stmt, in *lattice.CPFact) []*ir.Stmt {
	val := constprop.Evaluate(storeValueExpr(stmt), in)
	if stmt.FieldBase == nil {
		if !s.heap.storeStatic(stmt.FieldCls, stmt.Field, val) {
			return nil
		}
		return s.heap.staticLoadFields[staticKey{stmt.FieldCls, stmt.Field}]
	}

	var toEnqueue []*ir.Stmt
	for _, obj := range s.heap.objsOf(stmt.FieldBase) {
		if !s.heap.storeInstance(obj, stmt.Field, val) {
			continue
		}
		for _, v := range s.heap.aliasesOf(obj) {
			toEnqueue = append(toEnqueue, v.LoadFieldStmts()...)
		}
	}
	return filterLoadField(toEnqueue, stmt.Field)
}

func (s *Solver) applyStoreArray(stmt *ir.Stmt, in *lattice.CPFact) []*ir.Stmt {
	val := constprop.Evaluate(storeValueExpr(stmt), in)
	idx := constprop.Evaluate(stmt.ArrayIndex, in)

	var toEnqueue []*ir.Stmt
	for _, obj := range s.heap.objsOf(stmt.ArrayBase) {
		if !s.heap.storeArray(obj, idx, val) {
			continue
		}
		for _, v := range s.heap.aliasesOf(obj) {
			toEnqueue = append(toEnqueue, v.LoadArrayStmts()...)
		}
	}
	return toEnqueue
}

// applyLoadField sets out's LHSVar to the meet over every aliased object's
// instance-field value (or the static slot, for a static load), leaving
// every other binding an identity copy of in.
func (s *Solver) applyLoadField(stmt *ir.Stmt, in, out *lattice.CPFact) bool {
	identityCopy(in, out, stmt.LHSVar)

	var val lattice.CPValue
	if stmt.FieldBase == nil {
		val = s.heap.staticVal(stmt.FieldCls, stmt.Field)
	} else {
		val = lattice.Undef
		for _, obj := range s.heap.objsOf(stmt.FieldBase) {
			val = lattice.MeetCP(val, s.heap.instanceVal(obj, stmt.Field))
		}
	}
	return out.Update(stmt.LHSVar, val)
}

func (s *Solver) applyLoadArray(stmt *ir.Stmt, in, out *lattice.CPFact) bool {
	identityCopy(in, out, stmt.LHSVar)

	idx := constprop.Evaluate(stmt.ArrayIndex, in)
	val := lattice.Undef
	for _, obj := range s.heap.objsOf(stmt.ArrayBase) {
		val = lattice.MeetCP(val, s.heap.arrayLoadVal(obj, idx))
	}
	return out.Update(stmt.LHSVar, val)
}

func storeValueExpr(stmt *ir.Stmt) *ir.Expr {
	return &ir.Expr{Kind: ir.ExprVar, Var: stmt.StoreValue}
}

func identityCopy(in, out *lattice.CPFact, except *ir.Var) {
	for _, v := range in.Keys() {
		if v == except {
			continue
		}
		out.Update(v, in.Get(v))
	}
}

func filterLoadField(stmts []*ir.Stmt, f *ir.FieldRef) []*ir.Stmt {
	var out []*ir.Stmt
	for _, s := range stmts {
		if s.FieldBase != nil && s.Field == f {
			out = append(out, s)
		}
	}
	return out
}
