package pointer

import (
	"github.com/viant/staticflow/csctx"
	"github.com/viant/staticflow/ir"
)

// Result is the PointerAnalysisResult collaborator surface (spec §6):
// points-to sets queried by plain Var (unioned across every context it
// appears in) or by CSVar (context-sensitive).
type Result struct {
	s *Solver
}

// PointsTo returns the (context-insensitive view of the) points-to set of
// v: the union of v's points-to set across every context it was analyzed
// in.
func (r *Result) PointsTo(v *ir.Var) []*PointsToObj {
	var out []*PointsToObj
	seen := map[CSObj]bool{}
	for csv, node := range r.varNodes() {
		if csv.Var != v {
			continue
		}
		for _, o := range r.objsOf(node) {
			if !seen[o.CSObj] {
				seen[o.CSObj] = true
				out = append(out, o)
			}
		}
	}
	return out
}

// PointsToCS returns the points-to set of a specific (context, var) pair.
func (r *Result) PointsToCS(csv CSVar) []*PointsToObj {
	node, ok := r.s.arena.ptrID[varPtr(csv)]
	if !ok {
		return nil
	}
	return r.objsOf(node)
}

// Vars iterates every distinct plain Var that has a pointer node in some
// context.
func (r *Result) Vars() []*ir.Var {
	seen := map[*ir.Var]bool{}
	var out []*ir.Var
	for csv := range r.varNodes() {
		if !seen[csv.Var] {
			seen[csv.Var] = true
			out = append(out, csv.Var)
		}
	}
	return out
}

// CSVars iterates every distinct (context, var) pair with a pointer node.
func (r *Result) CSVars() []CSVar {
	var out []CSVar
	for csv := range r.varNodes() {
		out = append(out, csv)
	}
	return out
}

// CallGraph exposes the context-sensitive call graph built during
// solving.
func (r *Result) CallGraph() *CSCallGraph { return r.s.cg }

func (r *Result) varNodes() map[CSVar]NodeID {
	out := map[CSVar]NodeID{}
	for p, id := range r.s.arena.ptrID {
		if p.Kind == VarPtrKind {
			out[p.CSVar] = id
		}
	}
	return out
}

func (r *Result) objsOf(node NodeID) []*PointsToObj {
	ids := r.s.pfg.ptsOf(node).AppendTo(nil)
	out := make([]*PointsToObj, 0, len(ids))
	for _, id := range ids {
		csObj := r.s.arena.objAt(ObjID(id))
		out = append(out, &PointsToObj{csObj})
	}
	return out
}

// PointsToObj wraps a CSObj so callers outside this package get a stable,
// comparable handle without reaching into solver internals.
type PointsToObj struct{ CSObj CSObj }

func (o *PointsToObj) Context() csctx.Context { return o.CSObj.Ctx }
