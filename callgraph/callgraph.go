// Package callgraph builds a call graph via class-hierarchy analysis (C7):
// a worklist over reachable methods, classifying and resolving each
// invoke statement by its static dispatch kind (spec §4.6).
package callgraph

import (
	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/ir"
)

// Edge is one (kind, call site, callee) call-graph edge (spec §3).
type Edge struct {
	Kind   ir.InvokeKind
	Site   *ir.Stmt
	Callee *ir.Method
}

// CallGraph is the reachable-methods/edges result (spec §6).
type CallGraph struct {
	reachable   map[*ir.Method]bool
	order       []*ir.Method
	edges       []Edge
	edgeSeen    map[Edge]bool
	calleesOf   map[*ir.Stmt][]Edge
	callersOf   map[*ir.Method][]Edge
}

func newCallGraph() *CallGraph {
	return &CallGraph{
		reachable: map[*ir.Method]bool{},
		edgeSeen:  map[Edge]bool{},
		calleesOf: map[*ir.Stmt][]Edge{},
		callersOf: map[*ir.Method][]Edge{},
	}
}

// ReachableMethods returns every method discovered reachable from main, in
// discovery order.
func (g *CallGraph) ReachableMethods() []*ir.Method { return g.order }

// IsReachable reports whether m was discovered reachable.
func (g *CallGraph) IsReachable(m *ir.Method) bool { return g.reachable[m] }

// Edges returns every call-graph edge discovered.
func (g *CallGraph) Edges() []Edge { return g.edges }

// CalleesOf returns the edges originating at a given call site.
func (g *CallGraph) CalleesOf(site *ir.Stmt) []Edge { return g.calleesOf[site] }

// CallersOf returns the edges targeting a given method.
func (g *CallGraph) CallersOf(m *ir.Method) []Edge { return g.callersOf[m] }

func (g *CallGraph) addReachable(m *ir.Method) bool {
	if g.reachable[m] {
		return false
	}
	g.reachable[m] = true
	g.order = append(g.order, m)
	return true
}

// addEdge records (kind, site, callee) if new (call-graph edges are never
// removed, spec §3 "Lifecycles"), returning whether it was new.
func (g *CallGraph) addEdge(kind ir.InvokeKind, site *ir.Stmt, callee *ir.Method) bool {
	e := Edge{Kind: kind, Site: site, Callee: callee}
	if g.edgeSeen[e] {
		return false
	}
	g.edgeSeen[e] = true
	g.edges = append(g.edges, e)
	g.calleesOf[site] = append(g.calleesOf[site], e)
	g.callersOf[callee] = append(g.callersOf[callee], e)
	return true
}

// BuildCHA computes the call graph reachable from main using class
// hierarchy analysis (spec §4.6). An unresolvable call target (e.g. an
// abstract method with no concrete override anywhere in ch) silently
// contributes no edge (spec §7).
func BuildCHA(main *ir.Method, ch hierarchy.ClassHierarchy) *CallGraph {
	g := newCallGraph()
	queue := []*ir.Method{main}
	g.addReachable(main)

	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]

		for _, site := range m.Stmts {
			if site.Kind != ir.StmtInvoke && site.Kind != ir.StmtAssign {
				continue
			}
			inv := invokeOf(site)
			if inv == nil {
				continue
			}
			for _, target := range resolveTargets(ch, inv) {
				if g.addEdge(inv.Kind, site, target) {
					if g.addReachable(target) {
						queue = append(queue, target)
					}
				}
			}
		}
	}
	return g
}

// invokeOf extracts the InvokeExp from a statement, whether it is a
// dedicated StmtInvoke or an Assign whose RHS is an ExprInvoke.
func invokeOf(s *ir.Stmt) *ir.InvokeExp {
	switch s.Kind {
	case ir.StmtInvoke:
		return s.InvokeExp
	case ir.StmtAssign:
		if s.RHS != nil && s.RHS.Kind == ir.ExprInvoke {
			return s.RHS.Invoke
		}
	}
	return nil
}

func resolveTargets(ch hierarchy.ClassHierarchy, inv *ir.InvokeExp) []*ir.Method {
	ref := inv.MethodRef
	switch inv.Kind {
	case ir.Static:
		if m := ref.DeclaringClass.DeclaredMethod(ref.Subsignature); m != nil {
			return []*ir.Method{m}
		}
		return nil
	case ir.Special:
		if m := hierarchy.Dispatch(ref.DeclaringClass, ref.Subsignature); m != nil {
			return []*ir.Method{m}
		}
		return nil
	case ir.Virtual, ir.Interface:
		return hierarchy.ResolveVirtualTargets(ch, ref.DeclaringClass, ref.Subsignature)
	default:
		return nil
	}
}
