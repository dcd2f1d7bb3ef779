package pointer

import "github.com/viant/staticflow/ir"

// CSEdge is a context-sensitive call-graph edge: nodes are (context,
// method) and sites are (context, call site) (spec §3 "In CS form...").
type CSEdge struct {
	Kind   ir.InvokeKind
	Site   CSCallSite
	Callee CSMethod
}

// CSCallGraph is the call graph produced by the points-to solver: it
// grows monotonically during solving (spec §3 "Lifecycles").
type CSCallGraph struct {
	reachable map[CSMethod]bool
	order     []CSMethod
	edgeSeen  map[CSEdge]bool
	edges     []CSEdge
	calleesOf map[CSCallSite][]CSEdge
	callersOf map[CSMethod][]CSEdge
}

func newCSCallGraph() *CSCallGraph {
	return &CSCallGraph{
		reachable: map[CSMethod]bool{},
		edgeSeen:  map[CSEdge]bool{},
		calleesOf: map[CSCallSite][]CSEdge{},
		callersOf: map[CSMethod][]CSEdge{},
	}
}

func (g *CSCallGraph) ReachableMethods() []CSMethod { return g.order }
func (g *CSCallGraph) IsReachable(m CSMethod) bool  { return g.reachable[m] }
func (g *CSCallGraph) Edges() []CSEdge              { return g.edges }
func (g *CSCallGraph) CalleesOf(s CSCallSite) []CSEdge { return g.calleesOf[s] }
func (g *CSCallGraph) CallersOf(m CSMethod) []CSEdge   { return g.callersOf[m] }

func (g *CSCallGraph) addReachable(m CSMethod) bool {
	if g.reachable[m] {
		return false
	}
	g.reachable[m] = true
	g.order = append(g.order, m)
	return true
}

func (g *CSCallGraph) addEdge(e CSEdge) bool {
	if g.edgeSeen[e] {
		return false
	}
	g.edgeSeen[e] = true
	g.edges = append(g.edges, e)
	g.calleesOf[e.Site] = append(g.calleesOf[e.Site], e)
	g.callersOf[e.Callee] = append(g.callersOf[e.Callee], e)
	return true
}
