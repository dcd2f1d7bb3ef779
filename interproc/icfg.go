// Package interproc builds an inter-procedural CFG over a call graph and
// runs the alias-aware inter-procedural constant-propagation solver on it
// (spec §4.9, C10).
package interproc

import (
	"github.com/viant/staticflow/callgraph"
	"github.com/viant/staticflow/ir"
)

// EdgeKind discriminates ICFG edges (spec §4.9 transferEdge).
type EdgeKind int

const (
	Normal EdgeKind = iota
	Call
	Return
	CallToReturn
)

// Node is a single ICFG node: a statement within its owning method.
type Node struct {
	Method *ir.Method
	Stmt   *ir.Stmt
}

// ICFGEdge is one transfer-relevant edge of the ICFG.
type ICFGEdge struct {
	Kind EdgeKind
	From Node
	To   Node

	// Call/Return/CallToReturn: the call site and its resolved callee.
	Site   *ir.Stmt
	Callee *ir.Method
}

// ICFG is the inter-procedural CFG: every reachable method's intra CFG,
// linked at call sites by Call/Return/CallToReturn edges in place of the
// plain intra-procedural Normal edge (spec §4.9).
type ICFG struct {
	nodes []Node
	preds map[Node][]ICFGEdge
	succs map[Node][]ICFGEdge
}

// Nodes returns every ICFG node, in a stable (method-discovery, then
// statement-index) order.
func (g *ICFG) Nodes() []Node { return g.nodes }

// Preds returns the inbound edges of n.
func (g *ICFG) Preds(n Node) []ICFGEdge { return g.preds[n] }

// Succs returns the outbound edges of n.
func (g *ICFG) Succs(n Node) []ICFGEdge { return g.succs[n] }

// IsCall reports whether n's statement is a call site (spec §4.9
// transferNode: call nodes get an identity intra-transfer, the real work
// happens on their outbound edges).
func (n Node) IsCall() bool { return n.Stmt.Kind == ir.StmtInvoke }

// Build constructs the ICFG over every method cg reports reachable.
func Build(cg *callgraph.CallGraph) *ICFG {
	g := &ICFG{preds: map[Node][]ICFGEdge{}, succs: map[Node][]ICFGEdge{}}

	for _, m := range cg.ReachableMethods() {
		for _, stmt := range m.Nodes() {
			g.nodes = append(g.nodes, Node{Method: m, Stmt: stmt})
		}
	}

	for _, m := range cg.ReachableMethods() {
		for _, stmt := range m.Nodes() {
			from := Node{Method: m, Stmt: stmt}

			edges := cg.CalleesOf(stmt)
			if len(edges) == 0 {
				for _, succIdx := range stmt.Succs() {
					g.link(ICFGEdge{Kind: Normal, From: from, To: Node{Method: m, Stmt: m.StmtByIndex(succIdx)}})
				}
				continue
			}

			var afterCall Node
			if succs := stmt.Succs(); len(succs) > 0 {
				afterCall = Node{Method: m, Stmt: m.StmtByIndex(succs[0])}
			}
			for _, e := range edges {
				calleeEntry := Node{Method: e.Callee, Stmt: e.Callee.Entry()}
				g.link(ICFGEdge{Kind: Call, From: from, To: calleeEntry, Site: stmt, Callee: e.Callee})

				if afterCall.Stmt != nil {
					g.link(ICFGEdge{Kind: CallToReturn, From: from, To: afterCall, Site: stmt, Callee: e.Callee})
					for _, ret := range e.Callee.ReturnStmts() {
						retNode := Node{Method: e.Callee, Stmt: ret}
						g.link(ICFGEdge{Kind: Return, From: retNode, To: afterCall, Site: stmt, Callee: e.Callee})
					}
				}
			}
		}
	}
	return g
}

func (g *ICFG) link(e ICFGEdge) {
	g.succs[e.From] = append(g.succs[e.From], e)
	g.preds[e.To] = append(g.preds[e.To], e)
}
