// Package deadcode detects unreachable or useless statements (C6): a
// reachability walk from the CFG entry that folds constant branches and
// elides side-effect-free dead stores, consulting the results of constant
// propagation (package constprop) and live-variable analysis (package
// liveness).
package deadcode

import (
	"sort"

	"github.com/viant/staticflow/constprop"
	"github.com/viant/staticflow/dataflow"
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/lattice"
)

// Detect returns the set of dead statements (unreached, or dead stores),
// excluding the CFG exit, in stable order by Stmt.Index (spec §4.5, §6).
func Detect(m *ir.Method, cp *dataflow.Result, live *dataflow.Result) []*ir.Stmt {
	reached := map[*ir.Stmt]bool{}
	visited := map[*ir.Stmt]bool{}

	queue := []*ir.Stmt{m.Entry()}
	visited[m.Entry()] = true

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if !isDeadStore(n, cp, live) {
			reached[n] = true
		}

		for _, s := range successors(n, m, cp) {
			if !visited[s] {
				visited[s] = true
				queue = append(queue, s)
			}
		}
	}

	var dead []*ir.Stmt
	for _, s := range m.Nodes() {
		if s == m.Exit() {
			continue
		}
		if !reached[s] {
			dead = append(dead, s)
		}
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i].Index < dead[j].Index })
	return dead
}

// isDeadStore implements spec §4.5's dead-store rule: an AssignStmt whose
// LHS is not live immediately after it, and whose RHS has no observable
// side effect.
func isDeadStore(s *ir.Stmt, cp *dataflow.Result, live *dataflow.Result) bool {
	if s.Kind != ir.StmtAssign || s.LHSVar == nil {
		return false
	}
	if s.HasSideEffect() {
		return false
	}
	outLive := live.Out(s)
	if outLive == nil {
		return false
	}
	return !outLive.(*lattice.SetFact).Contains(s.LHSVar)
}

// successors computes the CFG successors of s to enqueue during the
// reachability walk, folding If/Switch branches against the constant
// propagation result available at s's IN (spec §4.5).
func successors(s *ir.Stmt, m *ir.Method, cp *dataflow.Result) []*ir.Stmt {
	switch s.Kind {
	case ir.StmtIf:
		val := constprop.Evaluate(s.RHS, cpFactAt(cp, s))
		switch {
		case val.IsConst() && val.C == 1:
			return []*ir.Stmt{m.StmtByIndex(s.IfTrueTarget)}
		case val.IsConst() && val.C == 0:
			return []*ir.Stmt{m.StmtByIndex(s.IfFalseTarget)}
		default:
			return m.Succs(s)
		}
	case ir.StmtSwitch:
		val := constprop.Evaluate(s.RHS, cpFactAt(cp, s))
		if val.IsConst() {
			for _, c := range s.CaseTargets {
				if c.Value == val.C {
					return []*ir.Stmt{m.StmtByIndex(c.Target)}
				}
			}
			if s.DefaultIdx >= 0 {
				return []*ir.Stmt{m.StmtByIndex(s.DefaultIdx)}
			}
			return nil
		}
		return m.Succs(s)
	default:
		return m.Succs(s)
	}
}

func cpFactAt(cp *dataflow.Result, s *ir.Stmt) *lattice.CPFact {
	f := cp.In(s)
	if f == nil {
		return lattice.NewCPFact()
	}
	return f.(*lattice.CPFact)
}
