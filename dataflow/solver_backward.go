package dataflow

// SolveBackward runs the backward iterative solver (spec §4.2): same
// shape as SolveForward with predecessors/successors swapped, driven by a
// "changed" flag that triggers another full pass over every node until
// none change. The CFG exit node holds the boundary fact, mirroring how
// SolveForward pins the entry node.
func SolveBackward(cfg CFG, a Analysis) *Result {
	if a.Direction() != Backward {
		panic("dataflow: SolveBackward given a non-backward analysis")
	}
	res := newResult()
	nodes := cfg.Nodes()
	exit := cfg.Exit()

	for _, n := range nodes {
		if n == exit {
			res.setIn(n, a.NewBoundaryFact(cfg))
		} else {
			res.setIn(n, a.NewInitialFact())
		}
		res.setOut(n, a.NewInitialFact())
	}

	for {
		changedAny := false
		for _, n := range nodes {
			out := a.NewInitialFact()
			for _, s := range cfg.Succs(n) {
				out.MeetFrom(res.In(s))
			}
			res.setOut(n, out)

			if n == exit {
				// IN[exit] is the pinned boundary fact; see
				// SolveForward's symmetric note on entry.
				continue
			}
			in := res.In(n)
			if a.TransferNode(n, out, in) {
				changedAny = true
			}
		}
		if !changedAny {
			break
		}
	}
	return res
}
