package dataflow

// SolveForward runs the forward worklist solver (spec §4.2). OUT[entry] is
// seeded with the analysis's boundary fact; every other node starts at
// OUT[n] = initial fact. IN[n] is recomputed fresh on every pop as the
// meet of predecessors' OUT (the empty meet, for nodes with no
// predecessors other than entry, is the initial fact — the lattice's
// bottom element).
func SolveForward(cfg CFG, a Analysis) *Result {
	if a.Direction() != Forward {
		panic("dataflow: SolveForward given a non-forward analysis")
	}
	res := newResult()
	nodes := cfg.Nodes()
	entry := cfg.Entry()

	for _, n := range nodes {
		if n == entry {
			res.setOut(n, a.NewBoundaryFact(cfg))
		} else {
			res.setOut(n, a.NewInitialFact())
		}
		res.setIn(n, a.NewInitialFact())
	}

	wl := newFIFO(nodes)
	for {
		n, ok := wl.pop()
		if !ok {
			break
		}
		// The entry node's OUT is the boundary fact and never
		// recomputed: it has no real predecessor to meet over, and
		// re-deriving IN[entry] from an empty predecessor set would
		// fold to the lattice's bottom element, erasing the boundary
		// (e.g. integer parameters seeded to NAC). Every other node
		// is handled exactly per spec §4.2.
		if n == entry {
			res.setIn(n, a.NewBoundaryFact(cfg))
			continue
		}

		in := a.NewInitialFact()
		for _, p := range cfg.Preds(n) {
			in.MeetFrom(res.Out(p))
		}
		res.setIn(n, in)

		out := res.Out(n)
		changed := a.TransferNode(n, in, out)
		if changed {
			for _, s := range cfg.Succs(n) {
				wl.push(s)
			}
		}
	}
	return res
}
