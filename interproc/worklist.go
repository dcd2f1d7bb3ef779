package interproc

// nodeFIFO is a deterministic FIFO queue of ICFG nodes with membership
// tracking, mirroring package dataflow's fifo but keyed by Node since the
// ICFG's node identity spans methods (spec §5 "deterministic worklist
// order").
type nodeFIFO struct {
	q      []Node
	queued map[Node]bool
}

func newNodeFIFO(seed []Node) *nodeFIFO {
	f := &nodeFIFO{queued: map[Node]bool{}}
	for _, n := range seed {
		f.push(n)
	}
	return f
}

func (f *nodeFIFO) push(n Node) {
	if f.queued[n] {
		return
	}
	f.queued[n] = true
	f.q = append(f.q, n)
}

func (f *nodeFIFO) pop() (Node, bool) {
	if len(f.q) == 0 {
		return Node{}, false
	}
	n := f.q[0]
	f.q = f.q[1:]
	f.queued[n] = false
	return n, true
}
