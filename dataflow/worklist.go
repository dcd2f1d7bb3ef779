package dataflow

import "github.com/viant/staticflow/ir"

// fifo is a deterministic FIFO queue of CFG nodes with membership tracking
// so a node is never enqueued twice while already pending (spec §5
// "deterministic worklist order (FIFO queue of nodes, iteration order of
// successor collections stable)").
type fifo struct {
	q      []*ir.Stmt
	queued map[*ir.Stmt]bool
}

func newFIFO(seed []*ir.Stmt) *fifo {
	f := &fifo{queued: map[*ir.Stmt]bool{}}
	for _, n := range seed {
		f.push(n)
	}
	return f
}

func (f *fifo) push(n *ir.Stmt) {
	if f.queued[n] {
		return
	}
	f.queued[n] = true
	f.q = append(f.q, n)
}

func (f *fifo) pop() (*ir.Stmt, bool) {
	if len(f.q) == 0 {
		return nil, false
	}
	n := f.q[0]
	f.q = f.q[1:]
	f.queued[n] = false
	return n, true
}
