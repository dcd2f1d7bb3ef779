package pointer

import "golang.org/x/tools/container/intsets"

// pfg is the pointer flow graph: edges mean "subset of points-to set"
// (spec §3). Each node owns a PTS, backed by intsets.Sparse of ObjID —
// the same sparse-bitset structure x/tools' own go/pointer analysis uses
// for pointer-analysis node sets.
type pfg struct {
	succ map[NodeID]map[NodeID]bool
	pts  map[NodeID]*intsets.Sparse
}

func newPFG() *pfg {
	return &pfg{succ: map[NodeID]map[NodeID]bool{}, pts: map[NodeID]*intsets.Sparse{}}
}

func (g *pfg) ptsOf(n NodeID) *intsets.Sparse {
	s, ok := g.pts[n]
	if !ok {
		s = &intsets.Sparse{}
		g.pts[n] = s
	}
	return s
}

func (g *pfg) successors(n NodeID) []NodeID {
	m := g.succ[n]
	out := make([]NodeID, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	return out
}

// addEdge adds src -> dst if new, returning the delta that must be pushed
// to dst immediately (spec §4.7 "Adding PFG edges must, when the edge is
// new, immediately push the source's current PTS to the target"). The
// returned delta is nil if the edge already existed.
func (g *pfg) addEdge(src, dst NodeID) *intsets.Sparse {
	if g.succ[src] == nil {
		g.succ[src] = map[NodeID]bool{}
	}
	if g.succ[src][dst] {
		return nil
	}
	g.succ[src][dst] = true
	srcPTS := g.ptsOf(src)
	if srcPTS.IsEmpty() {
		return nil
	}
	delta := &intsets.Sparse{}
	delta.Copy(srcPTS)
	return delta
}
