package interproc

import (
	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/lattice"
	"github.com/viant/staticflow/pointer"
)

type instanceKey struct {
	obj   *hierarchy.Obj
	field *ir.FieldRef
}

type staticKey struct {
	class *ir.Class
	field *ir.FieldRef
}

type arrayKey struct {
	obj *hierarchy.Obj
	idx lattice.CPValue
}

// Heap is the alias-aware heap-state collaborator of inter-procedural
// constant propagation (spec §4.9 "Alias-aware heap"): valMap/aliasMap/
// staticLoadFields, owned by one Solve invocation rather than kept as
// module-level state.
type Heap struct {
	valMap           map[instanceKey]lattice.CPValue
	arrVals          map[arrayKey]lattice.CPValue
	staticVals       map[staticKey]lattice.CPValue
	aliasMap         map[*hierarchy.Obj][]*ir.Var
	varObjs          map[*ir.Var][]*hierarchy.Obj
	staticLoadFields map[staticKey][]*ir.Stmt
}

// NewHeap builds aliasMap from pts (the whole-program points-to result) and
// staticLoadFields by scanning every ICFG node once; both are then fixed for
// the lifetime of the solve.
func NewHeap(pts *pointer.Result, g *ICFG) *Heap {
	h := &Heap{
		valMap:           map[instanceKey]lattice.CPValue{},
		arrVals:          map[arrayKey]lattice.CPValue{},
		staticVals:       map[staticKey]lattice.CPValue{},
		aliasMap:         map[*hierarchy.Obj][]*ir.Var{},
		varObjs:          map[*ir.Var][]*hierarchy.Obj{},
		staticLoadFields: map[staticKey][]*ir.Stmt{},
	}

	seen := map[*hierarchy.Obj]map[*ir.Var]bool{}
	seenVarObj := map[*ir.Var]map[*hierarchy.Obj]bool{}
	for _, v := range pts.Vars() {
		for _, o := range pts.PointsTo(v) {
			obj := o.CSObj.Obj
			if seen[obj] == nil {
				seen[obj] = map[*ir.Var]bool{}
			}
			if !seen[obj][v] {
				seen[obj][v] = true
				h.aliasMap[obj] = append(h.aliasMap[obj], v)
			}
			if seenVarObj[v] == nil {
				seenVarObj[v] = map[*hierarchy.Obj]bool{}
			}
			if !seenVarObj[v][obj] {
				seenVarObj[v][obj] = true
				h.varObjs[v] = append(h.varObjs[v], obj)
			}
		}
	}

	for _, n := range g.Nodes() {
		if n.Stmt.Kind == ir.StmtLoadField && n.Stmt.FieldBase == nil {
			k := staticKey{class: n.Stmt.FieldCls, field: n.Stmt.Field}
			h.staticLoadFields[k] = append(h.staticLoadFields[k], n.Stmt)
		}
	}
	return h
}

// aliasesOf returns every variable whose points-to set may contain obj
// (spec §4.9 aliasMap).
func (h *Heap) aliasesOf(obj *hierarchy.Obj) []*ir.Var { return h.aliasMap[obj] }

// objsOf returns every object v's points-to set may contain, i.e. the
// inverse direction of aliasesOf, used to resolve a StoreField/LoadField's
// base variable (or a StoreArray/LoadArray's array variable) to the set of
// heap objects it may refer to.
func (h *Heap) objsOf(v *ir.Var) []*hierarchy.Obj { return h.varObjs[v] }

func (h *Heap) instanceVal(obj *hierarchy.Obj, f *ir.FieldRef) lattice.CPValue {
	return h.valMap[instanceKey{obj, f}]
}

func (h *Heap) storeInstance(obj *hierarchy.Obj, f *ir.FieldRef, v lattice.CPValue) bool {
	k := instanceKey{obj, f}
	merged := lattice.MeetCP(h.valMap[k], v)
	if merged.Equal(h.valMap[k]) {
		return false
	}
	h.valMap[k] = merged
	return true
}

func (h *Heap) staticVal(c *ir.Class, f *ir.FieldRef) lattice.CPValue {
	return h.staticVals[staticKey{c, f}]
}

func (h *Heap) storeStatic(c *ir.Class, f *ir.FieldRef, v lattice.CPValue) bool {
	k := staticKey{c, f}
	merged := lattice.MeetCP(h.staticVals[k], v)
	if merged.Equal(h.staticVals[k]) {
		return false
	}
	h.staticVals[k] = merged
	return true
}

func (h *Heap) storeArray(obj *hierarchy.Obj, idx, v lattice.CPValue) bool {
	k := arrayKey{obj, idx}
	merged := lattice.MeetCP(h.arrVals[k], v)
	if merged.Equal(h.arrVals[k]) {
		return false
	}
	h.arrVals[k] = merged
	return true
}

// arrayLoadVal implements the precise index-compatibility rule of spec
// §4.9: meet over every stored (obj, s) entry whose index s is compatible
// with the load index l — s, l both Const and equal, or either NAC and the
// other not UNDEF.
func (h *Heap) arrayLoadVal(obj *hierarchy.Obj, l lattice.CPValue) lattice.CPValue {
	if l.IsUndef() {
		return lattice.Undef
	}
	result := lattice.Undef
	for k, v := range h.arrVals {
		if k.obj != obj {
			continue
		}
		if compatibleIndex(k.idx, l) {
			result = lattice.MeetCP(result, v)
		}
	}
	return result
}

func compatibleIndex(s, l lattice.CPValue) bool {
	if s.IsUndef() || l.IsUndef() {
		return false
	}
	if s.IsConst() && l.IsConst() {
		return s.C == l.C
	}
	return s.IsNAC() || l.IsNAC()
}
