package pointer

// NodeID is the interned identity of a Pointer (PFG node).
type NodeID int

// ObjID is the interned identity of a CSObj, small enough to live in an
// intsets.Sparse points-to set (spec §9 "arena of pointers keyed by
// (kind, entity[, context]); edges are index pairs").
type ObjID int

// arena interns Pointer and CSObj values to small integers so PTS/PFG can
// be represented with plain int-keyed structures, and canonicalizes
// (context, entity) pairs per spec §4.8/§9: structurally equal Pointer or
// CSObj values always intern to the same id.
type arena struct {
	ptrID  map[Pointer]NodeID
	ptrs   []Pointer
	objID  map[CSObj]ObjID
	objs   []CSObj
}

func newArena() *arena {
	return &arena{ptrID: map[Pointer]NodeID{}, objID: map[CSObj]ObjID{}}
}

func (a *arena) node(p Pointer) NodeID {
	if id, ok := a.ptrID[p]; ok {
		return id
	}
	id := NodeID(len(a.ptrs))
	a.ptrs = append(a.ptrs, p)
	a.ptrID[p] = id
	return id
}

func (a *arena) pointerAt(id NodeID) Pointer { return a.ptrs[id] }

func (a *arena) obj(o CSObj) ObjID {
	if id, ok := a.objID[o]; ok {
		return id
	}
	id := ObjID(len(a.objs))
	a.objs = append(a.objs, o)
	a.objID[o] = id
	return id
}

func (a *arena) objAt(id ObjID) CSObj { return a.objs[id] }
