package hierarchy

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/viant/staticflow/ir"
)

// heapHashKey is a fixed, non-secret key for the HighwayHash-64 allocation
// keyed hasher, mirroring the teacher's content-hash helper
// (inspector/graph/hash.go): a stable key is enough since this hash is
// used for identity/dedup, not for authentication.
var heapHashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Obj is an abstract heap object (spec §3 "Heap model"): one per
// allocation site, canonical across the whole analysis.
type Obj struct {
	Site *ir.Stmt
	Type *ir.Class
	hash uint64
}

func (o *Obj) String() string {
	if o.Site == nil {
		return "<obj>"
	}
	return fmt.Sprintf("new@%s:%d", o.Site.Method.Name, o.Site.Index)
}

// Hash returns the HighwayHash-64 digest computed over the allocation
// site's identity (site index, method name, allocated type name). It is
// stable across AllocSiteHeap instances; canonical Obj identity itself comes
// from the per-site memo in AllocSiteHeap, and pointer.ObjectSensitive uses
// Hash as the receiver object's context key.
func (o *Obj) Hash() uint64 { return o.hash }

// AllocSiteHeap is the reference heap-model collaborator (spec §6
// "Heap model: obj(site) → Obj canonical per allocation site"): one Obj
// per allocation statement, memoized.
type AllocSiteHeap struct {
	objs map[*ir.Stmt]*Obj
}

func NewAllocSiteHeap() *AllocSiteHeap {
	return &AllocSiteHeap{objs: map[*ir.Stmt]*Obj{}}
}

// Obj returns the canonical Obj for the allocation at site, creating it on
// first use.
func (h *AllocSiteHeap) Obj(site *ir.Stmt, allocType *ir.Class) *Obj {
	if o, ok := h.objs[site]; ok {
		return o
	}
	o := &Obj{Site: site, Type: allocType, hash: hashSite(site, allocType)}
	h.objs[site] = o
	return o
}

func hashSite(site *ir.Stmt, allocType *ir.Class) uint64 {
	hasher, err := highwayhash.New64(heapHashKey)
	if err != nil {
		panic("hierarchy: highwayhash key must be exactly 32 bytes")
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(site.Index))
	hasher.Write(buf[:])
	hasher.Write([]byte(site.Method.Name))
	if allocType != nil {
		hasher.Write([]byte(allocType.Name))
	}
	return hasher.Sum64()
}
