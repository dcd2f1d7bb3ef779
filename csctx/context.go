// Package csctx provides the Context abstraction (spec §3 "Context", §4.8)
// and a generic canonicalization helper so that equal (context, entity)
// pairs map to identical identities across the whole analysis (spec §4.8
// invariant, §9 "Context canonicalization").
package csctx

import (
	"encoding/binary"

	"github.com/minio/highwayhash"
)

// contextHashKey mirrors hierarchy's allocation-hash key: a fixed,
// non-secret HighwayHash-64 key used purely for identity/dedup, per the
// teacher's inspector/graph/hash.go pattern.
var contextHashKey = []byte("FEDCBA9876543210FEDCBA9876543210")

// Context is an opaque, equality-comparable, hashable tuple of call sites
// (spec §3). staticflow represents it as an interned small integer id only
// (the Table that issued it keeps the key bytes), so two structurally equal
// contexts interned by the same Table compare equal as plain Go values.
type Context struct {
	id int
}

// Empty is the distinguished default/empty context.
var Empty = Context{id: 0}

func (c Context) Equal(o Context) bool { return c.id == o.id }

// Table interns context element chains into small Context ids, so
// selectors can build new contexts (e.g. "push this call site onto the
// caller's context, truncate to depth k") by hashing a structural key
// rather than maintaining their own global maps (spec §9's "module-level
// state" note asks for this to live in a single owned arena instead).
type Table struct {
	next   int
	byHash map[uint64]Context
	keys   map[Context][]byte
}

func NewTable() *Table {
	t := &Table{byHash: map[uint64]Context{}, keys: map[Context][]byte{}}
	t.byHash[hashBytes(nil)] = Empty
	t.keys[Empty] = nil
	t.next = 1
	return t
}

// Intern returns the canonical Context for the given structural key bytes,
// creating a fresh one on first sight. Callers build the key by encoding
// whatever chain of call-site/object identifiers defines their context
// (e.g. a k-call-site-sensitive selector encodes the last k site indices).
func (t *Table) Intern(key []byte) Context {
	h := hashBytes(key)
	if c, ok := t.byHash[h]; ok {
		return c
	}
	c := Context{id: t.next}
	t.next++
	t.byHash[h] = c
	t.keys[c] = append([]byte{}, key...)
	return c
}

func hashBytes(b []byte) uint64 {
	hasher, err := highwayhash.New64(contextHashKey)
	if err != nil {
		panic("csctx: highwayhash key must be exactly 32 bytes")
	}
	hasher.Write(b)
	return hasher.Sum64()
}

// EncodeInts is a small helper for selectors to build structural keys out
// of a sequence of integer identifiers (site/object indices).
func EncodeInts(ids ...int) []byte {
	buf := make([]byte, 8*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(id))
	}
	return buf
}
