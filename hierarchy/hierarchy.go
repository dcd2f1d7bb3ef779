// Package hierarchy provides the class-hierarchy and callee-resolution
// collaborators consumed by the call-graph builder (C7) and the points-to
// solvers (C8/C9), per spec §6: directSubclassesOf, directSubinterfacesOf,
// directImplementorsOf, getDeclaredMethod (via *ir.Class), superClass,
// isInterface, isAbstract, plus a resolveCallee helper.
package hierarchy

import "github.com/viant/staticflow/ir"

// ClassHierarchy is the collaborator contract. A concrete whole-program
// class hierarchy (out of scope for this module, spec §1) implements it;
// SimpleHierarchy below is the in-memory reference implementation used by
// tests and small embeddings.
type ClassHierarchy interface {
	DirectSubclassesOf(c *ir.Class) []*ir.Class
	DirectSubinterfacesOf(i *ir.Class) []*ir.Class
	DirectImplementorsOf(i *ir.Class) []*ir.Class
}

// SimpleHierarchy indexes a fixed set of classes by direct super-type, so
// DirectSubclassesOf/DirectSubinterfacesOf/DirectImplementorsOf are O(1)
// lookups instead of a whole-hierarchy scan per query.
type SimpleHierarchy struct {
	classes       []*ir.Class
	subclasses    map[*ir.Class][]*ir.Class
	subinterfaces map[*ir.Class][]*ir.Class
	implementors  map[*ir.Class][]*ir.Class
}

// NewSimpleHierarchy builds the reverse indices over the given classes.
func NewSimpleHierarchy(classes []*ir.Class) *SimpleHierarchy {
	h := &SimpleHierarchy{
		classes:       classes,
		subclasses:    map[*ir.Class][]*ir.Class{},
		subinterfaces: map[*ir.Class][]*ir.Class{},
		implementors:  map[*ir.Class][]*ir.Class{},
	}
	for _, c := range classes {
		if c.Super != nil {
			h.subclasses[c.Super] = append(h.subclasses[c.Super], c)
		}
		for _, iface := range c.Interfaces {
			if c.IsIntf {
				h.subinterfaces[iface] = append(h.subinterfaces[iface], c)
			} else {
				h.implementors[iface] = append(h.implementors[iface], c)
			}
		}
	}
	return h
}

func (h *SimpleHierarchy) DirectSubclassesOf(c *ir.Class) []*ir.Class    { return h.subclasses[c] }
func (h *SimpleHierarchy) DirectSubinterfacesOf(i *ir.Class) []*ir.Class { return h.subinterfaces[i] }
func (h *SimpleHierarchy) DirectImplementorsOf(i *ir.Class) []*ir.Class  { return h.implementors[i] }

// Dispatch walks superclasses of start (inclusive) until it finds a
// concrete (non-abstract) declared method for sub, or the chain ends
// (spec §4.6 "Dispatch walks superclasses until a concrete method is
// found or the chain ends").
func Dispatch(start *ir.Class, sub ir.Subsignature) *ir.Method {
	for c := start; c != nil; c = c.Super {
		if m := c.DeclaredMethod(sub); m != nil && !m.IsAbstract {
			return m
		}
	}
	return nil
}

// subHierarchy BFS-enumerates every class reachable downward from decl via
// subclass/subinterface/implementor edges, decl included (spec §4.6
// "Virtual/Interface: BFS the sub-hierarchy from the declaring class/
// interface").
func subHierarchy(ch ClassHierarchy, decl *ir.Class) []*ir.Class {
	seen := map[*ir.Class]bool{decl: true}
	queue := []*ir.Class{decl}
	var out []*ir.Class
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, c)
		next := append(append([]*ir.Class{}, ch.DirectSubclassesOf(c)...), ch.DirectSubinterfacesOf(c)...)
		next = append(next, ch.DirectImplementorsOf(c)...)
		for _, n := range next {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return out
}

// ResolveVirtualTargets implements the Virtual/Interface resolution rule
// of spec §4.6: BFS the sub-hierarchy from the declared receiver type,
// dispatching upward from each visited class for the subsignature, and
// deduplicating repeated resolutions (spec §8 scenario 5).
func ResolveVirtualTargets(ch ClassHierarchy, declClass *ir.Class, sub ir.Subsignature) []*ir.Method {
	var out []*ir.Method
	seen := map[*ir.Method]bool{}
	for _, c := range subHierarchy(ch, declClass) {
		if m := Dispatch(c, sub); m != nil && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// ResolveCallee resolves the concrete callee of an invocation, independent
// of call-graph bookkeeping (spec §6 resolveCallee). For Static/Special it
// ignores receiverClass; for Virtual/Interface, receiverClass is the
// runtime (dynamic) type of the base variable and resolution dispatches
// from it directly (no BFS — the exact dynamic type is already known, cf.
// spec §4.7's processCall, as opposed to CHA's over-approximation in
// ResolveVirtualTargets).
func ResolveCallee(invoke *ir.InvokeExp, receiverClass *ir.Class) *ir.Method {
	ref := invoke.MethodRef
	switch invoke.Kind {
	case ir.Static:
		return ref.DeclaringClass.DeclaredMethod(ref.Subsignature)
	case ir.Special:
		return Dispatch(ref.DeclaringClass, ref.Subsignature)
	case ir.Virtual, ir.Interface:
		if receiverClass == nil {
			return nil
		}
		return Dispatch(receiverClass, ref.Subsignature)
	default:
		return nil
	}
}
