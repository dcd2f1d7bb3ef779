// Package taint implements the taint-tracking overlay (C11, spec §4.10):
// a pointer.TaintPlugin that forges and propagates taint objects during
// points-to solving, and a post-solve sink scan that reports TaintFlow
// results.
package taint

import (
	"fmt"
	"sort"

	"github.com/viant/staticflow/config"
	"github.com/viant/staticflow/csctx"
	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/pointer"
)

// qualifiedName is the matching key a Source/Sink/Transfer rule's "method"
// field is compared against: "DeclaringClass.Name".
func qualifiedName(m *ir.Method) string {
	if m.DeclaringClass == nil {
		return m.Name
	}
	return fmt.Sprintf("%s.%s", m.DeclaringClass.Name, m.Name)
}

// transferRule is config.Transfer with its endpoint strings pre-parsed.
type transferRule struct {
	method string
	from   config.Endpoint
	to     config.Endpoint
	typ    string
}

// Plugin is the pointer.TaintPlugin realization. One Plugin is owned by a
// single Solve invocation, matching the "analysis context, not module
// state" re-architecture spec §9 asks for inter-CP's own aux state.
type Plugin struct {
	sources   map[string]string // qualified method name -> source type
	sinks     map[string][]int  // qualified method name -> sink argument indexes
	transfers map[string][]transferRule

	heap    *hierarchy.AllocSiteHeap
	classes map[string]*ir.Class

	// origin maps a taint Obj back to the call site that first introduced
	// it (spec §4.10 "preserving the originating source call site"), even
	// across transfer hops that forge a fresh Obj at a different site.
	origin map[*hierarchy.Obj]*ir.Stmt
}

// New builds a Plugin from parsed configuration.
func New(rules *config.Rules) (*Plugin, error) {
	p := &Plugin{
		sources:   map[string]string{},
		sinks:     map[string][]int{},
		transfers: map[string][]transferRule{},
		heap:      hierarchy.NewAllocSiteHeap(),
		classes:   map[string]*ir.Class{},
		origin:    map[*hierarchy.Obj]*ir.Stmt{},
	}
	for _, s := range rules.Sources {
		p.sources[s.Method] = s.Type
	}
	for _, s := range rules.Sinks {
		p.sinks[s.Method] = append(p.sinks[s.Method], s.ArgIndex)
	}
	for _, t := range rules.Transfers {
		from, err := config.ParseEndpoint(t.From)
		if err != nil {
			return nil, fmt.Errorf("taint: rule for %s: %w", t.Method, err)
		}
		to, err := config.ParseEndpoint(t.To)
		if err != nil {
			return nil, fmt.Errorf("taint: rule for %s: %w", t.Method, err)
		}
		p.transfers[t.Method] = append(p.transfers[t.Method], transferRule{method: t.Method, from: from, to: to, typ: t.Type})
	}
	return p, nil
}

func (p *Plugin) classFor(name string) *ir.Class {
	if c, ok := p.classes[name]; ok {
		return c
	}
	c := ir.NewClass(name, false, false)
	p.classes[name] = c
	return c
}

// OnCall implements pointer.TaintPlugin (spec §4.10 "Integrated in the CS
// points-to solver at invoke processing").
func (p *Plugin) OnCall(s *pointer.Solver, site pointer.CSCallSite, inv *ir.InvokeExp, callee pointer.CSMethod) {
	name := qualifiedName(callee.Method)

	if typ, ok := p.sources[name]; ok && site.Site.LHSVar != nil {
		obj := p.heap.Obj(site.Site, p.classFor(typ))
		if _, seen := p.origin[obj]; !seen {
			p.origin[obj] = site.Site
		}
		csObj := pointer.CSObj{Ctx: csctx.Empty, Obj: obj}
		s.Enqueue(pointer.CSVar{Ctx: site.Ctx, Var: site.Site.LHSVar}, csObj)
	}

	for _, rule := range p.transfers[name] {
		p.applyTransfer(s, site, inv, rule)
	}
}

func (p *Plugin) applyTransfer(s *pointer.Solver, site pointer.CSCallSite, inv *ir.InvokeExp, rule transferRule) {
	fromVar := p.resolveEndpoint(site.Site, inv, rule.from)
	toVar := p.resolveEndpoint(site.Site, inv, rule.to)
	if fromVar == nil || toVar == nil {
		return
	}

	for _, srcObj := range s.PointsTo(pointer.CSVar{Ctx: site.Ctx, Var: fromVar}) {
		origin, isTaint := p.origin[srcObj.Obj]
		if !isTaint {
			continue
		}
		forged := p.heap.Obj(site.Site, p.classFor(rule.typ))
		if _, seen := p.origin[forged]; !seen {
			p.origin[forged] = origin
		}
		csObj := pointer.CSObj{Ctx: csctx.Empty, Obj: forged}
		s.Enqueue(pointer.CSVar{Ctx: site.Ctx, Var: toVar}, csObj)
	}
}

// resolveEndpoint maps a transfer rule endpoint to the caller-side
// variable it names at this call site.
func (p *Plugin) resolveEndpoint(site *ir.Stmt, inv *ir.InvokeExp, e config.Endpoint) *ir.Var {
	switch e.Kind {
	case config.EndpointBase:
		return inv.Base
	case config.EndpointResult:
		return site.LHSVar
	default:
		if e.Arg < 0 || e.Arg >= len(inv.Args) {
			return nil
		}
		return inv.Args[e.Arg]
	}
}

// Flow records that a taint object originating at Source reached argument
// ArgIndex of a call matching a sink rule (spec §4.10 TaintFlow).
type Flow struct {
	Source   *ir.Stmt
	Sink     *ir.Stmt
	ArgIndex int
}

// Scan walks res's call graph for sink-matching calls and reports, in
// stable order, every taint flow reaching a sink argument (spec §4.10 "On
// solver completion, scan reachable (csCallSite -> csMethod) pairs...").
func (p *Plugin) Scan(res *pointer.Result) []Flow {
	var flows []Flow
	for _, e := range res.CallGraph().Edges() {
		indexes, ok := p.sinks[qualifiedName(e.Callee.Method)]
		if !ok {
			continue
		}
		inv := e.Site.Site.InvokeExp
		for _, idx := range indexes {
			if idx < 0 || idx >= len(inv.Args) {
				continue
			}
			for _, obj := range res.PointsToCS(pointer.CSVar{Ctx: e.Site.Ctx, Var: inv.Args[idx]}) {
				origin, isTaint := p.origin[obj.CSObj.Obj]
				if !isTaint {
					continue
				}
				flows = append(flows, Flow{Source: origin, Sink: e.Site.Site, ArgIndex: idx})
			}
		}
	}
	sortFlows(flows)
	return flows
}

func sortFlows(flows []Flow) {
	sort.Slice(flows, func(i, j int) bool {
		a, b := flows[i], flows[j]
		if a.Source.Index != b.Source.Index {
			return a.Source.Index < b.Source.Index
		}
		if a.Sink.Index != b.Sink.Index {
			return a.Sink.Index < b.Sink.Index
		}
		return a.ArgIndex < b.ArgIndex
	})
}
