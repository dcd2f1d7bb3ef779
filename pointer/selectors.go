package pointer

import (
	"github.com/viant/staticflow/csctx"
	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/ir"
)

// CallSiteSensitive is a k-call-site-sensitive ContextSelector (spec
// §4.8): a callee's context is the caller's context with the call site's
// statement index appended, truncated to the most recent k sites. k=1 is
// the common default ("1-CFA").
type CallSiteSensitive struct {
	K     int
	Table *csctx.Table

	chains map[csctx.Context][]int
}

func NewCallSiteSensitive(k int) *CallSiteSensitive {
	return &CallSiteSensitive{K: k, Table: csctx.NewTable(), chains: map[csctx.Context][]int{}}
}

func (c *CallSiteSensitive) SelectContext(site CSCallSite, callee *ir.Method) csctx.Context {
	return c.push(site.Ctx, site.Site.Index)
}

func (c *CallSiteSensitive) SelectContextForVirtual(site CSCallSite, recv CSObj, callee *ir.Method) csctx.Context {
	return c.push(site.Ctx, site.Site.Index)
}

func (c *CallSiteSensitive) SelectHeapContext(method CSMethod, obj *hierarchy.Obj) csctx.Context {
	return method.Ctx
}

// push appends a site index to the caller's context chain, keeping only
// the last K elements (csctx.Table.Intern canonicalizes the resulting
// structural key).
func (c *CallSiteSensitive) push(caller csctx.Context, siteIdx int) csctx.Context {
	if c.K <= 0 {
		return csctx.Empty
	}
	chain := append(c.chainOf(caller), siteIdx)
	if len(chain) > c.K {
		chain = chain[len(chain)-c.K:]
	}
	ctx := c.Table.Intern(csctx.EncodeInts(chain...))
	if _, ok := c.chains[ctx]; !ok {
		c.chains[ctx] = chain
	}
	return ctx
}

// chainOf recovers the int chain a previously interned context was built
// from, so SelectContext can extend it without re-decoding the interned
// key bytes.
func (c *CallSiteSensitive) chainOf(ctx csctx.Context) []int {
	if chain, ok := c.chains[ctx]; ok {
		return append([]int{}, chain...)
	}
	return nil
}

// ObjectSensitive is an object-sensitive ContextSelector (spec §4.8): a
// call with a receiver (virtual, interface or special) gets a context made
// of the receiver object's allocation-site hash alone. K only switches this
// on or off: any K > 0 yields that same one-element context, and the
// receiver's own heap context is not prepended; K <= 0 yields csctx.Empty.
// Static calls inherit the caller's context unchanged since there is no
// receiver object to key on.
type ObjectSensitive struct {
	K     int
	Table *csctx.Table
}

func NewObjectSensitive(k int) *ObjectSensitive {
	return &ObjectSensitive{K: k, Table: csctx.NewTable()}
}

func (o *ObjectSensitive) SelectContext(site CSCallSite, callee *ir.Method) csctx.Context {
	return site.Ctx
}

func (o *ObjectSensitive) SelectContextForVirtual(site CSCallSite, recv CSObj, callee *ir.Method) csctx.Context {
	if o.K <= 0 {
		return csctx.Empty
	}
	return o.Table.Intern(csctx.EncodeInts(int(recv.Obj.Hash())))
}

func (o *ObjectSensitive) SelectHeapContext(method CSMethod, obj *hierarchy.Obj) csctx.Context {
	return method.Ctx
}
