package taint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/staticflow/config"
	"github.com/viant/staticflow/hierarchy"
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/pointer"
	"github.com/viant/staticflow/taint"
)

// buildSourceToSinkProgram builds: t = Service.fetch(); Service.exec(t); a
// direct source-to-sink flow with no intervening transfer (spec §4.10).
func buildSourceToSinkProgram(t *testing.T) *ir.Method {
	t.Helper()
	owner := ir.NewClass("Service", false, false)

	fetchSub := ir.Subsignature("fetch()")
	fetch := &ir.Method{Name: "fetch", Subsignature: fetchSub, IsStatic: true}
	owner.AddMethod(fetch)

	execSub := ir.Subsignature("exec(ref)")
	exec := &ir.Method{Name: "exec", Subsignature: execSub, IsStatic: true}
	exec.NewParam("arg", ir.TypeRef)
	owner.AddMethod(exec)

	main := &ir.Method{Name: "main"}
	b := ir.NewBuilder(main)
	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})

	tainted := main.NewVar("tainted", ir.TypeRef)
	fetchCall := b.Add(&ir.Stmt{Kind: ir.StmtInvoke, LHSVar: tainted, InvokeExp: &ir.InvokeExp{
		Kind: ir.Static, MethodRef: &ir.MethodRef{DeclaringClass: owner, Subsignature: fetchSub, Name: "fetch"},
	}})
	execCall := b.Add(&ir.Stmt{Kind: ir.StmtInvoke, InvokeExp: &ir.InvokeExp{
		Kind: ir.Static, Args: []*ir.Var{tainted},
		MethodRef: &ir.MethodRef{DeclaringClass: owner, Subsignature: execSub, Name: "exec"},
	}})
	exit := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	b.Edge(entry, fetchCall)
	b.Edge(fetchCall, execCall)
	b.Edge(execCall, exit)
	b.Finish(entry, exit)

	return main
}

func TestTaint_SourceReachesSink(t *testing.T) {
	main := buildSourceToSinkProgram(t)

	rules := &config.Rules{
		Sources: []config.Source{{Method: "Service.fetch", Type: "Tainted"}},
		Sinks:   []config.Sink{{Method: "Service.exec", ArgIndex: 0}},
	}
	plugin, err := taint.New(rules)
	require.NoError(t, err)

	heap := hierarchy.NewAllocSiteHeap()
	ch := hierarchy.NewSimpleHierarchy(nil)
	res := pointer.New(ch, heap, pointer.InsensitiveSelector{}, plugin).Solve(main)

	flows := plugin.Scan(res)
	require.Len(t, flows, 1)
	assert.Equal(t, 0, flows[0].ArgIndex)
	assert.Equal(t, main.Stmts[1], flows[0].Source)
	assert.Equal(t, main.Stmts[2], flows[0].Sink)
}

func TestTaint_NoFlowWhenSinkRuleDoesNotMatch(t *testing.T) {
	main := buildSourceToSinkProgram(t)

	rules := &config.Rules{
		Sources: []config.Source{{Method: "Service.fetch", Type: "Tainted"}},
		Sinks:   []config.Sink{{Method: "Service.other", ArgIndex: 0}},
	}
	plugin, err := taint.New(rules)
	require.NoError(t, err)

	heap := hierarchy.NewAllocSiteHeap()
	ch := hierarchy.NewSimpleHierarchy(nil)
	res := pointer.New(ch, heap, pointer.InsensitiveSelector{}, plugin).Solve(main)

	assert.Empty(t, plugin.Scan(res))
}

func TestTaint_TransferForgesObjectAtTargetPreservingOrigin(t *testing.T) {
	owner := ir.NewClass("Service", false, false)
	fetchSub := ir.Subsignature("fetch()")
	fetch := &ir.Method{Name: "fetch", Subsignature: fetchSub, IsStatic: true}
	owner.AddMethod(fetch)

	wrapSub := ir.Subsignature("wrap(ref)")
	wrap := &ir.Method{Name: "wrap", Subsignature: wrapSub, IsStatic: true}
	wrap.NewParam("in", ir.TypeRef)
	owner.AddMethod(wrap)

	execSub := ir.Subsignature("exec(ref)")
	exec := &ir.Method{Name: "exec", Subsignature: execSub, IsStatic: true}
	exec.NewParam("arg", ir.TypeRef)
	owner.AddMethod(exec)

	main := &ir.Method{Name: "main"}
	b := ir.NewBuilder(main)
	entry := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	raw := main.NewVar("raw", ir.TypeRef)
	wrapped := main.NewVar("wrapped", ir.TypeRef)

	fetchCall := b.Add(&ir.Stmt{Kind: ir.StmtInvoke, LHSVar: raw, InvokeExp: &ir.InvokeExp{
		Kind: ir.Static, MethodRef: &ir.MethodRef{DeclaringClass: owner, Subsignature: fetchSub, Name: "fetch"},
	}})
	wrapCall := b.Add(&ir.Stmt{Kind: ir.StmtInvoke, LHSVar: wrapped, InvokeExp: &ir.InvokeExp{
		Kind: ir.Static, Args: []*ir.Var{raw},
		MethodRef: &ir.MethodRef{DeclaringClass: owner, Subsignature: wrapSub, Name: "wrap"},
	}})
	execCall := b.Add(&ir.Stmt{Kind: ir.StmtInvoke, InvokeExp: &ir.InvokeExp{
		Kind: ir.Static, Args: []*ir.Var{wrapped},
		MethodRef: &ir.MethodRef{DeclaringClass: owner, Subsignature: execSub, Name: "exec"},
	}})
	exit := b.Add(&ir.Stmt{Kind: ir.StmtNop})
	b.Edge(entry, fetchCall)
	b.Edge(fetchCall, wrapCall)
	b.Edge(wrapCall, execCall)
	b.Edge(execCall, exit)
	b.Finish(entry, exit)

	rules := &config.Rules{
		Sources:   []config.Source{{Method: "Service.fetch", Type: "Tainted"}},
		Sinks:     []config.Sink{{Method: "Service.exec", ArgIndex: 0}},
		Transfers: []config.Transfer{{Method: "Service.wrap", From: "arg0", To: "RESULT", Type: "Tainted"}},
	}
	plugin, err := taint.New(rules)
	require.NoError(t, err)

	heap := hierarchy.NewAllocSiteHeap()
	ch := hierarchy.NewSimpleHierarchy(nil)
	res := pointer.New(ch, heap, pointer.InsensitiveSelector{}, plugin).Solve(main)

	flows := plugin.Scan(res)
	require.Len(t, flows, 1, "taint must survive the wrap() transfer hop")
	assert.Equal(t, fetchCall, flows[0].Source, "provenance must point back to the original source call, not the transfer hop")
	assert.Equal(t, execCall, flows[0].Sink)
}
