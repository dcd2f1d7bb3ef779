// Package constprop implements intraprocedural constant propagation (C4):
// a forward data-flow analysis over the three-state CP lattice (package
// lattice), solved by dataflow.SolveForward.
package constprop

import (
	"github.com/viant/staticflow/dataflow"
	"github.com/viant/staticflow/ir"
	"github.com/viant/staticflow/lattice"
)

// Analysis is the constant-propagation dataflow.Analysis (spec §4.3).
type Analysis struct {
	Method *ir.Method
}

func New(m *ir.Method) *Analysis { return &Analysis{Method: m} }

func (a *Analysis) Direction() dataflow.Direction { return dataflow.Forward }

// NewBoundaryFact binds every integer-typed parameter to NAC.
func (a *Analysis) NewBoundaryFact(cfg dataflow.CFG) dataflow.Fact {
	f := lattice.NewCPFact()
	for _, p := range a.Method.Params {
		if p.Type.CanHoldInt() {
			f.Update(p, lattice.Nac)
		}
	}
	return f
}

func (a *Analysis) NewInitialFact() dataflow.Fact { return lattice.NewCPFact() }

// TransferNode implements spec §4.3's transfer (method form, satisfying
// dataflow.Analysis): delegates to the package-level TransferNode, which
// carries no per-method state and so is reusable directly by interproc's
// inter-procedural solver (spec §4.9 "intraprocedural transfer for every
// non-heap statement kind").
func (a *Analysis) TransferNode(stmt *ir.Stmt, in dataflow.Fact, out dataflow.Fact) bool {
	return TransferNode(stmt, in, out)
}

// TransferNode overwrites a definition of an integer-typed variable with
// Evaluate(rhs, IN); everything else is an identity copy of IN into OUT.
func TransferNode(stmt *ir.Stmt, in dataflow.Fact, out dataflow.Fact) bool {
	inFact := in.(*lattice.CPFact)
	outFact := out.(*lattice.CPFact)

	if stmt.Kind == ir.StmtAssign && stmt.LHSVar != nil && stmt.LHSVar.Type.CanHoldInt() {
		changed := copyIdentity(inFact, outFact, stmt.LHSVar)
		val := Evaluate(stmt.RHS, inFact)
		if outFact.Update(stmt.LHSVar, val) {
			changed = true
		}
		return changed
	}
	return copyIdentity(inFact, outFact, nil)
}

// copyIdentity sets OUT = IN, optionally excluding a variable that the
// caller is about to overwrite itself (so the "did OUT change" check isn't
// confused by a transient double-write). Returns whether OUT changed.
func copyIdentity(in, out *lattice.CPFact, except *ir.Var) bool {
	changed := false
	for _, v := range in.Keys() {
		if v == except {
			continue
		}
		if out.Update(v, in.Get(v)) {
			changed = true
		}
	}
	return changed
}

// Evaluate computes the CPValue of an expression given the facts holding
// at its statement's IN (spec §4.3).
func Evaluate(e *ir.Expr, in *lattice.CPFact) lattice.CPValue {
	if e == nil {
		return lattice.Undef
	}
	switch e.Kind {
	case ir.ExprIntLit:
		return lattice.Const(e.IntValue)
	case ir.ExprVar:
		return in.Get(e.Var)
	case ir.ExprBinary:
		return evalBinary(e, in)
	default:
		// field access, array access, invocation, cast, new
		return lattice.Nac
	}
}

func evalBinary(e *ir.Expr, in *lattice.CPFact) lattice.CPValue {
	v1 := Evaluate(e.Operand1, in)
	v2 := Evaluate(e.Operand2, in)

	if (e.Op == ir.DIV || e.Op == ir.REM) && v2.IsConst() && v2.C == 0 {
		return lattice.Undef
	}
	if v1.IsConst() && v2.IsConst() {
		return foldConst(e.Op, v1.C, v2.C)
	}
	if v1.IsNAC() || v2.IsNAC() {
		return lattice.Nac
	}
	return lattice.Undef
}

func foldConst(op ir.BinOp, a, b int32) lattice.CPValue {
	switch op {
	case ir.ADD:
		return lattice.Const(a + b)
	case ir.SUB:
		return lattice.Const(a - b)
	case ir.MUL:
		return lattice.Const(a * b)
	case ir.DIV:
		return lattice.Const(a / b)
	case ir.REM:
		return lattice.Const(a % b)
	case ir.SHL:
		return lattice.Const(a << (uint32(b) & 0x1f))
	case ir.SHR:
		return lattice.Const(a >> (uint32(b) & 0x1f))
	case ir.USHR:
		return lattice.Const(int32(uint32(a) >> (uint32(b) & 0x1f)))
	case ir.AND:
		return lattice.Const(a & b)
	case ir.OR:
		return lattice.Const(a | b)
	case ir.XOR:
		return lattice.Const(a ^ b)
	case ir.EQ:
		return boolConst(a == b)
	case ir.NE:
		return boolConst(a != b)
	case ir.LT:
		return boolConst(a < b)
	case ir.LE:
		return boolConst(a <= b)
	case ir.GT:
		return boolConst(a > b)
	case ir.GE:
		return boolConst(a >= b)
	default:
		panic("constprop: unknown binary operator")
	}
}

func boolConst(b bool) lattice.CPValue {
	if b {
		return lattice.Const(1)
	}
	return lattice.Const(0)
}

// Solve runs the forward worklist solver over m's CFG.
func Solve(m *ir.Method) *dataflow.Result {
	return dataflow.SolveForward(m, New(m))
}
