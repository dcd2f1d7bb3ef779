package ir

// StmtKind discriminates Stmt variants (spec §6).
type StmtKind int

const (
	StmtAssign StmtKind = iota
	StmtCopy
	StmtNew
	StmtLoadField
	StmtStoreField
	StmtLoadArray
	StmtStoreArray
	StmtInvoke
	StmtIf
	StmtSwitch
	StmtReturn
	StmtNop // entry/exit sentinel
)

// Stmt is a single IR instruction. Every statement carries a stable index
// (spec §6) used to produce deterministic orderings (dead-code reporting,
// taint-flow reporting).
type Stmt struct {
	Index  int
	Kind   StmtKind
	Method *Method

	// definitions / uses, kind-dependent
	LHSVar  *Var  // Assign, Copy, New, LoadField, LoadArray, Invoke (nil if no result)
	RHS     *Expr // Assign RHS; If condition; Switch selector
	CopyRHS *Var  // Copy source

	// StoreField / LoadField
	FieldBase *Var // nil for static
	Field     *FieldRef
	FieldCls  *Class // declaring class for static field access

	// StoreArray / LoadArray
	ArrayBase  *Var
	ArrayIndex *Expr
	StoreValue *Var // value stored (StoreField/StoreArray)

	// Invoke
	InvokeExp *InvokeExp

	// Return
	ReturnVars []*Var // variables returned (spec §3: Return edges carry callee return vars)

	// If: target statement indices for each branch (also present, in
	// some order, among succs/preds).
	IfTrueTarget  int
	IfFalseTarget int

	// Switch
	CaseTargets []SwitchCase
	DefaultIdx  int // index of default target's statement, -1 if none

	succs []int // successor statement indices within the same CFG
	preds []int
}

// SwitchCase pairs a constant case value with the index of its target
// statement.
type SwitchCase struct {
	Value  int32
	Target int
}

// IsDefinition reports whether the statement defines LHSVar.
func (s *Stmt) IsDefinition() bool {
	switch s.Kind {
	case StmtAssign, StmtCopy, StmtNew, StmtLoadField, StmtLoadArray:
		return s.LHSVar != nil
	case StmtInvoke:
		return s.LHSVar != nil
	}
	return false
}

// Uses returns the variables read by this statement (used by liveness,
// spec §4.4).
func (s *Stmt) Uses() []*Var {
	var out []*Var
	add := func(v *Var) {
		if v != nil {
			out = append(out, v)
		}
	}
	switch s.Kind {
	case StmtAssign:
		out = append(out, exprUses(s.RHS)...)
	case StmtCopy:
		add(s.CopyRHS)
	case StmtLoadField:
		add(s.FieldBase)
	case StmtStoreField:
		add(s.FieldBase)
		add(s.StoreValue)
	case StmtLoadArray:
		add(s.ArrayBase)
		out = append(out, exprUses(s.ArrayIndex)...)
	case StmtStoreArray:
		add(s.ArrayBase)
		out = append(out, exprUses(s.ArrayIndex)...)
		add(s.StoreValue)
	case StmtInvoke:
		out = append(out, invokeUses(s.InvokeExp)...)
	case StmtIf:
		out = append(out, exprUses(s.RHS)...)
	case StmtSwitch:
		out = append(out, exprUses(s.RHS)...)
	case StmtReturn:
		out = append(out, s.ReturnVars...)
	}
	return out
}

// Defs returns the variables this statement defines (used by liveness).
func (s *Stmt) Defs() []*Var {
	if s.IsDefinition() && s.LHSVar != nil {
		return []*Var{s.LHSVar}
	}
	return nil
}

func invokeUses(inv *InvokeExp) []*Var {
	if inv == nil {
		return nil
	}
	var out []*Var
	if inv.Base != nil {
		out = append(out, inv.Base)
	}
	out = append(out, inv.Args...)
	return out
}

func exprUses(e *Expr) []*Var {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ExprVar:
		return []*Var{e.Var}
	case ExprBinary:
		return append(exprUses(e.Operand1), exprUses(e.Operand2)...)
	case ExprInstanceFieldAccess:
		if e.Base != nil {
			return []*Var{e.Base}
		}
	case ExprArrayAccess:
		out := []*Var{e.ArrayBase}
		return append(out, exprUses(e.ArrayIndex)...)
	case ExprInvoke:
		return invokeUses(e.Invoke)
	}
	return nil
}

// HasSideEffect reports whether evaluating/executing this statement can
// observably affect the program beyond its own LHS — allocation, cast,
// field/array access, or division/remainder (may trap on zero). Used by
// dead-code detection (spec §4.5).
func (s *Stmt) HasSideEffect() bool {
	if s.Kind == StmtAssign {
		return exprHasSideEffect(s.RHS)
	}
	// New/LoadField/LoadArray/StoreField/StoreArray/Invoke are always
	// considered to have a side effect by the spec's definition; only
	// AssignStmt is examined for dead-code elision.
	return true
}

func exprHasSideEffect(e *Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ExprNew, ExprCast, ExprInstanceFieldAccess, ExprStaticFieldAccess, ExprArrayAccess, ExprInvoke:
		return true
	case ExprBinary:
		if e.Op == DIV || e.Op == REM {
			return true
		}
		return exprHasSideEffect(e.Operand1) || exprHasSideEffect(e.Operand2)
	}
	return false
}

// AddSucc / AddPred wire CFG edges between statements of the same Method.
func (s *Stmt) AddSucc(idx int) { s.succs = append(s.succs, idx) }
func (s *Stmt) AddPred(idx int) { s.preds = append(s.preds, idx) }

// Succs returns successor statement indices within the method's CFG.
func (s *Stmt) Succs() []int { return s.succs }

// Preds returns predecessor statement indices within the method's CFG.
func (s *Stmt) Preds() []int { return s.preds }
