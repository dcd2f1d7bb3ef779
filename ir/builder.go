package ir

// Builder assembles a Method's CFG from a flat statement list plus explicit
// edges, and back-fills each Var's store/load/invoke statement lists so the
// points-to solver (spec §4.7) can enumerate them lazily. Front ends (out
// of scope for this module) or tests use it to hand-construct small
// programs.
type Builder struct {
	method *Method
	index  int
}

func NewBuilder(m *Method) *Builder {
	return &Builder{method: m}
}

// Add appends a statement, assigning it the next stable index.
func (b *Builder) Add(s *Stmt) *Stmt {
	s.Index = b.index
	b.index++
	s.Method = b.method
	b.method.Stmts = append(b.method.Stmts, s)
	return s
}

// Edge records a CFG edge between two already-added statements.
func (b *Builder) Edge(from, to *Stmt) {
	from.AddSucc(to.Index)
	to.AddPred(from.Index)
}

// Finish sets Entry/Exit and indexes variable store/load/invoke lists.
// Exit must be a StmtNop with no outgoing edges (spec §4.5 excludes it from
// dead code).
func (b *Builder) Finish(entry, exit *Stmt) *Method {
	b.method.entry = entry
	b.method.exit = exit
	for _, s := range b.method.Stmts {
		indexVarAccesses(s)
	}
	return b.method
}

func indexVarAccesses(s *Stmt) {
	switch s.Kind {
	case StmtLoadField:
		if s.FieldBase != nil {
			s.FieldBase.loadFields = append(s.FieldBase.loadFields, s)
		}
	case StmtStoreField:
		if s.FieldBase != nil {
			s.FieldBase.storeFields = append(s.FieldBase.storeFields, s)
		}
	case StmtLoadArray:
		if s.ArrayBase != nil {
			s.ArrayBase.loadArrays = append(s.ArrayBase.loadArrays, s)
		}
	case StmtStoreArray:
		if s.ArrayBase != nil {
			s.ArrayBase.storeArrays = append(s.ArrayBase.storeArrays, s)
		}
	case StmtInvoke:
		if s.InvokeExp != nil && s.InvokeExp.Base != nil {
			s.InvokeExp.Base.invokes = append(s.InvokeExp.Base.invokes, s)
		}
	case StmtAssign:
		indexExprFieldArrayAccess(s, s.RHS)
	}
}

// indexExprFieldArrayAccess covers field/array reads that appear as
// sub-expressions of an Assign RHS rather than a dedicated LoadField/
// LoadArray statement kind; staticflow keeps both statement-level and
// expression-level access so constant propagation's evaluate() and the
// points-to solver's lazy field processing see a consistent view.
func indexExprFieldArrayAccess(s *Stmt, e *Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ExprInstanceFieldAccess:
		if e.Base != nil {
			e.Base.loadFields = append(e.Base.loadFields, s)
		}
	case ExprArrayAccess:
		if e.ArrayBase != nil {
			e.ArrayBase.loadArrays = append(e.ArrayBase.loadArrays, s)
		}
	case ExprBinary:
		indexExprFieldArrayAccess(s, e.Operand1)
		indexExprFieldArrayAccess(s, e.Operand2)
	}
}
