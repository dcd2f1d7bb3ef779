package ir

// Method is a CFG-bearing procedure: a flat statement list plus the edges
// recorded on each Stmt. Entry and Exit are the statements passed to
// Builder.Finish; Exit is a distinguished StmtNop so dead-code detection can
// exclude it (spec §4.5 "excluding the CFG exit").
type Method struct {
	Name           string
	DeclaringClass *Class
	Subsignature   Subsignature
	Params         []*Var
	ThisVar        *Var // nil for static methods
	Locals         []*Var
	IsStatic       bool
	IsAbstract     bool
	Stmts          []*Stmt

	entry *Stmt
	exit  *Stmt
}

// Vars returns every local/parameter declared in the method.
func (m *Method) Vars() []*Var { return m.Locals }

// NewVar declares a new local/parameter, assigning it a dense,
// method-scoped id.
func (m *Method) NewVar(name string, typ *Type) *Var {
	v := &Var{Name: name, Type: typ, ID: len(m.Locals), Method: m}
	m.Locals = append(m.Locals, v)
	return v
}

// NewParam declares a new formal parameter, which is also a local.
func (m *Method) NewParam(name string, typ *Type) *Var {
	v := m.NewVar(name, typ)
	m.Params = append(m.Params, v)
	return v
}

// NewThis declares the distinguished receiver variable of an instance
// method.
func (m *Method) NewThis(typ *Type) *Var {
	v := m.NewVar("this", typ)
	m.ThisVar = v
	return v
}

// StmtByIndex looks up a statement by its stable index within the method.
func (m *Method) StmtByIndex(i int) *Stmt {
	if i < 0 || i >= len(m.Stmts) {
		return nil
	}
	return m.Stmts[i]
}

// Entry returns the CFG entry node (spec §3 "distinguished entry/exit per
// method").
func (m *Method) Entry() *Stmt { return m.entry }

// Exit returns the CFG exit node.
func (m *Method) Exit() *Stmt { return m.exit }

// Nodes returns every statement in the method, in index order.
func (m *Method) Nodes() []*Stmt { return m.Stmts }

// Preds returns the predecessor statements of s within this method's CFG.
func (m *Method) Preds(s *Stmt) []*Stmt {
	out := make([]*Stmt, 0, len(s.preds))
	for _, i := range s.preds {
		out = append(out, m.Stmts[i])
	}
	return out
}

// ReturnStmts returns every Return statement in the method.
func (m *Method) ReturnStmts() []*Stmt {
	var out []*Stmt
	for _, s := range m.Stmts {
		if s.Kind == StmtReturn {
			out = append(out, s)
		}
	}
	return out
}

// Succs returns the successor statements of s within this method's CFG.
func (m *Method) Succs(s *Stmt) []*Stmt {
	out := make([]*Stmt, 0, len(s.succs))
	for _, i := range s.succs {
		out = append(out, m.Stmts[i])
	}
	return out
}

// Class models a declaring type: a name, its super class, the interfaces
// it implements/extends, whether it is itself an interface, and the
// methods it declares. Mirrors the shape of the teacher's graph.Type
// (Implements/Extends string lists + declared Methods), repurposed as a
// class-hierarchy collaborator rather than a parsed-source description.
type Class struct {
	Name       string
	IsIntf     bool
	IsAbs      bool
	Super      *Class
	Interfaces []*Class // directly implemented/extended interfaces
	Methods    []*Method

	methodBySubsig map[Subsignature]*Method
}

func NewClass(name string, isInterface, isAbstract bool) *Class {
	return &Class{Name: name, IsIntf: isInterface, IsAbs: isAbstract, methodBySubsig: map[Subsignature]*Method{}}
}

// AddMethod registers a declared method, indexing it by subsignature for
// DeclaredMethod lookups.
func (c *Class) AddMethod(m *Method) {
	m.DeclaringClass = c
	c.Methods = append(c.Methods, m)
	if c.methodBySubsig == nil {
		c.methodBySubsig = map[Subsignature]*Method{}
	}
	c.methodBySubsig[m.Subsignature] = m
}

// DeclaredMethod returns the method this class itself declares for the
// given subsignature, or nil if none (spec §6 getDeclaredMethod).
func (c *Class) DeclaredMethod(sub Subsignature) *Method {
	if c == nil {
		return nil
	}
	return c.methodBySubsig[sub]
}

func (c *Class) String() string { return c.Name }
