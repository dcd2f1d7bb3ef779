// Package ir provides a small, concrete intermediate representation that
// implements the collaborator contracts the analysis engine consumes
// (statements, expressions, variables, methods). IR construction from
// source or bytecode is out of scope for this module; callers build an
// *ir.Method (and its *ir.Class owners) the way a front end would, or tests
// build one by hand.
package ir

// Type identifies the handful of primitive kinds the engine cares about.
// Only integer-holding primitives participate in constant propagation;
// everything else is an opaque reference type.
type Type struct {
	Name      string
	IsInteger bool
}

var (
	TypeByte    = &Type{Name: "byte", IsInteger: true}
	TypeShort   = &Type{Name: "short", IsInteger: true}
	TypeInt     = &Type{Name: "int", IsInteger: true}
	TypeChar    = &Type{Name: "char", IsInteger: true}
	TypeBoolean = &Type{Name: "boolean", IsInteger: true}
	TypeRef     = &Type{Name: "ref", IsInteger: false}
)

// CanHoldInt reports whether a variable of this type participates in
// constant propagation (spec §6 "can hold int" predicate).
func (t *Type) CanHoldInt() bool {
	return t != nil && t.IsInteger
}

// Var is a local variable or parameter of a Method.
type Var struct {
	Name string
	Type *Type
	// ID is a small, method-scoped identifier assigned by Method.NewVar,
	// dense enough to index an intsets.Sparse-backed set (package
	// lattice's SetFact keys live-variable sets by it).
	ID     int
	Method *Method

	storeFields []*Stmt
	loadFields  []*Stmt
	storeArrays []*Stmt
	loadArrays  []*Stmt
	invokes     []*Stmt
}

func (v *Var) String() string { return v.Name }

// StoreFieldStmts returns statements that store into an instance/static
// field through this variable as base.
func (v *Var) StoreFieldStmts() []*Stmt { return v.storeFields }

// LoadFieldStmts returns statements that load an instance/static field
// through this variable as base.
func (v *Var) LoadFieldStmts() []*Stmt { return v.loadFields }

// StoreArrayStmts returns statements that store into an array through this
// variable.
func (v *Var) StoreArrayStmts() []*Stmt { return v.storeArrays }

// LoadArrayStmts returns statements that load from an array through this
// variable.
func (v *Var) LoadArrayStmts() []*Stmt { return v.loadArrays }

// InvokeStmts returns the Invoke statements whose InvokeExp uses this
// variable as receiver (base). Static calls have no base and are not listed
// under any variable.
func (v *Var) InvokeStmts() []*Stmt { return v.invokes }

// FieldRef names a field, independent of the class declaring it.
type FieldRef struct {
	Name string
	Type *Type
}

// Subsignature is a method name + parameter/return shape, used for virtual
// dispatch lookups that ignore the declaring class.
type Subsignature string
