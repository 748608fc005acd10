package ir

import (
	"fmt"

	"staticore/internal/lattice"
)

// ExprKind tags the exhaustive set of expression shapes the evaluator
// (internal/icp) and the heap-aware evaluator (internal/icpi) dispatch on.
// A switch over Kind with a safe NAC default is the contract (spec §9,
// "exhaustive coverage with a safe default").
type ExprKind uint8

const (
	ExprVar ExprKind = iota
	ExprConst
	ExprBinary
	ExprStaticField
	ExprInstanceField
	ExprArrayAccess
	ExprCast
)

// Expr is any IR expression appearing as the right-hand side of an
// assignment or as a branch/switch operand.
type Expr interface {
	Kind() ExprKind
	String() string
}

// VarExpr reads a local variable.
type VarExpr struct{ V *Var }

func (VarExpr) Kind() ExprKind    { return ExprVar }
func (e VarExpr) String() string  { return e.V.Name }

// ConstExpr is an integer literal.
type ConstExpr struct{ Value int32 }

func (ConstExpr) Kind() ExprKind   { return ExprConst }
func (e ConstExpr) String() string { return fmt.Sprintf("%d", e.Value) }

// BinaryExpr applies a binary operator to two sub-expressions (each either
// a VarExpr or a ConstExpr in practice, but the type allows nesting).
type BinaryExpr struct {
	Op   lattice.BinOp
	X, Y Expr
}

func (BinaryExpr) Kind() ExprKind { return ExprBinary }
func (e BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.X, opSymbol(e.Op), e.Y)
}

func opSymbol(op lattice.BinOp) string {
	switch op {
	case lattice.Add:
		return "+"
	case lattice.Sub:
		return "-"
	case lattice.Mul:
		return "*"
	case lattice.Div:
		return "/"
	case lattice.Rem:
		return "%"
	case lattice.And:
		return "&"
	case lattice.Or:
		return "|"
	case lattice.Xor:
		return "^"
	case lattice.Shl:
		return "<<"
	case lattice.Shr:
		return ">>"
	case lattice.UShr:
		return ">>>"
	case lattice.Eq:
		return "=="
	case lattice.Ne:
		return "!="
	case lattice.Lt:
		return "<"
	case lattice.Le:
		return "<="
	case lattice.Gt:
		return ">"
	case lattice.Ge:
		return ">="
	default:
		return "?"
	}
}

// StaticFieldExpr reads a static field: `C.f`.
type StaticFieldExpr struct{ Field *Field }

func (StaticFieldExpr) Kind() ExprKind    { return ExprStaticField }
func (e StaticFieldExpr) String() string  { return e.Field.String() }

// InstanceFieldExpr reads an instance field off a base pointer: `base.f`.
type InstanceFieldExpr struct {
	Base  *Var
	Field *Field
}

func (InstanceFieldExpr) Kind() ExprKind { return ExprInstanceField }
func (e InstanceFieldExpr) String() string {
	return fmt.Sprintf("%s.%s", e.Base, e.Field.Name)
}

// ArrayAccessExpr reads an array slot: `base[idx]`. Index is an Expr since
// the index's abstract value (not just its syntax) drives the alias-aware
// array key convention (spec §4.7, §9).
type ArrayAccessExpr struct {
	Base  *Var
	Index Expr
}

func (ArrayAccessExpr) Kind() ExprKind { return ExprArrayAccess }
func (e ArrayAccessExpr) String() string {
	return fmt.Sprintf("%s[%s]", e.Base, e.Index)
}

// CastExpr narrows/widens a variable to Type. Casts may trap (spec §4.3)
// and are otherwise evaluated the same as the operand's current value would
// be by a sound cast — this engine treats a cast's result conservatively as
// NAC (no case in eval for ExprCast ⇒ falls to the safe default), preserving
// soundness without modeling narrowing precisely.
type CastExpr struct {
	Operand *Var
	To      Type
}

func (CastExpr) Kind() ExprKind   { return ExprCast }
func (e CastExpr) String() string { return fmt.Sprintf("(%s) %s", e.To, e.Operand) }
