package ir

import (
	"fmt"
	"strings"
)

// StmtKind tags the exhaustive statement shapes the PTA StmtProcessor
// (internal/pta), the DCD side-effect/reachability walk (internal/dcd), and
// the ICFG transfer (internal/icpi) all switch over.
type StmtKind uint8

const (
	StmtNop StmtKind = iota
	StmtAssign
	StmtNew
	StmtStoreStaticField
	StmtStoreField
	StmtStoreArray
	StmtInvoke
	StmtIf
	StmtGoto
	StmtSwitch
	StmtReturn
)

// Stmt is any IR statement. Index is the statement's position in its
// method's CFG (spec §6, "Dead-code set (sorted by statement index)").
type Stmt interface {
	Kind() StmtKind
	Index() int
	setIndex(int)
	String() string
}

type base struct{ idx int }

func (b *base) Index() int      { return b.idx }
func (b *base) setIndex(i int)  { b.idx = i }

// Nop is the synthetic entry/exit sentinel, and a stand-in for a label with
// no payload statement.
type Nop struct{ base }

func (*Nop) Kind() StmtKind  { return StmtNop }
func (*Nop) String() string  { return "nop" }

// Assign covers every value-producing definition: literal/copy assignment,
// binary operations, and field/array loads. Which of those it is follows
// entirely from RHS.Kind() (spec's variant-IR-node design note).
type Assign struct {
	base
	LHS *Var
	RHS Expr
}

func (*Assign) Kind() StmtKind { return StmtAssign }
func (s *Assign) String() string {
	return fmt.Sprintf("%s = %s", s.LHS, s.RHS)
}

// InvokeKind distinguishes the four call-resolution strategies of spec §4.4.
type InvokeKind uint8

const (
	InvokeStatic InvokeKind = iota
	InvokeSpecial
	InvokeVirtual
	InvokeInterface
)

func (k InvokeKind) String() string {
	switch k {
	case InvokeStatic:
		return "staticcall"
	case InvokeSpecial:
		return "specialcall"
	case InvokeVirtual:
		return "call"
	case InvokeInterface:
		return "icall"
	default:
		return "?call"
	}
}

// MethodRef names a call target the way source/IR would: declaring class +
// subsignature, resolved against the class hierarchy at CHA/PTA time, not
// at IR-construction time (spec §4.4).
type MethodRef struct {
	Declaring *Class
	Subsig    string
}

func (r MethodRef) String() string { return r.Declaring.Name + "." + r.Subsig }

// New allocates an object of Class at this statement (the allocation site
// the heap model keys off — spec §3 Pointer, §6 heap model).
type New struct {
	base
	LHS   *Var
	Class *Class
}

func (*New) Kind() StmtKind { return StmtNew }
func (s *New) String() string {
	return fmt.Sprintf("%s = new %s", s.LHS, s.Class.Name)
}

// StoreStaticField is `C.f = rhs`.
type StoreStaticField struct {
	base
	Field *Field
	RHS   Expr
}

func (*StoreStaticField) Kind() StmtKind { return StmtStoreStaticField }
func (s *StoreStaticField) String() string {
	return fmt.Sprintf("%s = %s", s.Field, s.RHS)
}

// StoreField is `base.f = rhs`.
type StoreField struct {
	base
	Base  *Var
	Field *Field
	RHS   Expr
}

func (*StoreField) Kind() StmtKind { return StmtStoreField }
func (s *StoreField) String() string {
	return fmt.Sprintf("%s.%s = %s", s.Base, s.Field.Name, s.RHS)
}

// StoreArray is `base[idx] = rhs`.
type StoreArray struct {
	base
	Base  *Var
	Index Expr
	RHS   Expr
}

func (*StoreArray) Kind() StmtKind { return StmtStoreArray }
func (s *StoreArray) String() string {
	return fmt.Sprintf("%s[%s] = %s", s.Base, s.Index, s.RHS)
}

// Invoke is a call statement. LHS is nil when the result is discarded.
// Recv is nil for InvokeStatic.
type Invoke struct {
	base
	LHS    *Var
	Kind_  InvokeKind
	Recv   *Var
	Method MethodRef
	Args   []*Var
}

func (*Invoke) Kind() StmtKind { return StmtInvoke }
func (s *Invoke) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.Name
	}
	recv := ""
	if s.Recv != nil {
		recv = s.Recv.Name + "."
	}
	call := fmt.Sprintf("%s %s%s(%s)", s.Kind_, recv, s.Method.Subsig, strings.Join(args, ", "))
	if s.LHS != nil {
		return fmt.Sprintf("%s = %s", s.LHS, call)
	}
	return call
}

// If branches on Cond (typically a BinaryExpr comparison, but any Expr
// evaluable to CONST(0) or CONST(1) is accepted — spec §4.3's unreachable-
// branch rule cares only about Cond's abstract value, not its shape).
type If struct {
	base
	Cond       Expr
	Then, Else int // target statement indices
}

func (*If) Kind() StmtKind { return StmtIf }
func (s *If) String() string {
	return fmt.Sprintf("if %s goto %d else %d", s.Cond, s.Then, s.Else)
}

// Goto is an unconditional jump.
type Goto struct {
	base
	Target int
}

func (*Goto) Kind() StmtKind  { return StmtGoto }
func (s *Goto) String() string { return fmt.Sprintf("goto %d", s.Target) }

// SwitchCase maps one constant selector value to a target.
type SwitchCase struct {
	Value  int32
	Target int
}

// Switch branches on Operand matching one of Cases, or Default otherwise.
type Switch struct {
	base
	Operand Expr
	Cases   []SwitchCase
	Default int
}

func (*Switch) Kind() StmtKind { return StmtSwitch }
func (s *Switch) String() string {
	parts := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		parts[i] = fmt.Sprintf("%d:%d", c.Value, c.Target)
	}
	return fmt.Sprintf("switch %s {%s default:%d}", s.Operand, strings.Join(parts, " "), s.Default)
}

// Return terminates the method. Value is nil for a void return.
type Return struct {
	base
	Value Expr
}

func (*Return) Kind() StmtKind { return StmtReturn }
func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", s.Value)
}

// HasSideEffect reports whether stmt is a def-statement the dead-code
// detector must never remove even when its LHS is dead (spec §4.3): object
// allocation, cast, any field access, array access, and integer
// division/remainder may all trap or (for static fields) trigger class
// initialization.
func HasSideEffect(stmt Stmt) bool {
	switch s := stmt.(type) {
	case *New:
		return true
	case *Assign:
		switch rhs := s.RHS.(type) {
		case CastExpr:
			return true
		case StaticFieldExpr, InstanceFieldExpr, ArrayAccessExpr:
			return true
		case BinaryExpr:
			return rhs.Op.IsDiv()
		default:
			return false
		}
	default:
		return false
	}
}
