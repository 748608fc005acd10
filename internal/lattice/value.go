// Package lattice implements the three-point constant-propagation lattice:
// UNDEF (bottom) ⊏ CONST(i) ⊏ NAC (top).
package lattice

import "fmt"

// Kind tags a Value's position in the lattice.
type Kind uint8

const (
	Undef Kind = iota
	Const
	NAC
)

// Value is an abstract integer value. The zero Value is Undef.
type Value struct {
	kind Kind
	num  int32
}

// UndefVal returns the bottom value.
func UndefVal() Value { return Value{kind: Undef} }

// NACVal returns the top value.
func NACVal() Value { return Value{kind: NAC} }

// ConstVal returns a known constant.
func ConstVal(n int32) Value { return Value{kind: Const, num: n} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsUndef() bool   { return v.kind == Undef }
func (v Value) IsConst() bool   { return v.kind == Const }
func (v Value) IsNAC() bool     { return v.kind == NAC }

// Int returns the constant payload. Only meaningful when IsConst().
func (v Value) Int() int32 { return v.num }

func (v Value) String() string {
	switch v.kind {
	case Undef:
		return "UNDEF"
	case NAC:
		return "NAC"
	default:
		return fmt.Sprintf("%d", v.num)
	}
}

// Equal is value equality: two CONSTs are equal only with the same payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	return v.kind != Const || v.num == o.num
}

// Meet computes the lattice meet (⊓) of two values. Commutative, associative,
// idempotent: meet(a, NAC) = NAC, meet(a, UNDEF) = a, meet(a, a) = a.
func Meet(a, b Value) Value {
	if a.kind == NAC || b.kind == NAC {
		return NACVal()
	}
	if a.kind == Undef {
		return b
	}
	if b.kind == Undef {
		return a
	}
	// both Const
	if a.num == b.num {
		return a
	}
	return NACVal()
}
