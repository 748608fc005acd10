package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeetLaws(t *testing.T) {
	a := ConstVal(7)
	assert.True(t, Meet(a, NACVal()).IsNAC())
	assert.True(t, Meet(a, UndefVal()).Equal(a))
	assert.True(t, Meet(a, a).Equal(a))

	// commutative
	b := ConstVal(3)
	assert.True(t, Meet(a, b).Equal(Meet(b, a)))

	// associative
	c := ConstVal(3)
	lhs := Meet(Meet(a, b), c)
	rhs := Meet(a, Meet(b, c))
	assert.True(t, lhs.Equal(rhs))

	// differing constants go to NAC
	assert.True(t, Meet(ConstVal(1), ConstVal(2)).IsNAC())
}

func TestApplyAbstractDivByZero(t *testing.T) {
	// CONST/CONST(0) -> Undef
	assert.True(t, ApplyAbstract(Div, ConstVal(5), ConstVal(0)).IsUndef())
	// NAC/CONST(0) -> still Undef, the trap happens before the dividend is read
	assert.True(t, ApplyAbstract(Div, NACVal(), ConstVal(0)).IsUndef())
	// NAC/NAC -> NAC
	assert.True(t, ApplyAbstract(Div, NACVal(), NACVal()).IsNAC())
}

func TestApplyWraparoundAndShift(t *testing.T) {
	assert.Equal(t, int32(-2147483647), Apply(Add, 2147483647, 2).Int()) // wraps
	assert.Equal(t, int32(2), Apply(Shl, 1, 33).Int())         // low 5 bits of shift amount: 33&31=1
	v := Apply(UShr, -1, 28)
	assert.Equal(t, int32(15), v.Int())
}
