package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/lattice"
)

func newTestMethod() *Method {
	c := &Class{Name: "C"}
	m := &Method{Declaring: c, Name: "m"}
	c.Methods = append(c.Methods, m)
	return m
}

func TestCFGLinearFallthrough(t *testing.T) {
	m := newTestMethod()
	x := m.NewVar("x", Int)
	body := []Stmt{
		&Assign{LHS: x, RHS: ConstExpr{Value: 1}},
		&Return{Value: VarExpr{V: x}},
	}
	cfg := NewCFG(body)
	m.CFG = cfg

	assert.Equal(t, 4, cfg.NumNodes()) // entry, assign, return, exit
	assert.Equal(t, []int{1}, cfg.Succs(cfg.Entry))
	assert.Equal(t, []int{2}, cfg.Succs(1))
	assert.Equal(t, []int{cfg.Exit}, cfg.Succs(2))
	assert.Equal(t, []int{2}, cfg.Preds(cfg.Exit))
}

func TestCFGIfBranches(t *testing.T) {
	m := newTestMethod()
	x := m.NewVar("x", Int)
	body := []Stmt{
		&If{Cond: BinaryExpr{Op: lattice.Gt, X: VarExpr{V: x}, Y: ConstExpr{Value: 0}}, Then: 3, Else: 2},
		&Return{Value: ConstExpr{Value: 0}},
		&Return{Value: ConstExpr{Value: 1}},
	}
	cfg := NewCFG(body)

	ifIdx := 1
	assert.ElementsMatch(t, []int{3, 2}, cfg.Succs(ifIdx))
}

func TestCFGRemoveEdgePrunesBranch(t *testing.T) {
	body := []Stmt{
		&If{Cond: ConstExpr{Value: 0}, Then: 3, Else: 2},
		&Return{Value: ConstExpr{Value: 0}},
		&Return{Value: ConstExpr{Value: 1}},
	}
	cfg := NewCFG(body)
	cfg.RemoveEdge(1, 3)
	assert.Equal(t, []int{2}, cfg.Succs(1))
	assert.NotContains(t, cfg.Preds(3), 1)
}

func TestHasSideEffect(t *testing.T) {
	m := newTestMethod()
	x := m.NewVar("x", Int)
	y := m.NewVar("y", Int)

	assert.False(t, HasSideEffect(&Assign{LHS: x, RHS: VarExpr{V: y}}))
	assert.False(t, HasSideEffect(&Assign{LHS: x, RHS: BinaryExpr{Op: lattice.Add, X: VarExpr{V: y}, Y: ConstExpr{Value: 1}}}))
	assert.True(t, HasSideEffect(&Assign{LHS: x, RHS: BinaryExpr{Op: lattice.Div, X: VarExpr{V: y}, Y: ConstExpr{Value: 1}}}))
	assert.True(t, HasSideEffect(&New{LHS: x, Class: &Class{Name: "D"}}))
	assert.True(t, HasSideEffect(&Assign{LHS: x, RHS: InstanceFieldExpr{Base: y, Field: &Field{Name: "f"}}}))
	assert.True(t, HasSideEffect(&Assign{LHS: x, RHS: CastExpr{Operand: y, To: Int}}))
}

func TestSubsigIncludesParamsAndReturn(t *testing.T) {
	sig := Subsig("foo", []Type{Int, Boolean}, Int)
	assert.Equal(t, "foo(int,boolean):int", sig)

	voidSig := Subsig("bar", nil, nil)
	assert.Equal(t, "bar()", voidSig)
}
