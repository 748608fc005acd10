package dcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/ir"
	"staticore/internal/lattice"
)

// x = 1                    (idx 1; idx 0 is the Entry sentinel)
// if x > 0 goto 3 else 4   -- folds to true, else-branch (idx 4) is dead
// return 2                 (idx 3, reachable)
// y = 5                    (idx 4, unreachable dead code)
// return y                 (idx 5, reached only through idx 4)
func TestUnreachableBranchDetected(t *testing.T) {
	c := &ir.Class{Name: "C"}
	m := &ir.Method{Declaring: c, Name: "m"}
	x := m.NewVar("x", ir.Int)
	y := m.NewVar("y", ir.Int)

	body := []ir.Stmt{
		&ir.Assign{LHS: x, RHS: ir.ConstExpr{Value: 1}},
		&ir.If{Cond: ir.BinaryExpr{Op: lattice.Gt, X: ir.VarExpr{V: x}, Y: ir.ConstExpr{Value: 0}}, Then: 3, Else: 4},
		&ir.Return{Value: ir.ConstExpr{Value: 2}},
		&ir.Assign{LHS: y, RHS: ir.ConstExpr{Value: 5}},
		&ir.Return{Value: ir.VarExpr{V: y}},
	}
	m.CFG = ir.NewCFG(body)

	res := Analyze(m)
	assert.Contains(t, res.UnreachableStmts, 4)
	assert.NotContains(t, res.UnreachableStmts, 3)
}

// x = 1        (idx 1: overwritten at idx 2 before any use, so useless)
// x = 2        (idx 2: read by the return, so live)
// return x
func TestUselessAssignmentDetected(t *testing.T) {
	c := &ir.Class{Name: "C"}
	m := &ir.Method{Declaring: c, Name: "m"}
	x := m.NewVar("x", ir.Int)

	body := []ir.Stmt{
		&ir.Assign{LHS: x, RHS: ir.ConstExpr{Value: 1}},
		&ir.Assign{LHS: x, RHS: ir.ConstExpr{Value: 2}},
		&ir.Return{Value: ir.VarExpr{V: x}},
	}
	m.CFG = ir.NewCFG(body)

	res := Analyze(m)
	assert.Contains(t, res.UselessAssigns, 1)
}

func TestSideEffectingAssignmentNeverFlagged(t *testing.T) {
	c := &ir.Class{Name: "C"}
	m := &ir.Method{Declaring: c, Name: "m"}
	x := m.NewVar("x", ir.Int)
	base := m.NewVar("base", ir.ClassType{Class: c})

	body := []ir.Stmt{
		&ir.Assign{LHS: x, RHS: ir.InstanceFieldExpr{Base: base, Field: &ir.Field{Name: "f", Declaring: c}}},
		&ir.Assign{LHS: x, RHS: ir.ConstExpr{Value: 0}},
		&ir.Return{},
	}
	m.CFG = ir.NewCFG(body)

	res := Analyze(m)
	assert.NotContains(t, res.UselessAssigns, 1)
}
