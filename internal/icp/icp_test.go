package icp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/ir"
	"staticore/internal/lattice"
)

// buildMethod constructs:
//   x = 1
//   y = x + 2
//   if y > 0 goto 5 else 4
//   y = 99         (statement 4, unreached in the straight-line sense but
//                    still analyzed — CP doesn't prune paths, DCD does)
//   return y
func buildMethod() *ir.Method {
	c := &ir.Class{Name: "C"}
	m := &ir.Method{Declaring: c, Name: "m"}
	x := m.NewVar("x", ir.Int)
	y := m.NewVar("y", ir.Int)

	body := []ir.Stmt{
		&ir.Assign{LHS: x, RHS: ir.ConstExpr{Value: 1}},
		&ir.Assign{LHS: y, RHS: ir.BinaryExpr{Op: lattice.Add, X: ir.VarExpr{V: x}, Y: ir.ConstExpr{Value: 2}}},
		&ir.If{Cond: ir.BinaryExpr{Op: lattice.Gt, X: ir.VarExpr{V: y}, Y: ir.ConstExpr{Value: 0}}, Then: 5, Else: 4},
		&ir.Assign{LHS: y, RHS: ir.ConstExpr{Value: 99}},
		&ir.Return{Value: ir.VarExpr{V: y}},
	}
	m.CFG = ir.NewCFG(body)
	return m
}

func TestConstantsPropagateThroughStraightLine(t *testing.T) {
	m := buildMethod()
	res := Solve(m)

	// In-fact at the if (index 3: entry=0,x=1,y=2,if=3).
	inAtIf := FactAt(res, 3)
	assert.True(t, inAtIf.Get("x").Equal(lattice.ConstVal(1)))
	assert.True(t, inAtIf.Get("y").Equal(lattice.ConstVal(3)))
}

func TestMergeAtReturnWidensToNAC(t *testing.T) {
	m := buildMethod()
	res := Solve(m)

	// return is index 5; y is 3 on one path and 99 on the other -> NAC.
	inAtReturn := FactAt(res, 5)
	assert.True(t, inAtReturn.Get("y").IsNAC())
	// x is never redefined on either path, stays CONST(1).
	assert.True(t, inAtReturn.Get("x").Equal(lattice.ConstVal(1)))
}

func TestParameterStartsNAC(t *testing.T) {
	c := &ir.Class{Name: "C"}
	m := &ir.Method{Declaring: c, Name: "m"}
	p := m.NewVar("p", ir.Int)
	m.Params = []*ir.Var{p}
	body := []ir.Stmt{
		&ir.Return{Value: ir.VarExpr{V: p}},
	}
	m.CFG = ir.NewCFG(body)

	res := Solve(m)
	inAtReturn := FactAt(res, 1)
	assert.True(t, inAtReturn.Get("p").IsNAC())
}
