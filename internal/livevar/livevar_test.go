package livevar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/ir"
	"staticore/internal/lattice"
)

// x = 1        (idx 1: the value is read by y = x + 2)
// y = x + 2
// x = 3        (dead: x never read again)
// return y
func TestDeadAssignmentNotLiveAfter(t *testing.T) {
	c := &ir.Class{Name: "C"}
	m := &ir.Method{Declaring: c, Name: "m"}
	x := m.NewVar("x", ir.Int)
	y := m.NewVar("y", ir.Int)

	body := []ir.Stmt{
		&ir.Assign{LHS: x, RHS: ir.ConstExpr{Value: 1}},
		&ir.Assign{LHS: y, RHS: ir.BinaryExpr{Op: lattice.Add, X: ir.VarExpr{V: x}, Y: ir.ConstExpr{Value: 2}}},
		&ir.Assign{LHS: x, RHS: ir.ConstExpr{Value: 3}},
		&ir.Return{Value: ir.VarExpr{V: y}},
	}
	m.CFG = ir.NewCFG(body)
	res := Solve(m)

	// x is live before stmt 2 (used in y = x + 2)... stmt index: entry=0,
	// x=1 is idx1, y=x+2 is idx2, x=3 is idx3, return is idx4.
	assert.True(t, LiveIn(res, 2, x))
	// After the redefinition at idx3, x is never used again.
	assert.False(t, LiveIn(res, 4, x))
	assert.True(t, LiveIn(res, 4, y))
}
