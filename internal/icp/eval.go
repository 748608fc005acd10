// Package icp implements intraprocedural constant propagation: evaluating
// expressions against a CPFact (spec §4.2) and running the method-local
// forward dataflow to a fixed point (spec §4.1) via internal/dataflow.
package icp

import (
	"staticore/internal/fact"
	"staticore/internal/ir"
	"staticore/internal/lattice"
)

// Eval computes the abstract value of expr under in. Every Expr case is
// covered explicitly; anything this package doesn't know how to reason
// about precisely (casts, array/field loads without alias information)
// falls through to the safe NAC default (spec §9's exhaustive-switch-with-
// safe-default design note) — precise field/array values are only available
// once internal/icpi layers heap information on top of this evaluator.
func Eval(expr ir.Expr, in *fact.CPFact) lattice.Value {
	switch e := expr.(type) {
	case ir.VarExpr:
		if !ir.CanHoldInt(e.V.Type) {
			return lattice.NACVal()
		}
		return in.Get(e.V.Name)
	case ir.ConstExpr:
		return lattice.ConstVal(e.Value)
	case ir.BinaryExpr:
		x := Eval(e.X, in)
		y := Eval(e.Y, in)
		return lattice.ApplyAbstract(e.Op, x, y)
	default:
		// StaticFieldExpr, InstanceFieldExpr, ArrayAccessExpr, CastExpr.
		return lattice.NACVal()
	}
}
