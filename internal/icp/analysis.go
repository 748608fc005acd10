package icp

import (
	"staticore/internal/dataflow"
	"staticore/internal/fact"
	"staticore/internal/ir"
	"staticore/internal/lattice"
)

// Analysis is the forward constant-propagation dataflow (spec §4.1/§4.2),
// scoped to a single method: formal parameters and non-int-holding locals
// start (and stay) at their conservative boundary value, everything else
// starts UNDEF and only ever moves up the lattice.
type Analysis struct {
	Method *ir.Method
}

var _ dataflow.Analysis = (*Analysis)(nil)

func (Analysis) IsForward() bool { return true }

// NewBoundaryFact seeds every int-holding parameter to NAC — spec §4.1:
// "parameters are assumed to be NAC at method entry, since callers are not
// analyzed together with the callee" (this package's intraprocedural scope
// never sees actual argument values; internal/icpi replaces this boundary
// with call-site argument facts when it composes methods into an ICFG).
func (a Analysis) NewBoundaryFact(cfg *ir.CFG) dataflow.Fact {
	f := fact.New()
	for _, p := range a.Method.Params {
		if ir.CanHoldInt(p.Type) {
			f.Update(p.Name, lattice.NACVal())
		}
	}
	return f
}

func (Analysis) NewInitialFact() dataflow.Fact {
	return fact.New()
}

func (Analysis) Meet(target, incoming dataflow.Fact) {
	target.(*fact.CPFact).MeetInto(incoming.(*fact.CPFact))
}

// Transfer implements the kill/gen rule of spec §4.1: an Assign to an
// int-holding variable kills and redefines that variable, and an Invoke
// whose LHS is int-holding redefines that LHS to NAC (the callee's result
// is unknown to this intraprocedural analysis); every other statement kind
// (including New and all control-flow statements) passes facts through
// unchanged.
func (Analysis) Transfer(stmt ir.Stmt, in, out dataflow.Fact) bool {
	inF := in.(*fact.CPFact)
	outF := out.(*fact.CPFact)

	if inv, ok := stmt.(*ir.Invoke); ok && inv.LHS != nil && ir.CanHoldInt(inv.LHS.Type) {
		before := outF.Copy()
		outF.CopyFrom(inF)
		outF.Update(inv.LHS.Name, lattice.NACVal())
		return !before.Equal(outF)
	}

	assign, ok := stmt.(*ir.Assign)
	if !ok || !ir.CanHoldInt(assign.LHS.Type) {
		before := outF.Copy()
		outF.CopyFrom(inF)
		return !before.Equal(outF)
	}

	before := outF.Copy()
	outF.CopyFrom(inF)
	outF.Update(assign.LHS.Name, Eval(assign.RHS, inF))
	return !before.Equal(outF)
}
