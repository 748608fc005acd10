// Package livevar runs a classic backward live-variable dataflow over a
// method's CFG, grounded on the bitset-based reaching/live-variable
// analysis pattern in the wider example pack (a compiler dataflow-graph
// package in the retrieved corpus builds exactly this kind of bitset CFG
// analysis). internal/dcd consumes the result read-only to decide whether
// a dead assignment's value is ever used downstream.
package livevar

import (
	"staticore/internal/dataflow"
	"staticore/internal/ir"

	bitset "github.com/bits-and-blooms/bitset"
)

// Set is a live-variable fact: a bitset over a method's interned variable
// indices (ir.Var.Index), so meet (union) and membership tests are O(1)
// words instead of O(vars) map operations.
type Set struct {
	bits *bitset.BitSet
}

func newSet(n uint) *Set { return &Set{bits: bitset.New(n)} }

// IsLive reports whether variable index i is live in s.
func (s *Set) IsLive(i uint) bool { return s.bits.Test(i) }

func (s *Set) add(i uint)    { s.bits.Set(i) }
func (s *Set) remove(i uint) { s.bits.Clear(i) }

// union merges o into s in place.
func (s *Set) union(o *Set) {
	s.bits.InPlaceUnion(o.bits)
}

func (s *Set) copyFrom(o *Set)   { s.bits = o.bits.Clone() }
func (s *Set) equal(o *Set) bool { return s.bits.Equal(o.bits) }

// Analysis is the backward live-variable dataflow: a variable is live
// before a statement if it is used by that statement, or live after it and
// not killed by it (standard IN[s] = use(s) ∪ (OUT[s] - def(s))).
type Analysis struct {
	Method *ir.Method
}

var _ dataflow.Analysis = (*Analysis)(nil)

func (Analysis) IsForward() bool { return false }

func (a Analysis) NewBoundaryFact(cfg *ir.CFG) dataflow.Fact {
	return newSet(uint(len(a.Method.Vars())))
}

func (a Analysis) NewInitialFact() dataflow.Fact {
	return newSet(uint(len(a.Method.Vars())))
}

func (Analysis) Meet(target, incoming dataflow.Fact) {
	t := target.(*Set)
	t.union(incoming.(*Set))
}

// Transfer computes IN[s] into out from OUT[s] in in (the backward solver
// passes a node's after-fact as in and its before-fact as out).
func (Analysis) Transfer(stmt ir.Stmt, in, out dataflow.Fact) bool {
	o := out.(*Set)
	n := in.(*Set)

	before := &Set{bits: o.bits.Clone()}
	o.copyFrom(n)
	if d, ok := defined(stmt); ok {
		o.remove(uint(d.Index))
	}
	for _, v := range used(stmt) {
		o.add(uint(v.Index))
	}
	return !before.equal(o)
}

// used returns every local variable read by stmt.
func used(stmt ir.Stmt) []*ir.Var {
	var vs []*ir.Var
	addExpr := func(e ir.Expr) {
		vs = append(vs, exprVars(e)...)
	}
	switch s := stmt.(type) {
	case *ir.Assign:
		addExpr(s.RHS)
	case *ir.StoreStaticField:
		addExpr(s.RHS)
	case *ir.StoreField:
		vs = append(vs, s.Base)
		addExpr(s.RHS)
	case *ir.StoreArray:
		vs = append(vs, s.Base)
		addExpr(s.Index)
		addExpr(s.RHS)
	case *ir.Invoke:
		if s.Recv != nil {
			vs = append(vs, s.Recv)
		}
		vs = append(vs, s.Args...)
	case *ir.If:
		addExpr(s.Cond)
	case *ir.Switch:
		addExpr(s.Operand)
	case *ir.Return:
		if s.Value != nil {
			addExpr(s.Value)
		}
	}
	return vs
}

func exprVars(e ir.Expr) []*ir.Var {
	switch x := e.(type) {
	case ir.VarExpr:
		return []*ir.Var{x.V}
	case ir.BinaryExpr:
		return append(exprVars(x.X), exprVars(x.Y)...)
	case ir.InstanceFieldExpr:
		return []*ir.Var{x.Base}
	case ir.ArrayAccessExpr:
		return append([]*ir.Var{x.Base}, exprVars(x.Index)...)
	case ir.CastExpr:
		return []*ir.Var{x.Operand}
	default:
		return nil
	}
}

// defined returns the single variable stmt assigns, if any (spec §4.3's
// useless-assignment check only ever concerns Assign's LHS).
func defined(stmt ir.Stmt) (*ir.Var, bool) {
	switch s := stmt.(type) {
	case *ir.Assign:
		return s.LHS, true
	case *ir.Invoke:
		if s.LHS != nil {
			return s.LHS, true
		}
	case *ir.New:
		return s.LHS, true
	}
	return nil, false
}

// Solve runs live-variable analysis over m's CFG.
func Solve(m *ir.Method) *dataflow.Result {
	return dataflow.Solve(m.CFG, Analysis{Method: m})
}

// LiveIn reports whether v is live immediately before statement idx.
func LiveIn(res *dataflow.Result, idx int, v *ir.Var) bool {
	return res.In[idx].(*Set).IsLive(uint(v.Index))
}
