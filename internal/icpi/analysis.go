package icpi

import (
	"staticore/internal/fact"
	"staticore/internal/ir"
	"staticore/internal/lattice"
)

// localPass runs one flat worklist fixed point over every ICFG node's
// local (flow-sensitive) CPFact, given the current heap model for field,
// array, and static-field reads. It does not itself rebuild the heap
// model — that is the outer Solve loop's job, since the heap model is
// flow-insensitive and must see every writer's value before any reader can
// trust it.
func localPass(g *ICFG, entry *ir.Method, h *heapModel) map[Node]*fact.CPFact {
	in := make(map[Node]*fact.CPFact)
	out := make(map[Node]*fact.CPFact)
	for _, n := range g.Nodes() {
		in[n] = fact.New()
		out[n] = fact.New()
	}

	// Seed the whole-program entry method's own boundary: its parameters
	// are unknown the same way intraprocedural CP treats them, since no
	// caller within the analyzed program supplies them (spec §4.1's
	// parameter-boundary rule, reused here for the one method with no
	// caller at all).
	var boundary *fact.CPFact
	var boundaryNode Node
	if entry.CFG != nil {
		seed := fact.New()
		for _, p := range entry.Params {
			if ir.CanHoldInt(p.Type) {
				seed.Update(p.Name, lattice.NACVal())
			}
		}
		boundaryNode = Node{Method: entry, Idx: entry.CFG.Entry}
		boundary = seed
		out[boundaryNode] = seed.Copy()
	}

	worklist := g.Nodes()
	inWL := make(map[Node]bool, len(worklist))
	for _, n := range worklist {
		inWL[n] = true
	}
	enqueue := func(n Node) {
		if !inWL[n] {
			inWL[n] = true
			worklist = append(worklist, n)
		}
	}

	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]
		inWL[n] = false

		merged := fact.New()
		if boundary != nil && n == boundaryNode {
			merged.MeetInto(boundary)
		}
		for _, e := range g.Preds(n) {
			contribute(merged, e, out[e.from])
		}
		in[n] = merged

		changed := transfer(g.Stmt(n), merged, out[n], h)
		if changed {
			for _, e := range g.Succs(n) {
				enqueue(e.to)
			}
		}
	}
	return in
}

// contribute folds predOut into dst according to the edge it crossed on.
func contribute(dst *fact.CPFact, e icfgEdge, predOut *fact.CPFact) {
	switch e.kind {
	case edgeNormal, edgeCallToReturn:
		dst.MeetInto(predOut)
	case edgeCall:
		inv := e.site
		callee := e.to.Method
		binding := fact.New()
		for i, arg := range inv.Args {
			if i >= len(callee.Params) {
				break
			}
			p := callee.Params[i]
			if !ir.CanHoldInt(p.Type) {
				continue
			}
			binding.Update(p.Name, predOut.Get(arg.Name))
		}
		dst.MeetInto(binding)
	case edgeReturn:
		inv := e.site
		if inv.LHS == nil || !ir.CanHoldInt(inv.LHS.Type) {
			return
		}
		ret, ok := e.from.Method.CFG.At(e.from.Idx).(*ir.Return)
		if !ok || ret.Value == nil {
			return
		}
		binding := fact.New()
		binding.Update(inv.LHS.Name, evalReturn(ret.Value, predOut))
		dst.MeetInto(binding)
	}
}

// evalReturn evaluates a return expression against the callee's out-fact.
// Field/array/static reads are NAC here deliberately: a return statement's
// own value was already resolved against the heap model in the callee's
// own Transfer when its Assign statements ran, so by the time we reach a
// Return node this local var already carries the right value if it came
// from a heap read upstream.
func evalReturn(expr ir.Expr, f *fact.CPFact) lattice.Value {
	if v, ok := expr.(ir.VarExpr); ok {
		return f.Get(v.V.Name)
	}
	return lattice.NACVal()
}

// transfer applies stmt's local effect, consulting h for field/array/
// static reads instead of falling back to NAC the way plain intraprocedural
// eval does. Returns whether out changed.
func transfer(stmt ir.Stmt, in, out *fact.CPFact, h *heapModel) bool {
	before := out.Copy()

	assign, ok := stmt.(*ir.Assign)
	switch {
	case ok && ir.CanHoldInt(assign.LHS.Type):
		out.CopyFrom(in)
		out.Update(assign.LHS.Name, evalWithHeap(assign.RHS, in, h))
	case isInvoke(stmt):
		out.CopyFrom(in)
		if inv := stmt.(*ir.Invoke); inv.LHS != nil && ir.CanHoldInt(inv.LHS.Type) {
			out.Remove(inv.LHS.Name)
		}
	default:
		out.CopyFrom(in)
	}
	return !before.Equal(out)
}

func isInvoke(stmt ir.Stmt) bool {
	_, ok := stmt.(*ir.Invoke)
	return ok
}

// evalWithHeap mirrors internal/icp.Eval but resolves field/array/static
// reads against the heap model rather than returning NAC unconditionally.
func evalWithHeap(expr ir.Expr, in *fact.CPFact, h *heapModel) lattice.Value {
	switch e := expr.(type) {
	case ir.VarExpr:
		if !ir.CanHoldInt(e.V.Type) {
			return lattice.NACVal()
		}
		return in.Get(e.V.Name)
	case ir.ConstExpr:
		return lattice.ConstVal(e.Value)
	case ir.BinaryExpr:
		return lattice.ApplyAbstract(e.Op, evalWithHeap(e.X, in, h), evalWithHeap(e.Y, in, h))
	case ir.StaticFieldExpr:
		return h.loadStatic(e.Field)
	case ir.InstanceFieldExpr:
		return h.load(e.Base, e.Field)
	case ir.ArrayAccessExpr:
		return h.loadArray(e.Base, evalWithHeap(e.Index, in, h))
	default:
		return lattice.NACVal()
	}
}
