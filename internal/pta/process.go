package pta

import (
	"staticore/internal/callgraph"
	"staticore/internal/ir"
)

// addReachable marks m reachable under ctx and, the first time, scans its
// statements to install constraints. Constraint installation only needs to
// happen once per (ctx, method) pair since the constraints themselves
// reference ctx-qualified pointers directly.
func (s *Solver) addReachable(m CSMethod) {
	if s.reachable[m] {
		return
	}
	s.reachable[m] = true
	s.cg.AddReachable(m.Method)
	if m.Method.CFG == nil {
		return
	}
	for _, stmt := range m.Method.CFG.Stmts {
		s.processStmt(m, stmt)
	}
}

func (s *Solver) processStmt(m CSMethod, stmt ir.Stmt) {
	ctx := m.Ctx
	cv := func(v *ir.Var) CSVar { return CSVar{Ctx: ctx, Var: v} }

	switch st := stmt.(type) {
	case *ir.New:
		if !canBePointer(st.LHS.Type) {
			return
		}
		obj := s.heapTbl.Intern(st)
		heapCtx := s.sel.SelectHeapContext(ctx, st)
		cso := CSObj{Ctx: heapCtx, Obj: obj}
		idx := s.objIdx.intern(cso)
		s.enqueue(cv(st.LHS), idx)

	case *ir.Assign:
		if !canBePointer(st.LHS.Type) {
			return
		}
		switch rhs := st.RHS.(type) {
		case ir.VarExpr:
			s.addEdge(cv(rhs.V), cv(st.LHS))
		case ir.CastExpr:
			s.addEdge(cv(rhs.Operand), cv(st.LHS))
		case ir.StaticFieldExpr:
			s.addEdge(StaticField{Field: rhs.Field}, cv(st.LHS))
		case ir.InstanceFieldExpr:
			base := cv(rhs.Base)
			s.loadCs[base] = append(s.loadCs[base], loadConstraint{field: rhs.Field, lhs: cv(st.LHS)})
			s.replayExisting(base, func(cso CSObj) {
				s.addEdge(InstanceField{Base: cso, Field: rhs.Field}, cv(st.LHS))
			})
		case ir.ArrayAccessExpr:
			base := cv(rhs.Base)
			s.aLoadCs[base] = append(s.aLoadCs[base], arrayLoadConstraint{lhs: cv(st.LHS)})
			s.replayExisting(base, func(cso CSObj) {
				s.addEdge(ArrayIndex{Base: cso}, cv(st.LHS))
			})
		}

	case *ir.StoreStaticField:
		if v, ok := st.RHS.(ir.VarExpr); ok && canBePointer(v.V.Type) {
			s.addEdge(cv(v.V), StaticField{Field: st.Field})
		}

	case *ir.StoreField:
		v, ok := st.RHS.(ir.VarExpr)
		if !ok || !canBePointer(v.V.Type) {
			return
		}
		base := cv(st.Base)
		s.storeCs[base] = append(s.storeCs[base], storeConstraint{field: st.Field, rhs: cv(v.V)})
		s.replayExisting(base, func(cso CSObj) {
			s.addEdge(cv(v.V), InstanceField{Base: cso, Field: st.Field})
		})

	case *ir.StoreArray:
		v, ok := st.RHS.(ir.VarExpr)
		if !ok || !canBePointer(v.V.Type) {
			return
		}
		base := cv(st.Base)
		s.aStoreCs[base] = append(s.aStoreCs[base], arrayStoreConstraint{rhs: cv(v.V)})
		s.replayExisting(base, func(cso CSObj) {
			s.addEdge(cv(v.V), ArrayIndex{Base: cso})
		})

	case *ir.Invoke:
		s.processInvoke(m, st)
	}
}

// replayExisting invokes fn for every object already in base's points-to
// set at constraint-installation time, so a constraint registered after
// the base variable already points somewhere isn't missed (processStmt
// runs once per method per reachable context, but the base var's points-to
// set keeps growing afterward via the worklist — new growth is handled by
// propagate's lookup of storeCs/loadCs/etc. keyed on base).
func (s *Solver) replayExisting(base CSVar, fn func(CSObj)) {
	for _, idx := range s.ptsOf(base).Objects() {
		fn(s.objIdx.at(idx))
	}
}

func (s *Solver) processInvoke(m CSMethod, inv *ir.Invoke) {
	ctx := m.Ctx
	switch inv.Kind_ {
	case ir.InvokeStatic:
		if callee := inv.Method.Declaring.DeclaredMethod(inv.Method.Subsig); callee != nil {
			s.wireCall(ctx, m.Method, inv, callee, nil)
		}
	case ir.InvokeSpecial:
		if callee := s.hierarchy.Dispatch(inv.Method.Declaring, inv.Method.Subsig); callee != nil {
			s.wireCall(ctx, m.Method, inv, callee, nil)
		}
	case ir.InvokeVirtual, ir.InvokeInterface:
		recv := CSVar{Ctx: ctx, Var: inv.Recv}
		s.callCs[recv] = append(s.callCs[recv], callConstraint{ctx: ctx, site: inv, caller: m.Method})
		s.replayExisting(recv, func(cso CSObj) {
			s.dispatchAndWire(ctx, m.Method, inv, cso)
		})
	}
}

// dispatchAndWire resolves a virtual/interface call against a concrete
// runtime object discovered via points-to information and wires the call
// edge — the "pointer analysis feeds the call graph" half of the on-the-fly
// construction (spec §4.6). obj is passed through to wireCall so it can
// enqueue only this one object into the callee's `this`, not the receiver
// variable's entire (possibly polymorphic) points-to set.
func (s *Solver) dispatchAndWire(ctx Context, caller *ir.Method, inv *ir.Invoke, obj CSObj) {
	callee := s.hierarchy.Dispatch(obj.Obj.Class, inv.Method.Subsig)
	if callee == nil {
		return
	}
	s.wireCall(ctx, caller, inv, callee, &obj)
}

// wireCall records the call-graph edge (deduplicated per context pair) and
// connects receiver/argument/return pointers between caller and callee.
//
// triggerObj is nil for a monomorphic call (static/special: every object
// ever seen on the receiver binds to the same callee, so a persistent PFG
// edge recv -> callee.This is safe and correct). For a virtual/interface
// call, triggerObj is the single CSObj whose runtime type resolved this
// particular callee (spec §4.5 processCall step 2: enqueue only `{o}` into
// Var(callee.this)); a persistent edge here would later let an unrelated
// object added to the same receiver — one whose runtime type dispatches to
// a different callee entirely — flow into this callee's `this` too.
func (s *Solver) wireCall(callerCtx Context, caller *ir.Method, inv *ir.Invoke, callee *ir.Method, triggerObj *CSObj) {
	calleeCtx := s.sel.SelectContext(callerCtx, inv, callee)
	calleeCSM := CSMethod{Ctx: calleeCtx, Method: callee}

	edge := callgraph.Edge{CallSite: inv, Caller: caller, Callee: callee, Kind: edgeKindOf(inv.Kind_)}
	if !s.cgEdges[edge] {
		s.cgEdges[edge] = true
		s.cg.AddEdge(edge)
	}

	s.addReachable(calleeCSM)

	if inv.Recv != nil && callee.This != nil {
		if triggerObj != nil {
			idx := s.objIdx.intern(*triggerObj)
			s.enqueue(CSVar{Ctx: calleeCtx, Var: callee.This}, idx)
		} else {
			s.addEdge(CSVar{Ctx: callerCtx, Var: inv.Recv}, CSVar{Ctx: calleeCtx, Var: callee.This})
		}
	}
	for i, arg := range inv.Args {
		if i >= len(callee.Params) {
			break
		}
		if !canBePointer(callee.Params[i].Type) {
			continue
		}
		s.addEdge(CSVar{Ctx: callerCtx, Var: arg}, CSVar{Ctx: calleeCtx, Var: callee.Params[i]})
	}
	if inv.LHS != nil && callee.CFG != nil {
		for _, stmt := range callee.CFG.Stmts {
			ret, ok := stmt.(*ir.Return)
			if !ok || ret.Value == nil {
				continue
			}
			if rv, ok := ret.Value.(ir.VarExpr); ok && canBePointer(rv.V.Type) {
				s.addEdge(CSVar{Ctx: calleeCtx, Var: rv.V}, CSVar{Ctx: callerCtx, Var: inv.LHS})
			}
		}
	}
}

func edgeKindOf(k ir.InvokeKind) callgraph.EdgeKind {
	switch k {
	case ir.InvokeStatic:
		return callgraph.EdgeStatic
	case ir.InvokeSpecial:
		return callgraph.EdgeSpecial
	case ir.InvokeInterface:
		return callgraph.EdgeInterface
	default:
		return callgraph.EdgeVirtual
	}
}
