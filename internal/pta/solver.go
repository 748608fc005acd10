// Package pta implements Andersen-style inclusion-based pointer analysis,
// in both a context-insensitive flavor (CI) and a context-sensitive flavor
// (CS, 1-call-site-sensitive), over a single shared constraint-propagation
// engine selected by a pluggable Selector (spec §4.5/§4.6). The call graph
// is built on the fly: a virtual/interface call site is wired to its
// possible callees only once points-to information narrows down the
// receiver's runtime class, exactly like the classic Andersen + CHA hybrid
// ("pointer analysis drives call graph, call graph drives pointer
// analysis").
package pta

import (
	"staticore/internal/callgraph"
	"staticore/internal/classes"
	"staticore/internal/heap"
	"staticore/internal/ir"
)

// StaticField is the pointer-flow-graph node for a static field — global,
// unqualified by context, since all callers share one static slot.
type StaticField struct{ Field *ir.Field }

// Result is the output of a completed solve: points-to sets plus the call
// graph discovered along the way.
type Result struct {
	solver *Solver
}

// PointsTo returns the points-to set of a local variable under ctx,
// resolved back to the CSObj values it denotes.
func (r *Result) PointsTo(ctx Context, v *ir.Var) []CSObj {
	return r.solver.resolvedObjects(CSVar{Ctx: ctx, Var: v})
}

// PointsToAnyContext returns the union of v's points-to set across every
// context the solver discovered a CSVar for it under. Callers that
// accessed a method's local var without ctx{} (internal/icpi's heap model,
// internal/taint's manager) aren't structured to track which call-string
// context reached the accessing statement — their ICFG/statement walk is
// itself context-insensitive — so rather than guessing emptyContext (only
// ever correct for a context-insensitive Result), they aggregate over
// every context the CS solver actually bound v under.
func (r *Result) PointsToAnyContext(v *ir.Var) []CSObj {
	return r.solver.resolvedObjectsAnyContext(v)
}

// CallGraph returns the context-insensitive projection of the discovered
// call graph (one edge per distinct (call site, callee) pair regardless of
// how many contexts reached it) — the view internal/icpi, internal/taint
// and the CLI consume.
func (r *Result) CallGraph() *callgraph.Graph { return r.solver.cg }

type storeConstraint struct {
	field *ir.Field
	rhs   CSVar
}

type loadConstraint struct {
	field *ir.Field
	lhs   CSVar
}

type arrayStoreConstraint struct{ rhs CSVar }
type arrayLoadConstraint struct{ lhs CSVar }

type callConstraint struct {
	ctx    Context
	site   *ir.Invoke
	caller *ir.Method
}

type workItem struct {
	pointer interface{}
	idx     uint
}

// Solver runs the fixed-point worklist. Construct one with NewCI or NewCS
// and call Solve once per program.
type Solver struct {
	sel       Selector
	hierarchy classes.Hierarchy
	heapTbl   *heap.Table
	objIdx    *objIndex

	pts     map[interface{}]*PointsToSet
	pfgSucc map[interface{}][]interface{}
	pfgEdge map[[2]interface{}]bool

	reachable map[CSMethod]bool
	cg        *callgraph.Graph
	cgEdges   map[callgraph.Edge]bool

	storeCs map[interface{}][]storeConstraint
	loadCs  map[interface{}][]loadConstraint
	aStoreCs map[interface{}][]arrayStoreConstraint
	aLoadCs  map[interface{}][]arrayLoadConstraint
	callCs   map[interface{}][]callConstraint

	worklist []workItem
}

func newSolver(sel Selector, h classes.Hierarchy) *Solver {
	return &Solver{
		sel:       sel,
		hierarchy: h,
		heapTbl:   heap.NewTable(),
		objIdx:    newObjIndex(),
		pts:       make(map[interface{}]*PointsToSet),
		pfgSucc:   make(map[interface{}][]interface{}),
		pfgEdge:   make(map[[2]interface{}]bool),
		reachable: make(map[CSMethod]bool),
		cg:        callgraph.New(),
		cgEdges:   make(map[callgraph.Edge]bool),
		storeCs:   make(map[interface{}][]storeConstraint),
		loadCs:    make(map[interface{}][]loadConstraint),
		aStoreCs:  make(map[interface{}][]arrayStoreConstraint),
		aLoadCs:   make(map[interface{}][]arrayLoadConstraint),
		callCs:    make(map[interface{}][]callConstraint),
	}
}

// NewCI returns a context-insensitive solver.
func NewCI(h classes.Hierarchy) *Solver { return newSolver(ciSelector{}, h) }

// NewCS returns a 1-call-site-sensitive solver.
func NewCS(h classes.Hierarchy) *Solver { return newSolver(csSelector{}, h) }

// Solve runs the analysis from entry and returns the fixed-point result.
func (s *Solver) Solve(entry *ir.Method) *Result {
	s.addReachable(CSMethod{Ctx: emptyContext, Method: entry})
	s.drainWorklist()
	return &Result{solver: s}
}

func canBePointer(t ir.Type) bool {
	switch t.(type) {
	case ir.ClassType, ir.ArrayType:
		return true
	default:
		return false
	}
}

func (s *Solver) ptsOf(p interface{}) *PointsToSet {
	set, ok := s.pts[p]
	if !ok {
		set = newPointsToSet()
		s.pts[p] = set
	}
	return set
}

// addEdge installs a PFG edge from -> to, a no-op if the edge already
// exists (spec §4.5 "no-op if edge exists"; each PFG edge is stored at
// most once). Without this check, a base pointer revisited by both
// replayExisting (at constraint-install time) and the worklist's own
// propagate (when the same object is added again later) would double-add
// the edge and double-propagate every object across it.
func (s *Solver) addEdge(from, to interface{}) {
	key := [2]interface{}{from, to}
	if s.pfgEdge[key] {
		return
	}
	s.pfgEdge[key] = true
	s.pfgSucc[from] = append(s.pfgSucc[from], to)
	// Propagate from's current points-to set across the new edge immediately.
	fromSet := s.ptsOf(from)
	for _, idx := range fromSet.Objects() {
		s.enqueue(to, idx)
	}
}

func (s *Solver) enqueue(p interface{}, idx uint) {
	if s.ptsOf(p).Add(idx) {
		s.worklist = append(s.worklist, workItem{pointer: p, idx: idx})
	}
}

func (s *Solver) drainWorklist() {
	for len(s.worklist) > 0 {
		item := s.worklist[0]
		s.worklist = s.worklist[1:]
		s.propagate(item.pointer, item.idx)
	}
}

// propagate fires every consumer of pointer gaining idx: PFG successors,
// field store/load constraints whose base is pointer, and call-site
// dispatch constraints whose receiver is pointer.
func (s *Solver) propagate(pointer interface{}, idx uint) {
	for _, succ := range s.pfgSucc[pointer] {
		s.enqueue(succ, idx)
	}

	cso := s.objIdx.at(idx)

	for _, c := range s.storeCs[pointer] {
		field := InstanceField{Base: cso, Field: c.field}
		s.addEdge(c.rhs, field)
	}
	for _, c := range s.loadCs[pointer] {
		field := InstanceField{Base: cso, Field: c.field}
		s.addEdge(field, c.lhs)
	}
	for _, c := range s.aStoreCs[pointer] {
		arr := ArrayIndex{Base: cso}
		s.addEdge(c.rhs, arr)
	}
	for _, c := range s.aLoadCs[pointer] {
		arr := ArrayIndex{Base: cso}
		s.addEdge(arr, c.lhs)
	}
	for _, c := range s.callCs[pointer] {
		s.dispatchAndWire(c.ctx, c.caller, c.site, cso)
	}
}

func (s *Solver) resolvedObjects(pointer interface{}) []CSObj {
	set, ok := s.pts[pointer]
	if !ok {
		return nil
	}
	out := make([]CSObj, 0, len(set.Objects()))
	for _, idx := range set.Objects() {
		out = append(out, s.objIdx.at(idx))
	}
	return out
}

// resolvedObjectsAnyContext scans every CSVar the solver ever created for
// v (one per context that reached a statement referencing it) and unions
// their points-to sets. Under CI there is exactly one such CSVar
// (emptyContext), so this is equivalent to resolvedObjects there.
func (s *Solver) resolvedObjectsAnyContext(v *ir.Var) []CSObj {
	seen := make(map[CSObj]bool)
	var out []CSObj
	for p := range s.pts {
		cv, ok := p.(CSVar)
		if !ok || cv.Var != v {
			continue
		}
		for _, cso := range s.resolvedObjects(cv) {
			if !seen[cso] {
				seen[cso] = true
				out = append(out, cso)
			}
		}
	}
	return out
}
