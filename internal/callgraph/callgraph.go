// Package callgraph is the shared call-graph container both CHA
// (internal/cha) and pointer analysis (internal/pta) build into: a set of
// reachable methods plus (call-site, callee) edges, with an edge Kind that
// preserves how each call was resolved (spec §4.4, §6 "call graph").
package callgraph

import "staticore/internal/ir"

// EdgeKind records how an edge was resolved, mirroring ir.InvokeKind but
// kept distinct since CHA may resolve a virtual call to many callees where
// PTA would resolve it (given points-to info) to fewer.
type EdgeKind uint8

const (
	EdgeStatic EdgeKind = iota
	EdgeSpecial
	EdgeVirtual
	EdgeInterface
)

// Edge is one call-graph edge: a call statement resolving to one callee.
type Edge struct {
	CallSite *ir.Invoke
	Caller   *ir.Method
	Callee   *ir.Method
	Kind     EdgeKind
}

// Graph is a call graph: reachable methods plus the edges between them.
// It is intentionally not context-sensitive; internal/pta's CS solver adds
// each (call site, caller, callee) edge here once, whatever contexts reach
// it, and that view is what printing and internal/icpi's ICFG use.
type Graph struct {
	reachable map[*ir.Method]bool
	order     []*ir.Method
	edges     []Edge
	callersOf map[*ir.Method][]Edge
	calleesOf map[*ir.Method][]Edge
}

// New returns an empty call graph.
func New() *Graph {
	return &Graph{
		reachable: make(map[*ir.Method]bool),
		callersOf: make(map[*ir.Method][]Edge),
		calleesOf: make(map[*ir.Method][]Edge),
	}
}

// AddReachable marks m reachable, returning true the first time (so a
// worklist builder knows whether to enqueue it).
func (g *Graph) AddReachable(m *ir.Method) bool {
	if g.reachable[m] {
		return false
	}
	g.reachable[m] = true
	g.order = append(g.order, m)
	return true
}

// IsReachable reports whether m has been marked reachable.
func (g *Graph) IsReachable(m *ir.Method) bool { return g.reachable[m] }

// ReachableMethods returns every reachable method, in the order first added.
func (g *Graph) ReachableMethods() []*ir.Method { return g.order }

// AddEdge records a call-site -> callee edge. Duplicate edges (same site,
// same callee) are not filtered here; callers that need a deduplicated
// edge set (internal/cha, which may resolve the same virtual call to the
// same callee twice via two dispatch paths) guard before calling AddEdge.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e)
	g.callersOf[e.Callee] = append(g.callersOf[e.Callee], e)
	g.calleesOf[e.Caller] = append(g.calleesOf[e.Caller], e)
}

// Edges returns every edge added so far.
func (g *Graph) Edges() []Edge { return g.edges }

// CalleesOf returns every edge whose caller is m.
func (g *Graph) CalleesOf(m *ir.Method) []Edge { return g.calleesOf[m] }

// CallersOf returns every edge whose callee is m.
func (g *Graph) CallersOf(m *ir.Method) []Edge { return g.callersOf[m] }
