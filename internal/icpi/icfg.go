// Package icpi builds an interprocedural control-flow graph over a call
// graph's reachable methods and runs interprocedural constant propagation
// on top of it, consulting a heap abstraction derived from pointer
// analysis for field, array, and static-field loads (spec §4.7/§4.8).
package icpi

import (
	"staticore/internal/callgraph"
	"staticore/internal/ir"
)

// Node identifies one statement within one reachable method.
type Node struct {
	Method *ir.Method
	Idx    int
}

// edgeKind tags how a fact crosses an ICFG edge, since each kind composes
// the source fact differently (spec §3 "ICFG edge kinds": normal, call,
// call-to-return, return).
type edgeKind uint8

const (
	edgeNormal edgeKind = iota
	edgeCall
	edgeCallToReturn
	edgeReturn
)

type icfgEdge struct {
	from, to Node
	kind     edgeKind
	site     *ir.Invoke // set for call/call-to-return/return edges
}

// ICFG is the interprocedural CFG: every reachable method's statement CFG,
// stitched together at call sites by call/return/call-to-return edges.
type ICFG struct {
	methods []*ir.Method
	succs   map[Node][]icfgEdge
	preds   map[Node][]icfgEdge
}

// Build stitches every method the call graph marks reachable into one
// ICFG. cg's edges determine which concrete callees a call site fans out
// to — callers typically pass the call graph internal/pta discovered,
// since that is precision internal/cha alone can't offer at calls resolved
// through points-to information.
func Build(cg *callgraph.Graph) *ICFG {
	g := &ICFG{
		methods: cg.ReachableMethods(),
		succs:   make(map[Node][]icfgEdge),
		preds:   make(map[Node][]icfgEdge),
	}

	calleesBySite := make(map[*ir.Invoke][]*ir.Method)
	for _, e := range cg.Edges() {
		calleesBySite[e.CallSite] = append(calleesBySite[e.CallSite], e.Callee)
	}

	for _, m := range g.methods {
		if m.CFG == nil {
			continue
		}
		for i, stmt := range m.CFG.Stmts {
			n := Node{Method: m, Idx: i}
			inv, isCall := stmt.(*ir.Invoke)
			if !isCall {
				for _, s := range m.CFG.Succs(i) {
					g.addEdge(icfgEdge{from: n, to: Node{Method: m, Idx: s}, kind: edgeNormal})
				}
				continue
			}

			for _, succ := range m.CFG.Succs(i) {
				returnSite := Node{Method: m, Idx: succ}
				g.addEdge(icfgEdge{from: n, to: returnSite, kind: edgeCallToReturn, site: inv})

				for _, callee := range calleesBySite[inv] {
					if callee.CFG == nil {
						continue
					}
					entry := Node{Method: callee, Idx: firstRealStmt(callee)}
					g.addEdge(icfgEdge{from: n, to: entry, kind: edgeCall, site: inv})

					for j, cs := range callee.CFG.Stmts {
						if _, ok := cs.(*ir.Return); ok {
							g.addEdge(icfgEdge{from: Node{Method: callee, Idx: j}, to: returnSite, kind: edgeReturn, site: inv})
						}
					}
				}
			}
		}
	}
	return g
}

func firstRealStmt(m *ir.Method) int {
	if len(m.CFG.Succs(m.CFG.Entry)) > 0 {
		return m.CFG.Succs(m.CFG.Entry)[0]
	}
	return m.CFG.Entry
}

func (g *ICFG) addEdge(e icfgEdge) {
	g.succs[e.from] = append(g.succs[e.from], e)
	g.preds[e.to] = append(g.preds[e.to], e)
}

// Nodes returns every node in the graph, method-major, statement-index
// order — a stable iteration order the worklist seeds from.
func (g *ICFG) Nodes() []Node {
	var out []Node
	for _, m := range g.methods {
		if m.CFG == nil {
			continue
		}
		for i := range m.CFG.Stmts {
			out = append(out, Node{Method: m, Idx: i})
		}
	}
	return out
}

func (g *ICFG) Succs(n Node) []icfgEdge { return g.succs[n] }
func (g *ICFG) Preds(n Node) []icfgEdge { return g.preds[n] }

func (g *ICFG) Stmt(n Node) ir.Stmt { return n.Method.CFG.At(n.Idx) }
