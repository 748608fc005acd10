package icpi

import (
	"staticore/internal/fact"
	"staticore/internal/ir"
	"staticore/internal/pta"
)

// maxRounds bounds the outer local-pass/heap-rebuild loop. The lattice has
// height 2 per slot (UNDEF -> CONST -> NAC) and both the local facts and
// the heap model only ever move up it round over round, so in practice two
// or three rounds reach a fixed point; the bound exists purely to stop a
// pathological program from looping forever if some future change to the
// transfer rules breaks monotonicity.
const maxRounds = 32

// Result holds the final per-node local facts and the heap model they
// were computed against.
type Result struct {
	ICFG  *ICFG
	Facts map[Node]*fact.CPFact
	heap  *heapModel
}

// FactAt returns the constant-propagation fact immediately before
// statement idx in m.
func (r *Result) FactAt(m *ir.Method, idx int) *fact.CPFact {
	return r.Facts[Node{Method: m, Idx: idx}]
}

// Solve builds the ICFG over pr's call graph and runs interprocedural
// constant propagation to a combined fixed point: the local, flow-sensitive
// pass and the global, flow-insensitive heap model each refine the other
// round over round until neither changes (spec §4.7/§4.8).
func Solve(entry *ir.Method, pr *pta.Result) *Result {
	g := Build(pr.CallGraph())
	h := newHeapModel(pr)

	var facts map[Node]*fact.CPFact
	for round := 0; round < maxRounds; round++ {
		facts = localPass(g, entry, h)
		before := h.snapshot()
		h.rebuild(g, facts)
		if before.equal(h) {
			break
		}
	}
	return &Result{ICFG: g, Facts: facts, heap: h}
}
