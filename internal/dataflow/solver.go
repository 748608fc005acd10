// Package dataflow runs a generic forward or backward worklist iteration
// to a fixed point over a statement-level CFG (spec §4.1's "worklist
// algorithm", generalized so both internal/icp and internal/livevar drive
// the same solver with different Analysis implementations).
package dataflow

import "staticore/internal/ir"

// Fact is any per-node dataflow value (e.g. *fact.CPFact or a live-variable
// bitset). The solver treats it opaquely and never copies it itself —
// analyses own their Fact's mutation semantics.
type Fact interface{}

// Analysis is the transfer-function contract a client dataflow (intra-
// procedural constant propagation, live-variable analysis, ...) implements.
// Facts are mutated in place, mirroring the teacher corpus's bitset-based
// dataflow (meet/transfer write into a caller-owned destination rather than
// allocating a fresh value every node visit).
type Analysis interface {
	// IsForward reports the analysis direction. Forward analyses (CP) seed
	// from Entry and iterate successors; backward analyses (live vars) seed
	// from Exit and iterate predecessors.
	IsForward() bool
	// NewBoundaryFact returns the fact at the CFG's entry (forward) or exit
	// (backward) node.
	NewBoundaryFact(cfg *ir.CFG) Fact
	// NewInitialFact returns the fact every non-boundary node starts with.
	NewInitialFact() Fact
	// Meet merges incoming into target in place.
	Meet(target, incoming Fact)
	// Transfer applies stmt's effect given in, mutating out in place and
	// returning whether out's value changed as a result.
	Transfer(stmt ir.Stmt, in, out Fact) bool
}

// Result holds the fixed-point in/out facts for every CFG node, indexed by
// statement index.
type Result struct {
	In  []Fact
	Out []Fact
}

// Solve iterates analysis over cfg to a fixed point using a FIFO worklist
// seeded with every node except the boundary node (spec §4.1: "process nodes until the worklist is
// empty"). The direction (forward/backward) comes from analysis.IsForward.
func Solve(cfg *ir.CFG, analysis Analysis) *Result {
	n := cfg.NumNodes()
	res := &Result{In: make([]Fact, n), Out: make([]Fact, n)}

	boundary := cfg.Entry
	if !analysis.IsForward() {
		boundary = cfg.Exit
	}

	for i := 0; i < n; i++ {
		res.In[i] = analysis.NewInitialFact()
		res.Out[i] = analysis.NewInitialFact()
	}
	boundaryFact := analysis.NewBoundaryFact(cfg)
	if analysis.IsForward() {
		res.Out[boundary] = boundaryFact
	} else {
		res.In[boundary] = boundaryFact
	}

	worklist := make([]int, 0, n)
	inWorklist := make([]bool, n)
	for i := 0; i < n; i++ {
		if i == boundary {
			continue
		}
		worklist = append(worklist, i)
		inWorklist[i] = true
	}

	enqueue := func(i int) {
		if i == boundary || inWorklist[i] {
			return
		}
		inWorklist[i] = true
		worklist = append(worklist, i)
	}

	for len(worklist) > 0 {
		node := worklist[0]
		worklist = worklist[1:]
		inWorklist[node] = false

		if analysis.IsForward() {
			in := res.In[node]
			for _, p := range cfg.Preds(node) {
				analysis.Meet(in, res.Out[p])
			}
			changed := analysis.Transfer(cfg.At(node), in, res.Out[node])
			if changed {
				for _, s := range cfg.Succs(node) {
					enqueue(s)
				}
			}
		} else {
			out := res.Out[node]
			for _, s := range cfg.Succs(node) {
				analysis.Meet(out, res.In[s])
			}
			changed := analysis.Transfer(cfg.At(node), out, res.In[node])
			if changed {
				for _, p := range cfg.Preds(node) {
					enqueue(p)
				}
			}
		}
	}
	return res
}
