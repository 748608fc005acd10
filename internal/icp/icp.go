package icp

import (
	"staticore/internal/dataflow"
	"staticore/internal/fact"
	"staticore/internal/ir"
)

// Solve runs intraprocedural constant propagation over m's CFG to a fixed
// point and returns the per-statement in-facts, the representation
// internal/dcd's unreachable-branch and useless-assignment checks consume.
func Solve(m *ir.Method) *dataflow.Result {
	return dataflow.Solve(m.CFG, Analysis{Method: m})
}

// FactAt is a small convenience accessor for callers (e.g. cmd/staticore-
// repl) that want the in-fact at one statement index without holding onto
// the raw *dataflow.Result.
func FactAt(res *dataflow.Result, idx int) *fact.CPFact {
	return res.In[idx].(*fact.CPFact)
}
