// Package dcd implements dead-code detection: unreachable-branch pruning
// from constant-folded If/Switch conditions, plus useless-assignment
// detection from live-variable results (spec §4.3). Its shape follows the
// teacher's semantic-analysis flow walker — a single forward reachability
// pass seeded from the method entry, re-deriving reachability from the
// CFG rather than trusting source order.
package dcd

import (
	"sort"

	"staticore/internal/dataflow"
	"staticore/internal/icp"
	"staticore/internal/ir"
	"staticore/internal/livevar"
)

// Result is one method's dead-code findings, both reported as sorted
// statement indices (spec §6, "Dead-code set (sorted by statement index)").
type Result struct {
	UnreachableStmts []int
	UselessAssigns   []int
}

// Analyze runs ICP and live-variable analysis over m and classifies every
// statement. It never mutates m's CFG.
func Analyze(m *ir.Method) *Result {
	cp := icp.Solve(m)
	lv := livevar.Solve(m)

	reachable := reachableStmts(m, cp)

	res := &Result{}
	for i, s := range m.CFG.Stmts {
		if i == m.CFG.Entry || i == m.CFG.Exit {
			continue
		}
		if !reachable[i] {
			res.UnreachableStmts = append(res.UnreachableStmts, i)
			continue
		}
		if isUselessAssign(s, lv, i) {
			res.UselessAssigns = append(res.UselessAssigns, i)
		}
	}
	sort.Ints(res.UnreachableStmts)
	sort.Ints(res.UselessAssigns)
	return res
}

// reachableStmts does a BFS from Entry, following only edges whose
// condition's abstract value does not rule them out: an If/Switch whose
// condition folds to a constant has exactly one live successor; everything
// else keeps all its CFG successors (spec §4.3's unreachable-branch rule).
func reachableStmts(m *ir.Method, cp *dataflow.Result) map[int]bool {
	cfg := m.CFG
	seen := make(map[int]bool)
	queue := []int{cfg.Entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true

		for _, next := range liveSuccessors(cfg, cur, cp) {
			if !seen[next] {
				queue = append(queue, next)
			}
		}
	}
	return seen
}

func liveSuccessors(cfg *ir.CFG, idx int, cp *dataflow.Result) []int {
	stmt := cfg.At(idx)
	switch s := stmt.(type) {
	case *ir.If:
		cond := icp.Eval(s.Cond, icp.FactAt(cp, idx))
		if cond.IsConst() {
			if cond.Int() != 0 {
				return []int{s.Then}
			}
			return []int{s.Else}
		}
		return []int{s.Then, s.Else}
	case *ir.Switch:
		cond := icp.Eval(s.Operand, icp.FactAt(cp, idx))
		if cond.IsConst() {
			for _, c := range s.Cases {
				if c.Value == cond.Int() {
					return []int{c.Target}
				}
			}
			return []int{s.Default}
		}
		targets := make([]int, 0, len(s.Cases)+1)
		for _, c := range s.Cases {
			targets = append(targets, c.Target)
		}
		return append(targets, s.Default)
	default:
		return cfg.Succs(idx)
	}
}

// isUselessAssign reports whether stmt is an Assign whose LHS is dead
// immediately after it and whose RHS cannot trap or have a side effect
// (spec §4.3's useless-assignment rule: "a variable assignment whose value
// is never subsequently used, and whose right-hand side has no side
// effect, may be removed").
func isUselessAssign(stmt ir.Stmt, lv *dataflow.Result, idx int) bool {
	assign, ok := stmt.(*ir.Assign)
	if !ok {
		return false
	}
	if ir.HasSideEffect(assign) {
		return false
	}
	return !livevar.LiveIn(lv, idx+1, assign.LHS)
}
