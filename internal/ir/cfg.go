package ir

// CFG is a statement-level control-flow graph: one node per ir.Stmt plus
// synthetic Entry/Exit sentinels at index 0 and len(Stmts)-1. Statement
// indices are stable and are what internal/dataflow's worklist, internal/
// livevar's bitsets, and the sorted dead-code report key off of.
type CFG struct {
	Stmts []Stmt
	succs [][]int
	preds [][]int

	Entry int
	Exit  int
}

// NewCFG builds a CFG from a flat, already-indexed statement list plus the
// explicit intra-procedural edges implied by each statement's control flow
// (If/Goto/Switch targets, fallthrough to the next statement for everything
// else, and every Return into Exit). body must not itself contain the
// Entry/Exit sentinels; NewCFG adds them.
func NewCFG(body []Stmt) *CFG {
	n := len(body)
	stmts := make([]Stmt, n+2)
	entry := &Nop{}
	exit := &Nop{}
	stmts[0] = entry
	copy(stmts[1:], body)
	stmts[n+1] = exit

	for i, s := range stmts {
		s.setIndex(i)
	}

	g := &CFG{
		Stmts: stmts,
		succs: make([][]int, n+2),
		preds: make([][]int, n+2),
		Entry: 0,
		Exit:  n + 1,
	}

	g.addEdge(g.Entry, 1)
	for i := 1; i <= n; i++ {
		switch s := stmts[i].(type) {
		case *If:
			g.addEdge(i, s.Then)
			g.addEdge(i, s.Else)
		case *Goto:
			g.addEdge(i, s.Target)
		case *Switch:
			for _, c := range s.Cases {
				g.addEdge(i, c.Target)
			}
			g.addEdge(i, s.Default)
		case *Return:
			g.addEdge(i, g.Exit)
		default:
			g.addEdge(i, i+1)
		}
	}
	return g
}

func (g *CFG) addEdge(from, to int) {
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

// Succs returns the statement indices i's control flow may transfer to.
func (g *CFG) Succs(i int) []int { return g.succs[i] }

// Preds returns the statement indices that may transfer control to i.
func (g *CFG) Preds(i int) []int { return g.preds[i] }

// NumNodes is len(Stmts), including the Entry/Exit sentinels.
func (g *CFG) NumNodes() int { return len(g.Stmts) }

// At returns the statement at index i (Entry/Exit return their Nop sentinel).
func (g *CFG) At(i int) Stmt { return g.Stmts[i] }

// RemoveEdge drops a single from->to edge, e.g. to prune an If or Switch
// branch proven unreachable. internal/dcd does not call it: it leaves the
// CFG unchanged and skips pruned branches in its own reachability walk.
func (g *CFG) RemoveEdge(from, to int) {
	g.succs[from] = removeInt(g.succs[from], to)
	g.preds[to] = removeInt(g.preds[to], from)
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
