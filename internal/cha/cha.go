// Package cha builds a whole-program call graph via class-hierarchy
// analysis: a BFS from an entry method that, at each virtual or interface
// call site, resolves every class in the callee's declaring type's
// subtree rather than using points-to information (spec §4.4). It shares
// internal/callgraph.Graph with internal/pta so downstream consumers
// (internal/icpi's ICFG, the CLI's printing) don't need to know which
// algorithm produced a graph.
package cha

import (
	"staticore/internal/callgraph"
	"staticore/internal/classes"
	"staticore/internal/ir"
)

// Build runs CHA starting from entry and returns the resulting call graph.
func Build(entry *ir.Method, hierarchy classes.Hierarchy) *callgraph.Graph {
	g := callgraph.New()
	if entry == nil {
		return g
	}

	var worklist []*ir.Method
	if g.AddReachable(entry) {
		worklist = append(worklist, entry)
	}

	seenEdge := make(map[edgeKey]bool)

	for len(worklist) > 0 {
		m := worklist[0]
		worklist = worklist[1:]
		if m.CFG == nil {
			continue
		}
		for _, stmt := range m.CFG.Stmts {
			inv, ok := stmt.(*ir.Invoke)
			if !ok {
				continue
			}
			for _, callee := range resolve(inv, hierarchy) {
				key := edgeKey{inv, callee}
				if seenEdge[key] {
					continue
				}
				seenEdge[key] = true

				g.AddEdge(callgraph.Edge{
					CallSite: inv,
					Caller:   m,
					Callee:   callee,
					Kind:     edgeKindOf(inv.Kind_),
				})
				if g.AddReachable(callee) {
					worklist = append(worklist, callee)
				}
			}
		}
	}
	return g
}

type edgeKey struct {
	site   *ir.Invoke
	callee *ir.Method
}

// resolve implements spec §4.4's four call-resolution strategies.
func resolve(inv *ir.Invoke, h classes.Hierarchy) []*ir.Method {
	switch inv.Kind_ {
	case ir.InvokeStatic:
		if m := inv.Method.Declaring.DeclaredMethod(inv.Method.Subsig); m != nil {
			return []*ir.Method{m}
		}
		return nil
	case ir.InvokeSpecial:
		// Special calls (constructors, super calls, private methods) resolve
		// against the declared class alone: no subclass is considered, but
		// Dispatch still walks up the declared class's superclass chain.
		if m := h.Dispatch(inv.Method.Declaring, inv.Method.Subsig); m != nil {
			return []*ir.Method{m}
		}
		return nil
	case ir.InvokeVirtual, ir.InvokeInterface:
		declClass := inv.Method.Declaring
		var targets []*ir.Method
		if m := h.Dispatch(declClass, inv.Method.Subsig); m != nil {
			targets = append(targets, m)
		}
		for _, sub := range h.Subclasses(declClass) {
			if sub.IsInterface || sub.IsAbstract {
				continue
			}
			if m := h.Dispatch(sub, inv.Method.Subsig); m != nil {
				targets = append(targets, m)
			}
		}
		return dedupMethods(targets)
	default:
		return nil
	}
}

func dedupMethods(ms []*ir.Method) []*ir.Method {
	seen := make(map[*ir.Method]bool, len(ms))
	out := ms[:0]
	for _, m := range ms {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
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
