package icpi

import (
	"staticore/internal/fact"
	"staticore/internal/icp"
	"staticore/internal/ir"
	"staticore/internal/lattice"
	"staticore/internal/pta"
)

// fieldKey is a flow-insensitive heap storage slot for one object's
// instance field. Two StoreField statements alias (and must be met
// together) whenever their base pointers' points-to sets, per pointer
// analysis, share an object (spec §4.7's aliasMap).
type fieldKey struct {
	Obj   pta.CSObj
	Field *ir.Field
}

// arrayKey is a flow-insensitive array storage slot, keyed by both the
// array object and the store's index abstract value (spec §4.7's valMap
// key "(Obj, AbstractValue) for array indices"): a store through a known
// CONST(i) index lands in its own per-index slot, while a store through an
// index the solver can't pin down to a constant is tagged Idx=NAC — "some
// write from an unknown index" (spec §9's open question, preserved
// exactly) — and must be considered by every read through that object
// regardless of the read's own index.
type arrayKey struct {
	Obj pta.CSObj
	Idx lattice.Value
}

// heapModel is the global, flow-insensitive store internal/icpi layers on
// top of the method-local, flow-sensitive CPFact values: valMap for
// instance fields, arrayMap for arrays, staticLoadMap for static fields (spec §6's
// "heap abstraction: aliasMap, valMap, staticLoadMap").
type heapModel struct {
	ptaResult     *pta.Result
	valMap        map[fieldKey]lattice.Value
	arrayMap      map[arrayKey]lattice.Value
	staticLoadMap map[*ir.Field]lattice.Value
}

func newHeapModel(pr *pta.Result) *heapModel {
	return &heapModel{
		ptaResult:     pr,
		valMap:        make(map[fieldKey]lattice.Value),
		arrayMap:      make(map[arrayKey]lattice.Value),
		staticLoadMap: make(map[*ir.Field]lattice.Value),
	}
}

// rebuild recomputes the heap model from scratch given the current
// per-node local facts and a pointer-analysis result: for every store
// statement reachable in the ICFG, evaluate its RHS under the writing
// node's local fact and meet that value into every heap slot the base
// pointer's points-to set names. Called repeatedly by the outer fixpoint
// loop (internal/icpi's Solve) since a field's value can only get less
// precise as more writers are discovered — never more precise — so
// repeated rebuilds converge monotonically.
func (h *heapModel) rebuild(g *ICFG, localIn map[Node]*fact.CPFact) {
	for k := range h.valMap {
		delete(h.valMap, k)
	}
	for k := range h.arrayMap {
		delete(h.arrayMap, k)
	}
	for k := range h.staticLoadMap {
		delete(h.staticLoadMap, k)
	}

	for _, n := range g.Nodes() {
		in := localIn[n]
		if in == nil {
			continue
		}
		switch s := g.Stmt(n).(type) {
		case *ir.StoreField:
			val := icp.Eval(s.RHS, in)
			for _, obj := range h.ptaResult.PointsToAnyContext(s.Base) {
				h.mergeField(fieldKey{Obj: obj, Field: s.Field}, val)
			}
		case *ir.StoreArray:
			idxVal := icp.Eval(s.Index, in)
			if idxVal.IsUndef() {
				continue
			}
			val := icp.Eval(s.RHS, in)
			for _, obj := range h.ptaResult.PointsToAnyContext(s.Base) {
				h.mergeArray(arrayKey{Obj: obj, Idx: idxVal}, val)
			}
		case *ir.StoreStaticField:
			val := icp.Eval(s.RHS, in)
			h.mergeStatic(s.Field, val)
		}
	}
}

func (h *heapModel) mergeField(k fieldKey, v lattice.Value) {
	cur, ok := h.valMap[k]
	if !ok {
		h.valMap[k] = v
		return
	}
	h.valMap[k] = lattice.Meet(cur, v)
}

func (h *heapModel) mergeArray(k arrayKey, v lattice.Value) {
	cur, ok := h.arrayMap[k]
	if !ok {
		h.arrayMap[k] = v
		return
	}
	h.arrayMap[k] = lattice.Meet(cur, v)
}

func (h *heapModel) mergeStatic(f *ir.Field, v lattice.Value) {
	cur, ok := h.staticLoadMap[f]
	if !ok {
		h.staticLoadMap[f] = v
		return
	}
	h.staticLoadMap[f] = lattice.Meet(cur, v)
}

// load reads the merged value for a field read through base, whose
// points-to set (in any context) may name several objects — the read's
// value is the meet of every aliased object's slot (spec §4.7); an object
// with no recorded write to the field contributes UNDEF.
func (h *heapModel) load(base *ir.Var, field *ir.Field) lattice.Value {
	objs := h.ptaResult.PointsToAnyContext(base)
	if len(objs) == 0 {
		return lattice.UndefVal()
	}
	val := lattice.UndefVal()
	for _, o := range objs {
		if v, ok := h.valMap[fieldKey{Obj: o, Field: field}]; ok {
			val = lattice.Meet(val, v)
		}
	}
	return val
}

// loadArray reads an array element through base at abstract index idx,
// applying spec §4.7's CONST/NAC dual-meet rule: a read at a known
// CONST(i) index must meet both the per-index CONST(i) slot (an exact
// write to that index) and the NAC slot (a write through some unknown
// index, which could have aliased index i) — either one missing reads as
// UNDEF for that slot specifically, since no write is known to have
// touched it. A NAC (unknown) read index can't rule out any prior write,
// so it meets every slot ever recorded for the object regardless of that
// slot's own index (no recorded slot reads as UNDEF). An UNDEF index names no concrete element yet, so the
// read itself is UNDEF.
func (h *heapModel) loadArray(base *ir.Var, idx lattice.Value) lattice.Value {
	if idx.IsUndef() {
		return lattice.UndefVal()
	}
	objs := h.ptaResult.PointsToAnyContext(base)
	if len(objs) == 0 {
		return lattice.UndefVal()
	}
	val := lattice.UndefVal()
	for _, o := range objs {
		if idx.IsConst() {
			slot := lattice.UndefVal()
			if v, ok := h.arrayMap[arrayKey{Obj: o, Idx: idx}]; ok {
				slot = lattice.Meet(slot, v)
			}
			if v, ok := h.arrayMap[arrayKey{Obj: o, Idx: lattice.NACVal()}]; ok {
				slot = lattice.Meet(slot, v)
			}
			val = lattice.Meet(val, slot)
			continue
		}
		// idx is NAC: any recorded write to o, at any index, may alias it.
		for k, v := range h.arrayMap {
			if k.Obj != o {
				continue
			}
			val = lattice.Meet(val, v)
		}
	}
	return val
}

func (h *heapModel) loadStatic(f *ir.Field) lattice.Value {
	if v, ok := h.staticLoadMap[f]; ok {
		return v
	}
	return lattice.UndefVal()
}

// snapshot copies the current maps so a caller can detect whether rebuild
// changed anything (the outer Solve loop's convergence check).
func (h *heapModel) snapshot() *heapModel {
	cp := newHeapModel(h.ptaResult)
	for k, v := range h.valMap {
		cp.valMap[k] = v
	}
	for k, v := range h.arrayMap {
		cp.arrayMap[k] = v
	}
	for k, v := range h.staticLoadMap {
		cp.staticLoadMap[k] = v
	}
	return cp
}

func (h *heapModel) equal(o *heapModel) bool {
	if len(h.valMap) != len(o.valMap) || len(h.arrayMap) != len(o.arrayMap) || len(h.staticLoadMap) != len(o.staticLoadMap) {
		return false
	}
	for k, v := range h.valMap {
		if ov, ok := o.valMap[k]; !ok || !ov.Equal(v) {
			return false
		}
	}
	for k, v := range h.arrayMap {
		if ov, ok := o.arrayMap[k]; !ok || !ov.Equal(v) {
			return false
		}
	}
	for k, v := range h.staticLoadMap {
		if ov, ok := o.staticLoadMap[k]; !ok || !ov.Equal(v) {
			return false
		}
	}
	return true
}
