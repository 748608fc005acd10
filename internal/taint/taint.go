package taint

import (
	"sort"

	"staticore/internal/callgraph"
	"staticore/internal/ir"
	"staticore/internal/pta"
)

// Object is a synthesized taint source: the call site that produced it,
// qualified by the static type flowing out of it, per spec §4.8's
// "(source-call-site, type)" taint-object key. Two source calls at the same
// site but returning different static types (possible under overloading)
// are kept distinct, the same way heap.Obj distinguishes allocation sites.
type Object struct {
	Site *ir.Invoke
	Type ir.Type
}

// Flow is one reported source-to-sink taint path.
type Flow struct {
	Source *ir.Invoke
	Sink   *ir.Invoke
	ArgVar *ir.Var
}

// fieldSlot and arraySlot mirror internal/icpi's flow-insensitive heap
// model: taint propagates through the same PTA-resolved aliasing.
type fieldSlot struct {
	Obj   pta.CSObj
	Field *ir.Field
}
type arraySlot struct{ Obj pta.CSObj }

// Manager runs a fixed-point taint propagation over a reachable call graph,
// reusing an already-computed (typically CS) pointer-analysis Result for
// aliasing. It rides on the PTA solver's output rather than hooking its
// worklist directly: every call site and store/load site the solver already
// discovered reachable is replayed here against a boolean taint lattice
// instead of points-to sets, which keeps the taint engine decoupled from
// Andersen's own constraint bookkeeping while still sharing its alias
// conclusions (spec §4.8).
type Manager struct {
	cfg    Config
	pta    *pta.Result
	varSet map[*ir.Var]map[Object]bool
	fields map[fieldSlot]map[Object]bool
	arrays map[arraySlot]map[Object]bool
	statik map[*ir.Field]map[Object]bool
	flows  []Flow
	seen   map[Flow]bool
}

// NewManager builds a taint manager over an already-solved pointer analysis.
func NewManager(cfg Config, ptaResult *pta.Result) *Manager {
	return &Manager{
		cfg:    cfg,
		pta:    ptaResult,
		varSet: make(map[*ir.Var]map[Object]bool),
		fields: make(map[fieldSlot]map[Object]bool),
		arrays: make(map[arraySlot]map[Object]bool),
		statik: make(map[*ir.Field]map[Object]bool),
		seen:   make(map[Flow]bool),
	}
}

// Analyze runs the propagation to a fixed point and returns every
// source-to-sink flow discovered, sorted for deterministic output.
func Analyze(cfg Config, ptaResult *pta.Result) []Flow {
	m := NewManager(cfg, ptaResult)
	m.run()
	return m.sortedFlows()
}

func (m *Manager) run() {
	cg := m.pta.CallGraph()
	changed := true
	for changed {
		changed = false
		for _, method := range cg.ReachableMethods() {
			if method.CFG == nil {
				continue
			}
			for _, stmt := range method.CFG.Stmts {
				if m.step(stmt, cg) {
					changed = true
				}
			}
		}
	}
}

// step applies one statement's taint effect, returning whether anything
// grew. Re-run to a fixed point since taint (like points-to) only ever
// grows monotonically across rounds.
func (m *Manager) step(stmt ir.Stmt, cg *callgraph.Graph) bool {
	switch s := stmt.(type) {
	case *ir.Assign:
		switch rhs := s.RHS.(type) {
		case ir.VarExpr:
			return m.addVar(s.LHS, m.varTaint(rhs.V))
		case ir.CastExpr:
			return m.addVar(s.LHS, m.varTaint(rhs.Operand))
		case ir.InstanceFieldExpr:
			grew := false
			for _, obj := range m.pta.PointsToAnyContext(rhs.Base) {
				if m.addVar(s.LHS, m.fields[fieldSlot{Obj: obj, Field: rhs.Field}]) {
					grew = true
				}
			}
			return grew
		case ir.ArrayAccessExpr:
			grew := false
			for _, obj := range m.pta.PointsToAnyContext(rhs.Base) {
				if m.addVar(s.LHS, m.arrays[arraySlot{Obj: obj}]) {
					grew = true
				}
			}
			return grew
		case ir.StaticFieldExpr:
			return m.addVar(s.LHS, m.statik[rhs.Field])
		}
		return false

	case *ir.StoreField:
		grew := false
		rhsTaint := m.exprTaint(s.RHS)
		for _, obj := range m.pta.PointsToAnyContext(s.Base) {
			if m.addField(fieldSlot{Obj: obj, Field: s.Field}, rhsTaint) {
				grew = true
			}
		}
		return grew

	case *ir.StoreArray:
		grew := false
		rhsTaint := m.exprTaint(s.RHS)
		for _, obj := range m.pta.PointsToAnyContext(s.Base) {
			if m.addArray(arraySlot{Obj: obj}, rhsTaint) {
				grew = true
			}
		}
		return grew

	case *ir.StoreStaticField:
		return m.addStatic(s.Field, m.exprTaint(s.RHS))

	case *ir.Invoke:
		return m.stepInvoke(s, cg)
	}
	return false
}

func (m *Manager) stepInvoke(inv *ir.Invoke, cg *callgraph.Graph) bool {
	grew := false

	if rule, ok := m.matchSource(inv); ok {
		_ = rule
		if inv.LHS != nil {
			obj := Object{Site: inv, Type: inv.LHS.Type}
			if m.addVar(inv.LHS, map[Object]bool{obj: true}) {
				grew = true
			}
		}
	}

	if rule, ok := m.matchTransfer(inv); ok {
		src := m.transferSource(inv, rule.FromArg)
		if rule.ToResult && inv.LHS != nil {
			if m.addVar(inv.LHS, src) {
				grew = true
			}
		}
		if rule.HasToArg {
			// Same indexing as transferSource: 0 is the receiver of an
			// instance call.
			var dst *ir.Var
			argIdx := rule.ToArg
			if inv.Recv != nil {
				argIdx--
				if rule.ToArg == 0 {
					dst = inv.Recv
				}
			}
			if dst == nil && argIdx >= 0 && argIdx < len(inv.Args) {
				dst = inv.Args[argIdx]
			}
			if dst != nil && m.addVar(dst, src) {
				grew = true
			}
		}
	}

	for _, sink := range m.cfg.Sinks {
		if !matchesMethod(sink.Method, inv.Method) || sink.ArgIndex >= len(inv.Args) {
			continue
		}
		arg := inv.Args[sink.ArgIndex]
		for obj := range m.varTaint(arg) {
			f := Flow{Source: obj.Site, Sink: inv, ArgVar: arg}
			if !m.seen[f] {
				m.seen[f] = true
				m.flows = append(m.flows, f)
				grew = true
			}
		}
	}

	// Ordinary parameter/return propagation into and out of any reachable
	// callee, independent of transfer rules: taint that reaches an argument
	// reaches the matching formal parameter, and taint on a callee's
	// returned variable reaches the call's LHS.
	for _, e := range cg.Edges() {
		if e.CallSite != inv {
			continue
		}
		callee := e.Callee
		for i, arg := range inv.Args {
			if i >= len(callee.Params) {
				break
			}
			if m.addVar(callee.Params[i], m.varTaint(arg)) {
				grew = true
			}
		}
		if inv.LHS != nil && callee.CFG != nil {
			for _, rs := range callee.CFG.Stmts {
				ret, ok := rs.(*ir.Return)
				if !ok || ret.Value == nil {
					continue
				}
				if v, ok := ret.Value.(ir.VarExpr); ok {
					if m.addVar(inv.LHS, m.varTaint(v.V)) {
						grew = true
					}
				}
			}
		}
	}

	return grew
}

func (m *Manager) exprTaint(e ir.Expr) map[Object]bool {
	switch v := e.(type) {
	case ir.VarExpr:
		return m.varTaint(v.V)
	case ir.CastExpr:
		return m.varTaint(v.Operand)
	default:
		return nil
	}
}

func (m *Manager) varTaint(v *ir.Var) map[Object]bool { return m.varSet[v] }

func (m *Manager) addVar(v *ir.Var, src map[Object]bool) bool {
	if len(src) == 0 {
		return false
	}
	dst := m.varSet[v]
	if dst == nil {
		dst = make(map[Object]bool)
		m.varSet[v] = dst
	}
	return unionInto(dst, src)
}

func (m *Manager) addField(k fieldSlot, src map[Object]bool) bool {
	if len(src) == 0 {
		return false
	}
	dst := m.fields[k]
	if dst == nil {
		dst = make(map[Object]bool)
		m.fields[k] = dst
	}
	return unionInto(dst, src)
}

func (m *Manager) addArray(k arraySlot, src map[Object]bool) bool {
	if len(src) == 0 {
		return false
	}
	dst := m.arrays[k]
	if dst == nil {
		dst = make(map[Object]bool)
		m.arrays[k] = dst
	}
	return unionInto(dst, src)
}

func (m *Manager) addStatic(f *ir.Field, src map[Object]bool) bool {
	if len(src) == 0 {
		return false
	}
	dst := m.statik[f]
	if dst == nil {
		dst = make(map[Object]bool)
		m.statik[f] = dst
	}
	return unionInto(dst, src)
}

// transferSource resolves a TransferRule.FromArg index: receiver methods
// (instance invokes) treat index 0 as the receiver itself, matching how
// spec rule files write "fromArg: 0" to mean "the receiver" for mutator
// methods like StringBuilder.append.
func (m *Manager) transferSource(inv *ir.Invoke, fromArg int) map[Object]bool {
	if inv.Recv != nil && fromArg == 0 {
		return m.varTaint(inv.Recv)
	}
	argIdx := fromArg
	if inv.Recv != nil {
		argIdx--
	}
	if argIdx < 0 || argIdx >= len(inv.Args) {
		return nil
	}
	return m.varTaint(inv.Args[argIdx])
}

func (m *Manager) matchSource(inv *ir.Invoke) (SourceRule, bool) {
	for _, r := range m.cfg.Sources {
		if matchesMethod(r.Method, inv.Method) {
			return r, true
		}
	}
	return SourceRule{}, false
}

func (m *Manager) matchTransfer(inv *ir.Invoke) (TransferRule, bool) {
	for _, r := range m.cfg.Transfers {
		if matchesMethod(r.Method, inv.Method) {
			return r, true
		}
	}
	return TransferRule{}, false
}

func matchesMethod(k MethodKey, ref ir.MethodRef) bool {
	return ref.Declaring != nil && ref.Declaring.Name == k.Class && ref.Subsig == k.Subsig
}

func unionInto(dst, src map[Object]bool) bool {
	grew := false
	for o := range src {
		if !dst[o] {
			dst[o] = true
			grew = true
		}
	}
	return grew
}

func (m *Manager) sortedFlows() []Flow {
	out := make([]Flow, len(m.flows))
	copy(out, m.flows)
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].Source.Index(), out[j].Source.Index()
		if si != sj {
			return si < sj
		}
		return out[i].Sink.Index() < out[j].Sink.Index()
	})
	return out
}
