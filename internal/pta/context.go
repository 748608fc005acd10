package pta

import "staticore/internal/ir"

// Context is an opaque call-string abstraction. The context-insensitive
// solver uses a single shared emptyContext; the context-sensitive solver
// uses 1-call-site-sensitivity: a context is the single most recent call
// site that produced it (spec §4.6, "1-CFA call-site sensitivity").
type Context struct {
	// site is nil for the context-insensitive solver's one shared context,
	// and for the initial context of an entry method under CS.
	site *ir.Invoke
}

var emptyContext = Context{}

func (c Context) String() string {
	if c.site == nil {
		return "[]"
	}
	return "[" + c.site.String() + "]"
}

// Selector derives the callee-side context for a call, and the object
// context a `new` site allocates under. Factoring this out is what lets the
// CI and CS solvers share one constraint-propagation engine (spec's design
// note on making context-sensitivity "a pluggable policy, not a forked
// algorithm").
type Selector interface {
	// SelectContext derives the context a call from (callerCtx, site)
	// executes callee under.
	SelectContext(callerCtx Context, site *ir.Invoke, callee *ir.Method) Context
	// SelectHeapContext derives the context a `new` at site (evaluated in
	// methodCtx) allocates its object under.
	SelectHeapContext(methodCtx Context, site *ir.New) Context
}

// ciSelector collapses every context to the single shared emptyContext —
// the context-insensitive policy.
type ciSelector struct{}

func (ciSelector) SelectContext(Context, *ir.Invoke, *ir.Method) Context { return emptyContext }
func (ciSelector) SelectHeapContext(Context, *ir.New) Context            { return emptyContext }

// csSelector implements 1-call-site sensitivity: the callee's context is
// exactly the call site that invoked it, discarding the caller's own
// context (spec §4.6's "finite call strings of length 1" design note).
type csSelector struct{}

func (csSelector) SelectContext(_ Context, site *ir.Invoke, _ *ir.Method) Context {
	return Context{site: site}
}

func (csSelector) SelectHeapContext(methodCtx Context, _ *ir.New) Context {
	// Objects are allocated under the context of the method that executes
	// the `new`: the allocating method's own call-site context.
	return methodCtx
}
