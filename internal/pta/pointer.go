package pta

import (
	"fmt"

	"staticore/internal/heap"
	"staticore/internal/ir"
)

// CSVar qualifies a local variable by the context of the method it belongs
// to — the pointer-flow-graph node identity under context sensitivity
// (spec §4.6). Under CI, every CSVar shares emptyContext, which collapses
// it back to one node per Var exactly as plain Andersen's algorithm wants.
type CSVar struct {
	Ctx Context
	Var *ir.Var
}

func (v CSVar) String() string { return fmt.Sprintf("%s:%s", v.Ctx, v.Var.Name) }

// CSMethod qualifies a method by the context it executes under.
type CSMethod struct {
	Ctx    Context
	Method *ir.Method
}

func (m CSMethod) String() string { return fmt.Sprintf("%s:%s", m.Ctx, m.Method) }

// CSCallSite qualifies a call statement by its caller's context.
type CSCallSite struct {
	Ctx  Context
	Site *ir.Invoke
}

// CSObj qualifies an abstract heap object by its allocation context.
type CSObj struct {
	Ctx Context
	Obj *heap.Obj
}

func (o CSObj) String() string { return fmt.Sprintf("%s:%s", o.Ctx, o.Obj) }

// InstanceField identifies a (receiver object, field) points-to-graph node
// for `o.f` loads/stores — one node per concrete object instance rather
// than one per declaring class, since two objects of the same class have
// independent field values (spec §4.5 "field-sensitive" heap model).
type InstanceField struct {
	Base  CSObj
	Field *ir.Field
}

// ArrayIndex identifies a (base object) points-to-graph node for array
// element loads/stores. The engine is index-insensitive: all elements of
// one array object share a single node (spec §4.5 "array elements are
// merged into one representative slot per array object").
type ArrayIndex struct {
	Base CSObj
}
