package ir

import "strings"

// Class is a declared class or interface. The hierarchy links
// (Super/Interfaces) are populated by whatever builds the IR
// (internal/irtext's lowering, or a test fixture); this package only models the node
// shape, not hierarchy navigation — that is internal/classes' job (the
// "class hierarchy" external collaborator of spec §6).
type Class struct {
	Name        string
	IsInterface bool
	IsAbstract  bool
	Super       *Class
	Interfaces  []*Class
	Fields      []*Field
	Methods     []*Method
}

func (c *Class) String() string { return c.Name }

// DeclaredMethod returns the method c itself declares matching subsignature,
// or nil. It does not walk the superclass chain — that is dispatch()'s job
// (internal/classes).
func (c *Class) DeclaredMethod(subsig string) *Method {
	for _, m := range c.Methods {
		if m.Subsignature == subsig {
			return m
		}
	}
	return nil
}

// Field is a static or instance field declaration.
type Field struct {
	Declaring *Class
	Name      string
	Type      Type
	Static    bool
}

func (f *Field) String() string { return f.Declaring.Name + "." + f.Name }

// Ref is a stable identity key for a field, usable as a map key regardless
// of which class reference observed it (internal/irtext's lowering creates
// each field once per declaring class + name).
func (f *Field) Ref() string { return f.Declaring.Name + "#" + f.Name }

// Method is a declared method. Params excludes the implicit receiver;
// This is nil for static methods.
type Method struct {
	Declaring    *Class
	Name         string
	Params       []*Var
	This         *Var
	ReturnType   Type // nil for void
	Static       bool
	Abstract     bool
	Subsignature string
	CFG          *CFG
	vars         []*Var
}

func (m *Method) String() string { return m.Declaring.Name + "." + m.Name }

// Subsig builds the dispatch key: name + param types + return type. Two
// methods override each other iff their subsignatures match, independent of
// declaring class (spec §4.4 "dispatch(c, subsignature)").
func Subsig(name string, params []Type, ret Type) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if ret != nil {
		b.WriteByte(':')
		b.WriteString(ret.String())
	}
	return b.String()
}

// NewVar interns a local variable in m, assigning it a stable index used by
// internal/livevar and internal/pta's index-based pointer representation.
func (m *Method) NewVar(name string, t Type) *Var {
	v := &Var{Name: name, Type: t, Method: m, Index: len(m.vars)}
	m.vars = append(m.vars, v)
	return v
}

// Vars returns every local variable interned via NewVar, in index order.
func (m *Method) Vars() []*Var { return m.vars }

// Var is a local variable (including formal parameters and `this`).
type Var struct {
	Name   string
	Type   Type
	Method *Method
	Index  int
	IsThis bool
}

func (v *Var) String() string { return v.Name }
