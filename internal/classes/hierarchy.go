// Package classes is the class-hierarchy navigation layer CHA and PTA both
// depend on: it answers "what's above/below this class" and "which method
// does this dispatch resolve to", without owning the Class/Method node shape
// itself (that lives in internal/ir, to avoid a cycle between the two).
package classes

import "staticore/internal/ir"

// Hierarchy is the external collaborator spec §6 calls "class hierarchy":
// given a class table, answer subtype and dispatch queries. CHA (internal/
// cha) and the CS/CI pointer analyses (internal/pta) both consume it through
// this interface rather than the concrete type, so a test can substitute a
// hand-built fixture.
type Hierarchy interface {
	// DirectSubclasses returns classes whose Super is c.
	DirectSubclasses(c *ir.Class) []*ir.Class
	// DirectSubinterfaces returns interfaces that directly extend c.
	DirectSubinterfaces(c *ir.Class) []*ir.Class
	// DirectImplementors returns non-interface classes that directly list c
	// among their Interfaces.
	DirectImplementors(c *ir.Class) []*ir.Class
	// Subclasses returns every transitive subclass, subinterface, and
	// implementor of c, c excluded.
	Subclasses(c *ir.Class) []*ir.Class
	// IsSubtype reports whether sub is c or a transitive subclass/
	// subinterface/implementor of c.
	IsSubtype(sub, c *ir.Class) bool
	// Dispatch resolves a virtual or interface call on a runtime class
	// against subsig, walking the superclass chain if recv itself has no
	// matching declaration (spec §4.4 dispatch(c, subsignature)).
	Dispatch(recv *ir.Class, subsig string) *ir.Method
	// AllClasses returns every class registered in the table.
	AllClasses() []*ir.Class
}

// table is the concrete in-memory Hierarchy built once from a fully linked
// set of ir.Class nodes (Super/Interfaces already populated by whoever
// constructs the IR — internal/irtext's builder, or a test fixture).
type table struct {
	classes     []*ir.Class
	subclasses  map[*ir.Class][]*ir.Class // direct Super-edge children
	subifaces   map[*ir.Class][]*ir.Class // direct interface-extends children
	implementors map[*ir.Class][]*ir.Class // direct classes implementing an interface
}

// NewHierarchy indexes classes into a Hierarchy. classes must already have
// Super/Interfaces wired; NewHierarchy only builds the reverse indices.
func NewHierarchy(all []*ir.Class) Hierarchy {
	t := &table{
		classes:      all,
		subclasses:   make(map[*ir.Class][]*ir.Class),
		subifaces:    make(map[*ir.Class][]*ir.Class),
		implementors: make(map[*ir.Class][]*ir.Class),
	}
	for _, c := range all {
		if c.Super != nil {
			t.subclasses[c.Super] = append(t.subclasses[c.Super], c)
		}
		for _, iface := range c.Interfaces {
			if c.IsInterface {
				t.subifaces[iface] = append(t.subifaces[iface], c)
			} else {
				t.implementors[iface] = append(t.implementors[iface], c)
			}
		}
	}
	return t
}

func (t *table) DirectSubclasses(c *ir.Class) []*ir.Class    { return t.subclasses[c] }
func (t *table) DirectSubinterfaces(c *ir.Class) []*ir.Class { return t.subifaces[c] }
func (t *table) DirectImplementors(c *ir.Class) []*ir.Class  { return t.implementors[c] }
func (t *table) AllClasses() []*ir.Class                     { return t.classes }

// Subclasses does a BFS over direct-subclass/subinterface/implementor edges,
// since an interface's "subclasses" for dispatch purposes include both
// sub-interfaces and every class implementing it transitively through them.
func (t *table) Subclasses(c *ir.Class) []*ir.Class {
	seen := make(map[*ir.Class]bool)
	var out []*ir.Class
	queue := t.directChildren(c)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, t.directChildren(cur)...)
	}
	return out
}

func (t *table) directChildren(c *ir.Class) []*ir.Class {
	var out []*ir.Class
	out = append(out, t.subclasses[c]...)
	out = append(out, t.subifaces[c]...)
	out = append(out, t.implementors[c]...)
	return out
}

func (t *table) IsSubtype(sub, c *ir.Class) bool {
	if sub == c {
		return true
	}
	for cur := sub; cur != nil; cur = cur.Super {
		if cur == c {
			return true
		}
		for _, iface := range cur.Interfaces {
			if t.ifaceIsSubtype(iface, c) {
				return true
			}
		}
	}
	return false
}

func (t *table) ifaceIsSubtype(iface, c *ir.Class) bool {
	if iface == c {
		return true
	}
	for _, super := range iface.Interfaces {
		if t.ifaceIsSubtype(super, c) {
			return true
		}
	}
	return false
}

// Dispatch walks recv's superclass chain, returning the first non-abstract
// declared method matching subsig. Interfaces have no method body to
// dispatch to directly; callers resolve interface calls against each
// possible receiver class returned by pointer analysis, not against the
// interface itself.
func (t *table) Dispatch(recv *ir.Class, subsig string) *ir.Method {
	for c := recv; c != nil; c = c.Super {
		if m := c.DeclaredMethod(subsig); m != nil && !m.Abstract {
			return m
		}
	}
	return nil
}
