// Package heap models abstract heap objects: one per allocation site for
// context-insensitive analysis, or one per (context, site) pair for
// context-sensitive analysis (spec §4.5/§4.6, "each `new` site names one
// abstract object per context"). Objects are interned so identity
// comparison and map-keying work by pointer equality.
package heap

import (
	"fmt"

	"staticore/internal/ir"
)

// Obj is an abstract heap object: the allocation site that created it, plus
// the class being allocated. CS qualifies this further by wrapping it in a
// context-tagged key (internal/pta's CSObj) rather than extending Obj
// itself, so the CI and CS solvers can share this type.
type Obj struct {
	Site  *ir.New
	Class *ir.Class
}

func (o *Obj) String() string {
	return fmt.Sprintf("%s@%d", o.Class.Name, o.Site.Index())
}

// Table interns Obj values by allocation site so that two lookups of the
// same `new` statement return the same *Obj, matching identity on which the
// points-to-set bitset indices are built (spec §9 design note on indexed
// object representation).
type Table struct {
	bySite map[*ir.New]*Obj
	order  []*Obj
}

// NewTable returns an empty object table.
func NewTable() *Table {
	return &Table{bySite: make(map[*ir.New]*Obj)}
}

// Intern returns the canonical Obj for a `new` site, creating it on first
// use. The object's class is taken from the site's own allocated class.
func (t *Table) Intern(site *ir.New) *Obj {
	if o, ok := t.bySite[site]; ok {
		return o
	}
	o := &Obj{Site: site, Class: site.Class}
	t.bySite[site] = o
	t.order = append(t.order, o)
	return o
}

// All returns every interned object, in first-seen order — used to build a
// deterministic index-to-object mapping for a bitset-backed points-to set.
func (t *Table) All() []*Obj { return t.order }

// Index assigns each interned object a stable 0-based index suitable as a
// bitset position. Calling Index before every site has been Interned
// produces an incomplete mapping; callers intern all sites up front.
func (t *Table) Index() map[*Obj]uint {
	idx := make(map[*Obj]uint, len(t.order))
	for i, o := range t.order {
		idx[o] = uint(i)
	}
	return idx
}
