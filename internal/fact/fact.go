// Package fact implements the per-program-point fact map used by constant
// propagation: a mapping from variable name to abstract lattice value, with
// an absent key treated as UNDEF.
package fact

import "staticore/internal/lattice"

// CPFact maps variable names to abstract values. The zero value is ready
// to use (an empty fact).
type CPFact struct {
	m map[string]lattice.Value
}

// New returns an empty fact.
func New() *CPFact {
	return &CPFact{m: make(map[string]lattice.Value)}
}

// Get returns the value of v, or UNDEF if v has no entry.
func (f *CPFact) Get(v string) lattice.Value {
	if f == nil || f.m == nil {
		return lattice.UndefVal()
	}
	val, ok := f.m[v]
	if !ok {
		return lattice.UndefVal()
	}
	return val
}

// Update sets v's value, unless it is UNDEF, in which case the key is
// removed (absence and UNDEF are the same fact).
func (f *CPFact) Update(v string, val lattice.Value) {
	if val.IsUndef() {
		f.Remove(v)
		return
	}
	if f.m == nil {
		f.m = make(map[string]lattice.Value)
	}
	f.m[v] = val
}

// Remove deletes v's entry, making it revert to UNDEF.
func (f *CPFact) Remove(v string) {
	if f.m == nil {
		return
	}
	delete(f.m, v)
}

// Clear empties the fact in place.
func (f *CPFact) Clear() {
	f.m = make(map[string]lattice.Value)
}

// Copy returns an independent copy of f.
func (f *CPFact) Copy() *CPFact {
	out := New()
	for k, v := range f.m {
		out.m[k] = v
	}
	return out
}

// CopyFrom overwrites f's contents with src's.
func (f *CPFact) CopyFrom(src *CPFact) {
	f.Clear()
	for k, v := range src.m {
		f.m[k] = v
	}
}

// Vars returns the variables with a non-UNDEF entry. Order is unspecified;
// callers that need determinism should sort.
func (f *CPFact) Vars() []string {
	vars := make([]string, 0, len(f.m))
	for k := range f.m {
		vars = append(vars, k)
	}
	return vars
}

// Equal is semantic equality: a ↔ b iff every variable (present in either
// map) has the same value, treating absence as UNDEF.
func (f *CPFact) Equal(o *CPFact) bool {
	for k, v := range f.m {
		if !v.Equal(o.Get(k)) {
			return false
		}
	}
	for k, v := range o.m {
		if !v.Equal(f.Get(k)) {
			return false
		}
	}
	return true
}

// MeetInto computes the pointwise meet of f and src, storing the result
// into f, and reports whether f changed.
func (f *CPFact) MeetInto(src *CPFact) bool {
	changed := false
	for k, v := range src.m {
		merged := lattice.Meet(f.Get(k), v)
		if !merged.Equal(f.Get(k)) {
			f.Update(k, merged)
			changed = true
		}
	}
	return changed
}
