package pta

import (
	bitset "github.com/bits-and-blooms/bitset"
)

// objIndex interns CSObj values to stable bitset positions, shared across
// every points-to set in a single solver run (spec §9's "index-based
// representation" design note, applied to context-qualified objects).
type objIndex struct {
	byObj map[CSObj]uint
	order []CSObj
}

func newObjIndex() *objIndex {
	return &objIndex{byObj: make(map[CSObj]uint)}
}

func (x *objIndex) intern(o CSObj) uint {
	if i, ok := x.byObj[o]; ok {
		return i
	}
	i := uint(len(x.order))
	x.byObj[o] = i
	x.order = append(x.order, o)
	return i
}

func (x *objIndex) at(i uint) CSObj { return x.order[i] }

// PointsToSet is a set of abstract objects, backed by a bitset over the
// shared objIndex so union/membership/diff are word-parallel rather than
// per-map-entry (the same grounding as internal/livevar's live-variable
// sets: a retrieved compiler dataflow package building CFG analyses on
// bitsets rather than hash sets).
type PointsToSet struct {
	bits *bitset.BitSet
}

func newPointsToSet() *PointsToSet {
	return &PointsToSet{bits: bitset.New(64)}
}

// Add adds obj (by its interned index) to s, returning true if s grew.
func (s *PointsToSet) Add(i uint) bool {
	if s.bits.Test(i) {
		return false
	}
	s.bits.Set(i)
	return true
}

func (s *PointsToSet) Contains(i uint) bool { return s.bits.Test(i) }

// UnionWith merges other into s in place, returning true if s grew.
func (s *PointsToSet) UnionWith(other *PointsToSet) bool {
	before := s.bits.Clone()
	s.bits.InPlaceUnion(other.bits)
	return !before.Equal(s.bits)
}

// Objects returns every interned index currently in s.
func (s *PointsToSet) Objects() []uint {
	out := make([]uint, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}

func (s *PointsToSet) IsEmpty() bool { return s.bits.None() }
