package fact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/lattice"
)

func TestAbsentIsUndef(t *testing.T) {
	f := New()
	assert.True(t, f.Get("x").IsUndef())
}

func TestUpdateAndRemove(t *testing.T) {
	f := New()
	f.Update("x", lattice.ConstVal(3))
	assert.True(t, f.Get("x").Equal(lattice.ConstVal(3)))

	f.Remove("x")
	assert.True(t, f.Get("x").IsUndef())

	// Updating to UNDEF also clears the key.
	f.Update("y", lattice.ConstVal(1))
	f.Update("y", lattice.UndefVal())
	assert.Equal(t, 0, len(f.Vars()))
}

func TestEqualTreatsAbsentAsUndef(t *testing.T) {
	a := New()
	b := New()
	a.Update("x", lattice.ConstVal(5))
	b.Update("x", lattice.ConstVal(5))
	b.Update("y", lattice.UndefVal()) // no-op, y stays absent
	assert.True(t, a.Equal(b))
}

func TestMeetInto(t *testing.T) {
	dst := New()
	dst.Update("x", lattice.ConstVal(1))
	src := New()
	src.Update("x", lattice.ConstVal(2))
	src.Update("y", lattice.ConstVal(9))

	changed := dst.MeetInto(src)
	assert.True(t, changed)
	assert.True(t, dst.Get("x").IsNAC())
	assert.True(t, dst.Get("y").Equal(lattice.ConstVal(9)))

	// A second identical meet makes no further change.
	changed = dst.MeetInto(src)
	assert.False(t, changed)
}

func TestCopyIndependence(t *testing.T) {
	a := New()
	a.Update("x", lattice.ConstVal(1))
	b := a.Copy()
	b.Update("x", lattice.ConstVal(2))
	assert.True(t, a.Get("x").Equal(lattice.ConstVal(1)))
	assert.True(t, b.Get("x").Equal(lattice.ConstVal(2)))
}
