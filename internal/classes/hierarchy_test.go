package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/ir"
)

// fixtures build a small hierarchy:
//   Object <- Animal <- Dog
//                    <- Cat
//   interface Sound  <- Dog implements Sound
func buildFixture() (objectC, animalC, dogC, catC, soundI *ir.Class) {
	objectC = &ir.Class{Name: "Object"}
	animalC = &ir.Class{Name: "Animal", Super: objectC}
	soundI = &ir.Class{Name: "Sound", IsInterface: true}
	dogC = &ir.Class{Name: "Dog", Super: animalC, Interfaces: []*ir.Class{soundI}}
	catC = &ir.Class{Name: "Cat", Super: animalC}

	speak := &ir.Method{Declaring: animalC, Name: "speak", Subsignature: "speak()"}
	animalC.Methods = append(animalC.Methods, speak)
	dogSpeak := &ir.Method{Declaring: dogC, Name: "speak", Subsignature: "speak()"}
	dogC.Methods = append(dogC.Methods, dogSpeak)
	return
}

func TestDirectAndTransitiveSubclasses(t *testing.T) {
	objectC, animalC, dogC, catC, _ := buildFixture()
	h := NewHierarchy([]*ir.Class{objectC, animalC, dogC, catC})

	assert.ElementsMatch(t, []*ir.Class{animalC}, h.DirectSubclasses(objectC))
	assert.ElementsMatch(t, []*ir.Class{dogC, catC}, h.DirectSubclasses(animalC))
	assert.ElementsMatch(t, []*ir.Class{animalC, dogC, catC}, h.Subclasses(objectC))
}

func TestIsSubtypeThroughInterface(t *testing.T) {
	objectC, animalC, dogC, catC, soundI := buildFixture()
	h := NewHierarchy([]*ir.Class{objectC, animalC, dogC, catC, soundI})

	assert.True(t, h.IsSubtype(dogC, soundI))
	assert.False(t, h.IsSubtype(catC, soundI))
	assert.True(t, h.IsSubtype(dogC, objectC))
}

func TestDispatchResolvesOverride(t *testing.T) {
	objectC, animalC, dogC, catC, _ := buildFixture()
	h := NewHierarchy([]*ir.Class{objectC, animalC, dogC, catC})

	m := h.Dispatch(dogC, "speak()")
	assert.Equal(t, dogC, m.Declaring)

	m = h.Dispatch(catC, "speak()")
	assert.Equal(t, animalC, m.Declaring)
}
