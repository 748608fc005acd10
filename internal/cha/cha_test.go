package cha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/classes"
	"staticore/internal/ir"
)

// Animal.speak() <- Dog.speak() override
// main() calls a.speak() virtually where a: Animal but actual objects may
// be Animal or Dog — CHA must resolve to both.
func buildProgram() (*ir.Method, classes.Hierarchy) {
	animal := &ir.Class{Name: "Animal"}
	dog := &ir.Class{Name: "Dog", Super: animal}

	speak := &ir.Method{Declaring: animal, Name: "speak", Subsignature: "speak()"}
	animal.Methods = append(animal.Methods, speak)
	dogSpeak := &ir.Method{Declaring: dog, Name: "speak", Subsignature: "speak()"}
	dog.Methods = append(dog.Methods, dogSpeak)

	h := classes.NewHierarchy([]*ir.Class{animal, dog})

	mainC := &ir.Class{Name: "Main"}
	main := &ir.Method{Declaring: mainC, Name: "main", Static: true}
	a := main.NewVar("a", ir.ClassType{Class: animal})
	call := &ir.Invoke{
		Kind_:  ir.InvokeVirtual,
		Recv:   a,
		Method: ir.MethodRef{Declaring: animal, Subsig: "speak()"},
	}
	main.CFG = ir.NewCFG([]ir.Stmt{call, &ir.Return{}})
	mainC.Methods = append(mainC.Methods, main)

	return main, h
}

func TestCHAResolvesAllOverrides(t *testing.T) {
	main, h := buildProgram()
	g := Build(main, h)

	assert.True(t, g.IsReachable(main))
	callees := make(map[string]bool)
	for _, e := range g.CalleesOf(main) {
		callees[e.Callee.Declaring.Name] = true
	}
	assert.True(t, callees["Animal"])
	assert.True(t, callees["Dog"])
}
