package pta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/classes"
	"staticore/internal/ir"
)

// main():
//   a = new A
//   b = new B
//   x = id(a)     -- id returns its argument unchanged
//   y = id(b)
// Expect pts(x) = {A@...}, pts(y) = {B@...}, and id's parameter/return
// pointer flows keep the two call sites' results from merging under CS
// (1-call-site sensitivity distinguishes the two id() calls) while CI
// would merge them into pts(p) = {A, B} at id's single shared context.
func buildIdProgram() (*ir.Method, classes.Hierarchy, *ir.Var, *ir.Var) {
	aC := &ir.Class{Name: "A"}
	bC := &ir.Class{Name: "B"}
	objC := &ir.Class{Name: "Object"}
	idC := &ir.Class{Name: "Id"}

	idM := &ir.Method{Declaring: idC, Name: "id", Static: true}
	p := idM.NewVar("p", ir.ClassType{Class: objC})
	idM.Params = []*ir.Var{p}
	idM.CFG = ir.NewCFG([]ir.Stmt{&ir.Return{Value: ir.VarExpr{V: p}}})
	idC.Methods = append(idC.Methods, idM)

	mainC := &ir.Class{Name: "Main"}
	mainM := &ir.Method{Declaring: mainC, Name: "main", Static: true}
	a := mainM.NewVar("a", ir.ClassType{Class: aC})
	b := mainM.NewVar("b", ir.ClassType{Class: bC})
	x := mainM.NewVar("x", ir.ClassType{Class: objC})
	y := mainM.NewVar("y", ir.ClassType{Class: objC})

	newA := &ir.New{LHS: a, Class: aC}
	newB := &ir.New{LHS: b, Class: bC}
	callX := &ir.Invoke{LHS: x, Kind_: ir.InvokeStatic, Method: ir.MethodRef{Declaring: idC, Subsig: "id()"}, Args: []*ir.Var{a}}
	callY := &ir.Invoke{LHS: y, Kind_: ir.InvokeStatic, Method: ir.MethodRef{Declaring: idC, Subsig: "id()"}, Args: []*ir.Var{b}}
	ret := &ir.Return{}

	idM.Subsignature = "id()"
	mainM.CFG = ir.NewCFG([]ir.Stmt{newA, newB, callX, callY, ret})
	mainC.Methods = append(mainC.Methods, mainM)

	h := classes.NewHierarchy([]*ir.Class{aC, bC, objC, idC, mainC})
	return mainM, h, x, y
}

func TestCIPointsToMergesAcrossCallSites(t *testing.T) {
	main, h, x, y := buildIdProgram()
	res := AnalyzeCI(main, h)

	// Both call sites share id()'s single context-insensitive parameter
	// node, so its points-to set (and therefore both callers' results)
	// merges A and B together — the classic CI precision loss.
	xPts := res.PointsTo(emptyContext, x)
	yPts := res.PointsTo(emptyContext, y)
	assert.Len(t, xPts, 2)
	assert.Len(t, yPts, 2)
}

func TestCSPointsToDistinguishesCallSites(t *testing.T) {
	main, h, x, y := buildIdProgram()
	res := AnalyzeCS(main, h)

	xPts := res.PointsTo(emptyContext, x)
	yPts := res.PointsTo(emptyContext, y)

	assert.Len(t, xPts, 1)
	assert.Equal(t, "A", xPts[0].Obj.Class.Name)
	assert.Len(t, yPts, 1)
	assert.Equal(t, "B", yPts[0].Obj.Class.Name)
}
