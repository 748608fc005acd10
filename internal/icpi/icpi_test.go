package icpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/classes"
	"staticore/internal/ir"
	"staticore/internal/lattice"
	"staticore/internal/pta"
)

// main():
//   o = new Box
//   o.val = 7
//   x = o.val
//   return x
// Expect x to resolve to CONST(7) once icpi layers the heap model onto
// plain intraprocedural CP (which alone could only say NAC for o.val).
func TestFieldReadResolvesThroughHeapModel(t *testing.T) {
	boxC := &ir.Class{Name: "Box"}
	valF := &ir.Field{Declaring: boxC, Name: "val", Type: ir.Int}
	boxC.Fields = append(boxC.Fields, valF)

	mainC := &ir.Class{Name: "Main"}
	main := &ir.Method{Declaring: mainC, Name: "main", Static: true}
	o := main.NewVar("o", ir.ClassType{Class: boxC})
	x := main.NewVar("x", ir.Int)

	newO := &ir.New{LHS: o, Class: boxC}
	store := &ir.StoreField{Base: o, Field: valF, RHS: ir.ConstExpr{Value: 7}}
	load := &ir.Assign{LHS: x, RHS: ir.InstanceFieldExpr{Base: o, Field: valF}}
	ret := &ir.Return{Value: ir.VarExpr{V: x}}
	main.CFG = ir.NewCFG([]ir.Stmt{newO, store, load, ret})
	mainC.Methods = append(mainC.Methods, main)

	h := classes.NewHierarchy([]*ir.Class{boxC, mainC})
	ptaRes := pta.AnalyzeCI(main, h)
	res := Solve(main, ptaRes)

	// The return is statement index 4 (entry=0, new=1, store=2, load=3, return=4).
	factAtReturn := res.FactAt(main, 4)
	assert.True(t, factAtReturn.Get("x").Equal(lattice.ConstVal(7)))
}

// The heap model is flow-insensitive: two stores to the same object's field
// merge regardless of program order, so a reader sees NAC even though a
// flow-sensitive reading of the straight-line code would see only the
// later store's value.
func TestConflictingFieldWritesWidenToNAC(t *testing.T) {
	boxC := &ir.Class{Name: "Box"}
	valF := &ir.Field{Declaring: boxC, Name: "val", Type: ir.Int}
	boxC.Fields = append(boxC.Fields, valF)

	mainC := &ir.Class{Name: "Main"}
	main := &ir.Method{Declaring: mainC, Name: "main", Static: true}
	o := main.NewVar("o", ir.ClassType{Class: boxC})
	x := main.NewVar("x", ir.Int)

	newO := &ir.New{LHS: o, Class: boxC}
	store1 := &ir.StoreField{Base: o, Field: valF, RHS: ir.ConstExpr{Value: 1}}
	store2 := &ir.StoreField{Base: o, Field: valF, RHS: ir.ConstExpr{Value: 2}}
	load := &ir.Assign{LHS: x, RHS: ir.InstanceFieldExpr{Base: o, Field: valF}}
	ret := &ir.Return{Value: ir.VarExpr{V: x}}
	main.CFG = ir.NewCFG([]ir.Stmt{newO, store1, store2, load, ret})
	mainC.Methods = append(mainC.Methods, main)

	h := classes.NewHierarchy([]*ir.Class{boxC, mainC})
	ptaRes := pta.AnalyzeCI(main, h)
	res := Solve(main, ptaRes)

	factAtReturn := res.FactAt(main, 5)
	assert.True(t, factAtReturn.Get("x").IsNAC())
}
