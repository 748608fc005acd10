package taint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"staticore/internal/classes"
	"staticore/internal/ir"
	"staticore/internal/pta"
)

// main():
//   x = Source.getInput()
//   Sink.exec(x)
// Expect one reported flow from the getInput() call site to the exec()
// call site's argument.
func buildSourceSinkProgram() (*ir.Method, *ir.Invoke, *ir.Invoke) {
	sourceC := &ir.Class{Name: "Source"}
	getInput := &ir.Method{Declaring: sourceC, Name: "getInput", Static: true, ReturnType: ir.Int, Subsignature: "getInput()"}
	sourceC.Methods = append(sourceC.Methods, getInput)

	sinkC := &ir.Class{Name: "Sink"}
	p := &ir.Var{Name: "p", Type: ir.Int}
	exec := &ir.Method{Declaring: sinkC, Name: "exec", Static: true, Params: []*ir.Var{p}, Subsignature: "exec(int)"}
	exec.CFG = ir.NewCFG([]ir.Stmt{&ir.Return{}})
	sinkC.Methods = append(sinkC.Methods, exec)

	mainC := &ir.Class{Name: "Main"}
	main := &ir.Method{Declaring: mainC, Name: "main", Static: true}
	x := main.NewVar("x", ir.Int)

	call1 := &ir.Invoke{LHS: x, Kind_: ir.InvokeStatic, Method: ir.MethodRef{Declaring: sourceC, Subsig: "getInput()"}}
	call2 := &ir.Invoke{Kind_: ir.InvokeStatic, Method: ir.MethodRef{Declaring: sinkC, Subsig: "exec(int)"}, Args: []*ir.Var{x}}
	ret := &ir.Return{}
	main.CFG = ir.NewCFG([]ir.Stmt{call1, call2, ret})
	mainC.Methods = append(mainC.Methods, main)

	return main, call1, call2
}

func TestSourceToSinkFlowDetected(t *testing.T) {
	main, call1, call2 := buildSourceSinkProgram()
	h := classes.NewHierarchy([]*ir.Class{main.Declaring, call1.Method.Declaring, call2.Method.Declaring})
	ptaRes := pta.AnalyzeCI(main, h)

	cfg := Config{
		Sources: []SourceRule{{Method: MethodKey{Class: "Source", Subsig: "getInput()"}}},
		Sinks:   []SinkRule{{Method: MethodKey{Class: "Sink", Subsig: "exec(int)"}, ArgIndex: 0}},
	}
	flows := Analyze(cfg, ptaRes)

	assert.Len(t, flows, 1)
	assert.Same(t, call1, flows[0].Source)
	assert.Same(t, call2, flows[0].Sink)
}

func TestNoFlowWhenValueNeverReachesSink(t *testing.T) {
	main, call1, _ := buildSourceSinkProgram()
	h := classes.NewHierarchy([]*ir.Class{main.Declaring, call1.Method.Declaring})
	ptaRes := pta.AnalyzeCI(main, h)

	cfg := Config{
		Sources: []SourceRule{{Method: MethodKey{Class: "Source", Subsig: "getInput()"}}},
		Sinks:   []SinkRule{{Method: MethodKey{Class: "Sink", Subsig: "neverCalled(int)"}, ArgIndex: 0}},
	}
	flows := Analyze(cfg, ptaRes)

	assert.Empty(t, flows)
}
