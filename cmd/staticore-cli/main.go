package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"staticore/internal/cha"
	"staticore/internal/classes"
	"staticore/internal/config"
	"staticore/internal/dcd"
	"staticore/internal/ir"
	"staticore/internal/icp"
	"staticore/internal/icpi"
	"staticore/internal/irtext"
	"staticore/internal/pta"
	"staticore/internal/taint"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: staticore-cli <cha|pta-ci|pta-cs|icp|icpi|taint|dump> <file.irtxt> [rules.yaml]")
		os.Exit(1)
	}

	mode := os.Args[1]
	path := os.Args[2]

	classList, err := irtext.ParseFile(path)
	if err != nil {
		if _, ok := err.(participle.Error); ok {
			// irtext.ParseFile already printed the caret diagnostic.
			os.Exit(1)
		}
		color.Red("❌ %s", err)
		os.Exit(1)
	}

	if mode == "dump" {
		fmt.Print(irtext.Print(classList))
		return
	}

	hierarchy := classes.NewHierarchy(classList)

	entry, err := findEntry(classList)
	if err != nil {
		color.Red("❌ %s", err)
		os.Exit(1)
	}

	switch mode {
	case "cha":
		runCHA(entry, hierarchy)
	case "pta-ci":
		runPTA(pta.AnalyzeCI(entry, hierarchy))
	case "pta-cs":
		runPTA(pta.AnalyzeCS(entry, hierarchy))
	case "icp":
		runICP(classList)
	case "icpi":
		runICPI(entry, pta.AnalyzeCS(entry, hierarchy))
	case "taint":
		runTaint(entry, hierarchy, os.Args)
	default:
		color.Red("❌ unknown mode %q", mode)
		os.Exit(1)
	}

	color.Green("✅ Successfully processed %s", path)
}

// findEntry picks the method the CLI drives the whole-program analyses
// from: a static method literally named "main" if one exists, otherwise
// the first static method found across the program (deterministic since
// irtext.Lower preserves source order).
func findEntry(classList []*ir.Class) (*ir.Method, error) {
	var fallback *ir.Method
	for _, c := range classList {
		for _, m := range c.Methods {
			if !m.Static || m.CFG == nil {
				continue
			}
			if m.Name == "main" {
				return m, nil
			}
			if fallback == nil {
				fallback = m
			}
		}
	}
	if fallback == nil {
		return nil, fmt.Errorf("no static method with a body found to use as analysis entry")
	}
	return fallback, nil
}

func runCHA(entry *ir.Method, h classes.Hierarchy) {
	cg := cha.Build(entry, h)
	for _, m := range cg.ReachableMethods() {
		fmt.Printf("reachable: %s.%s\n", m.Declaring.Name, m.Subsignature)
	}
	for _, e := range cg.Edges() {
		fmt.Printf("  %s.%s -> %s.%s\n", e.Caller.Declaring.Name, e.Caller.Subsignature, e.Callee.Declaring.Name, e.Callee.Subsignature)
	}
}

func runPTA(r *pta.Result) {
	cg := r.CallGraph()
	for _, m := range cg.ReachableMethods() {
		fmt.Printf("reachable: %s.%s\n", m.Declaring.Name, m.Subsignature)
	}
}

func runICP(classList []*ir.Class) {
	for _, c := range classList {
		for _, m := range c.Methods {
			if m.CFG == nil {
				continue
			}
			res := icp.Solve(m)
			fmt.Printf("%s.%s:\n", c.Name, m.Name)
			for i := range m.CFG.Stmts {
				if i == m.CFG.Entry || i == m.CFG.Exit {
					continue
				}
				f := icp.FactAt(res, i)
				vars := f.Vars()
				if len(vars) == 0 {
					continue
				}
				fmt.Printf("  [%d]", i)
				for _, v := range vars {
					fmt.Printf(" %s=%s", v, f.Get(v))
				}
				fmt.Println()
			}
			dres := dcd.Analyze(m)
			for _, idx := range dres.UnreachableStmts {
				fmt.Printf("  [%d] unreachable\n", idx)
			}
			for _, idx := range dres.UselessAssigns {
				fmt.Printf("  [%d] useless assignment\n", idx)
			}
		}
	}
}

func runICPI(entry *ir.Method, ptaResult *pta.Result) {
	res := icpi.Solve(entry, ptaResult)
	for node, f := range res.Facts {
		vars := f.Vars()
		if len(vars) == 0 {
			continue
		}
		fmt.Printf("%s.%s[%d]:", node.Method.Declaring.Name, node.Method.Name, node.Idx)
		for _, v := range vars {
			fmt.Printf(" %s=%s", v, f.Get(v))
		}
		fmt.Println()
	}
}

func runTaint(entry *ir.Method, h classes.Hierarchy, args []string) {
	var cfg taint.Config
	if len(args) > 3 {
		rules, err := config.LoadRules(args[3])
		if err != nil {
			color.Red("❌ %s", err)
			os.Exit(1)
		}
		cfg = rules
	}

	ptaResult := pta.AnalyzeCS(entry, h)
	flows := taint.Analyze(cfg, ptaResult)
	if len(flows) == 0 {
		fmt.Println("no taint flows found")
		return
	}
	for _, f := range flows {
		fmt.Printf("tainted: %s.%s -> %s.%s via %s\n",
			f.Source.Method.Declaring.Name, f.Source.Method.Subsig,
			f.Sink.Method.Declaring.Name, f.Sink.Method.Subsig,
			f.ArgVar.Name)
	}
}
