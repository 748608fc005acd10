// Command staticore-repl loads a textual IR file once and lets you poke at
// its methods' constant-propagation facts interactively, instead of
// re-running the whole CLI pipeline for every statement you want to look at.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"staticore/internal/icp"
	"staticore/internal/ir"
	"staticore/internal/irtext"
)

const prompt = ">> "

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: staticore-repl <file.irtxt>")
		os.Exit(1)
	}

	classList, err := irtext.ParseFile(os.Args[1])
	if err != nil {
		os.Exit(1)
	}

	fmt.Println("loaded", len(classList), "class(es). Type Class.method to inspect, or 'classes' to list, 'quit' to exit.")
	start(os.Stdin, classList)
}

func start(in io.Reader, classList []*ir.Class) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			return
		case line == "classes":
			listClasses(classList)
		default:
			inspect(classList, line)
		}
	}
}

func listClasses(classList []*ir.Class) {
	for _, c := range classList {
		for _, m := range c.Methods {
			fmt.Printf("  %s.%s\n", c.Name, m.Name)
		}
	}
}

// inspect runs intraprocedural constant propagation over the named method
// (given as "Class.method") and prints the fact in effect before each
// statement, the same per-statement view internal/dcd classifies against.
func inspect(classList []*ir.Class, ref string) {
	parts := strings.SplitN(ref, ".", 2)
	if len(parts) != 2 {
		fmt.Println("expected Class.method")
		return
	}

	m := findMethod(classList, parts[0], parts[1])
	if m == nil {
		fmt.Printf("no method %s found\n", ref)
		return
	}
	if m.CFG == nil {
		fmt.Println("method has no body (abstract or interface)")
		return
	}

	res := icp.Solve(m)
	for i := range m.CFG.Stmts {
		if i == m.CFG.Entry || i == m.CFG.Exit {
			continue
		}
		f := icp.FactAt(res, i)
		vars := f.Vars()
		fmt.Printf("[%d]", i)
		for _, v := range vars {
			fmt.Printf(" %s=%s", v, f.Get(v))
		}
		fmt.Println()
	}
}

func findMethod(classList []*ir.Class, className, methodName string) *ir.Method {
	for _, c := range classList {
		if c.Name != className {
			continue
		}
		for _, m := range c.Methods {
			if m.Name == methodName {
				return m
			}
		}
	}
	return nil
}
