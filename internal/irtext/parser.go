package irtext

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"staticore/internal/ir"
)

var irParser = participle.MustBuild[Program](
	participle.Lexer(IRLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(5),
)

// ParseFile parses a textual IR listing from disk and lowers it straight to
// the *ir.Class values the analyses consume.
func ParseFile(path string) ([]*ir.Class, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses and lowers a textual IR listing already held in
// memory. The LSP front end does not use it: it re-reads the document from
// disk and calls ParseAndLower.
func ParseString(filename, source string) ([]*ir.Class, error) {
	_, classes, err := ParseAndLower(filename, source)
	return classes, err
}

// ParseAndLower parses source and returns both the parsed grammar tree
// (which still carries lexer.Position data for every name, used by the LSP
// front end's semantic tokens) and the lowered *ir.Class values (used by
// the analyses and by dead-code diagnostics).
func ParseAndLower(filename, source string) (*Program, []*ir.Class, error) {
	program, err := irParser.ParseString(filename, source)
	if err != nil {
		reportParseError(source, err)
		return nil, nil, err
	}
	classes, err := Lower(program)
	if err != nil {
		return nil, nil, err
	}
	return program, classes, nil
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("Unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("❌ Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("→ %s\n", pe.Message())
}
