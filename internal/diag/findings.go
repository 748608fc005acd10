package diag

import "fmt"

// Builder provides a fluent interface for constructing a Finding with
// suggestions and notes attached incrementally.
type Builder struct {
	f Finding
}

// NewError starts a Builder for an error-level finding.
func NewError(code, message string, pos Position) *Builder {
	return &Builder{f: Finding{Level: Error, Code: code, Message: message, Position: pos, Length: 1}}
}

// NewWarning starts a Builder for a warning-level finding.
func NewWarning(code, message string, pos Position) *Builder {
	return &Builder{f: Finding{Level: Warning, Code: code, Message: message, Position: pos, Length: 1}}
}

func (b *Builder) WithLength(length int) *Builder {
	b.f.Length = length
	return b
}

func (b *Builder) WithSuggestion(message string) *Builder {
	b.f.Suggestions = append(b.f.Suggestions, Suggestion{Message: message})
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.f.Notes = append(b.f.Notes, note)
	return b
}

func (b *Builder) WithHelp(help string) *Builder {
	b.f.HelpText = help
	return b
}

func (b *Builder) Build() Finding {
	return b.f
}

// MalformedIR reports a textual-IR parse or lowering failure at pos.
func MalformedIR(message string, pos Position) Finding {
	return NewError(CodeMalformedIR, message, pos).
		WithHelp("check the textual IR listing against the grammar in internal/irtext").
		Build()
}

// UnresolvedName reports a type, field, method, or label reference that has
// no matching declaration, with Levenshtein-nearby candidates surfaced as
// suggestions the way an undefined-identifier error would.
func UnresolvedName(kind, name string, pos Position, candidates []string) Finding {
	builder := NewError(CodeUnresolvedName, fmt.Sprintf("undefined %s %q", kind, name), pos).
		WithLength(len(name))

	similar := findSimilarNames(name, candidates)
	switch len(similar) {
	case 0:
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean %q?", similar[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: %v?", similar))
	}
	return builder.Build()
}

// CyclicHierarchy reports a class whose Super/Interfaces chain cycles back
// to itself, which would otherwise loop forever in dispatch() or in CHA's
// ancestor walk.
func CyclicHierarchy(className string, pos Position) Finding {
	return NewError(CodeCyclicHierarchy, fmt.Sprintf("class hierarchy cycle detected at %q", className), pos).
		WithHelp("a class cannot (transitively) extend or implement itself").
		Build()
}

// NoMatchingMethod reports a virtual/interface call where dispatch() found
// no override anywhere in the runtime type's hierarchy.
func NoMatchingMethod(className, subsig string, pos Position) Finding {
	return NewError(CodeNoMatchingMethod, fmt.Sprintf("class %q has no method matching %q", className, subsig), pos).
		Build()
}

// DeadStatement reports a statement internal/dcd proved unreachable.
func DeadStatement(methodName string, stmtIndex int) Finding {
	return NewWarning(CodeDeadStatement, "unreachable statement", Position{Filename: methodName, Line: stmtIndex}).
		WithSuggestion("remove the unreachable statement").
		WithNote("no control-flow path from the method entry reaches this statement").
		Build()
}

// DeadAssignment reports a statement whose defined variable internal/dcd
// proved is never subsequently read on any path.
func DeadAssignment(methodName string, stmtIndex int, varName string) Finding {
	return NewWarning(CodeDeadAssignment, fmt.Sprintf("value assigned to %q is never used", varName),
		Position{Filename: methodName, Line: stmtIndex}).
		WithSuggestion(fmt.Sprintf("remove the assignment to %q if it has no side effect", varName)).
		Build()
}

// TaintFlow reports a source-to-sink flow internal/taint discovered.
func TaintFlow(methodName string, sourceIndex, sinkIndex int) Finding {
	return NewWarning(CodeTaintFlow, "tainted value reaches a sink", Position{Filename: methodName, Line: sinkIndex}).
		WithNote(fmt.Sprintf("taint originates at statement %d", sourceIndex)).
		WithHelp("sanitize or validate the value before it reaches the sink").
		Build()
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// levenshteinDistance computes edit distance, used to suggest "did you
// mean" candidates for an unresolved name.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
