// Package diag formats the findings the analyses and the textual IR front
// end produce — dead code, taint flows, and malformed input — into
// Rust-style terminal diagnostics and, from internal/lsp, into LSP
// Diagnostic payloads.
package diag

// Code ranges:
// D0001-D0099: textual IR front end (parse/lowering failures)
// D0100-D0199: class hierarchy errors
// D0200-D0299: dead-code detection findings
// D0300-D0399: pointer/taint analysis findings
const (
	// D0001: the textual IR parser or lowering pass rejected the input.
	CodeMalformedIR = "D0001"

	// D0002: a name (type, field, method, label) referenced in the
	// textual IR has no matching declaration.
	CodeUnresolvedName = "D0002"

	// D0101: a class's Super/Interfaces chain contains a cycle.
	CodeCyclicHierarchy = "D0101"

	// D0102: dispatch found no matching method anywhere in the hierarchy.
	CodeNoMatchingMethod = "D0102"

	// D0201: a statement is unreachable from its method's entry.
	CodeDeadStatement = "D0201"

	// D0202: a statement defines a variable that dead-code detection
	// proved is never subsequently read.
	CodeDeadAssignment = "D0202"

	// D0301: a tainted value reaches a configured sink argument.
	CodeTaintFlow = "D0301"
)

// GetDescription returns a human-readable description of code.
func GetDescription(code string) string {
	switch code {
	case CodeMalformedIR:
		return "the textual IR could not be parsed"
	case CodeUnresolvedName:
		return "a referenced name has no matching declaration"
	case CodeCyclicHierarchy:
		return "the class hierarchy contains a cycle"
	case CodeNoMatchingMethod:
		return "no method in the hierarchy matches this call"
	case CodeDeadStatement:
		return "this statement is unreachable"
	case CodeDeadAssignment:
		return "this assignment's value is never used"
	case CodeTaintFlow:
		return "a tainted value reaches a sink"
	default:
		return "unknown diagnostic"
	}
}

// IsWarning reports whether code represents an advisory finding (dead code,
// a taint flow worth reviewing) rather than a hard analysis failure.
func IsWarning(code string) bool {
	switch code {
	case CodeDeadStatement, CodeDeadAssignment, CodeTaintFlow:
		return true
	default:
		return false
	}
}

// GetCategory returns the broad phase a code belongs to.
func GetCategory(code string) string {
	switch {
	case code >= "D0001" && code < "D0100":
		return "IR"
	case code >= "D0100" && code < "D0200":
		return "Hierarchy"
	case code >= "D0200" && code < "D0300":
		return "Dead Code"
	case code >= "D0300" && code < "D0400":
		return "Taint"
	default:
		return "Unknown"
	}
}
