package lsp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"staticore/internal/irtext"
)

// TestDiagnosticsForClassesFindsDeadCode exercises the internal
// diagnosticsForClasses path directly (bypassing glsp's Context/Notify
// plumbing, which this handler does not need to produce findings) against
// the bump fixture, whose L5 is unreachable after L4's return and whose L3
// assigns a variable that is never read.
func TestDiagnosticsForClassesFindsDeadCode(t *testing.T) {
	path := filepath.Join("testdata", "sample.irtxt")
	classes, err := irtext.ParseFile(path)
	require.NoError(t, err)

	diags := diagnosticsForClasses(classes)
	require.NotEmpty(t, diags, "expected at least one dead-code diagnostic")

	var warnings, hints int
	for _, d := range diags {
		switch *d.Severity {
		case protocol.DiagnosticSeverityWarning:
			warnings++
		case protocol.DiagnosticSeverityHint:
			hints++
		}
	}

	require.Greater(t, warnings, 0, "expected an unreachable-statement warning")
	require.Greater(t, hints, 0, "expected a useless-assignment hint")
}
