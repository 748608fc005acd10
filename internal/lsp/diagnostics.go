package lsp

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ConvertParseError turns a textual-IR parse/lowering failure into a single
// LSP diagnostic. participle.Error carries a source position; anything
// else (a lowering failure, which only ever returns a plain error) is
// reported at the start of the document.
func ConvertParseError(err error) []protocol.Diagnostic {
	if err == nil {
		return nil
	}

	line, col := uint32(0), uint32(0)
	if pe, ok := err.(participle.Error); ok {
		pos := pe.Position()
		if pos.Line > 0 {
			line = uint32(pos.Line - 1)
		}
		if pos.Column > 0 {
			col = uint32(pos.Column - 1)
		}
	}

	message := err.Error()
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		message = message[:idx]
	}

	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 5},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("irtext"),
		Message:  message,
	}}
}
