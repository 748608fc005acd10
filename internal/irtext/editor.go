package irtext

import "strings"

// Position is a line/column location within a document, matching the LSP
// wire format (spec's textDocument/didChange payload): zero-based line and
// UTF-16 code unit offset.
type Position struct {
	Line, Character int
}

// Range is a half-open [Start, End) span of a document.
type Range struct {
	Start, End Position
}

// Edit replaces the text in Range with NewText. An empty Range with
// Start == End is a pure insertion; a non-empty NewText paired with a
// non-empty Range is a replacement; an empty NewText is a deletion.
type Edit struct {
	Range   Range
	NewText string
}

// ApplyEdits applies a batch of incremental edits (textDocument/didChange
// ranges) to source. internal/lsp does not call it; its handler re-reads
// the whole document from disk on every change. Edits are applied against
// the *original* offsets in source, as for a batch of non-overlapping
// ranges computed against one snapshot.
func ApplyEdits(source string, edits []Edit) string {
	lines := splitKeepEnds(source)
	offsets := lineOffsets(lines)

	type span struct {
		start, end int
		text       string
	}
	spans := make([]span, len(edits))
	for i, e := range edits {
		spans[i] = span{
			start: offset(offsets, lines, e.Range.Start),
			end:   offset(offsets, lines, e.Range.End),
			text:  e.NewText,
		}
	}

	var b strings.Builder
	cursor := 0
	for _, sp := range spans {
		if sp.start < cursor {
			// Overlapping edits aren't a documented client behavior; skip
			// rather than corrupt the buffer.
			continue
		}
		b.WriteString(source[cursor:sp.start])
		b.WriteString(sp.text)
		cursor = sp.end
	}
	b.WriteString(source[cursor:])
	return b.String()
}

func splitKeepEnds(source string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lines = append(lines, source[start:i+1])
			start = i + 1
		}
	}
	lines = append(lines, source[start:])
	return lines
}

func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	acc := 0
	for i, l := range lines {
		offsets[i] = acc
		acc += len(l)
	}
	return offsets
}

// offset converts a line/UTF-16-column position to a byte offset in
// source. This engine's textual IR is ASCII, so UTF-16 code units and
// bytes coincide; a non-ASCII identifier set would need real UTF-16
// accounting here.
func offset(offsets []int, lines []string, pos Position) int {
	if pos.Line >= len(lines) {
		total := 0
		for _, l := range lines {
			total += len(l)
		}
		return total
	}
	line := lines[pos.Line]
	col := pos.Character
	if col > len(line) {
		col = len(line)
	}
	return offsets[pos.Line] + col
}
