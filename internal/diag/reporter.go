package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Level represents the severity of a diagnostic.
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
	Help    Level = "help"
)

// Position locates a diagnostic in a textual IR listing (Filename/Line/
// Column, matching participle's lexer.Position so reporting a parse error
// needs no conversion) or, for an analysis-level finding with no source
// text, in a method body (Filename holds the method's qualified name, Line
// holds its CFG statement index, Column is 0).
type Position struct {
	Filename string
	Line     int
	Column   int
}

// Finding is a structured diagnostic with suggestions and context, the way
// this engine reports everything from a parse error to a taint flow.
type Finding struct {
	Level       Level
	Code        string
	Message     string
	Position    Position
	Length      int
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

// Suggestion is a suggested fix.
type Suggestion struct {
	Message     string
	Replacement string
	Position    Position
	Length      int
}

// Reporter formats findings against one source buffer.
type Reporter struct {
	filename string
	source   string
	lines    []string
}

// NewReporter creates a Reporter for a file's contents. source may be empty
// for analysis-level findings that have no backing text (Reporter then
// omits the context lines).
func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders f with Rust-like styling: a colored header, a location
// line, up to three lines of source context with a caret marker, then any
// suggestions, notes, and help text.
func (r *Reporter) Format(f Finding) string {
	var b strings.Builder

	levelColor := r.levelColor(f.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if f.Code != "" {
		b.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(f.Level)), f.Code, f.Message))
	} else {
		b.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(f.Level)), f.Message))
	}

	width := r.lineNumberWidth(f.Position.Line)
	indent := strings.Repeat(" ", width)

	filename := f.Position.Filename
	if filename == "" {
		filename = r.filename
	}
	b.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), filename, f.Position.Line, f.Position.Column))
	b.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if f.Position.Line > 1 && f.Position.Line-1 < len(r.lines) {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", width, f.Position.Line-1)), dim("│"), r.lines[f.Position.Line-2]))
	}

	if f.Position.Line <= len(r.lines) && f.Position.Line > 0 {
		line := r.lines[f.Position.Line-1]
		b.WriteString(fmt.Sprintf("%s %s %s\n", bold(fmt.Sprintf("%*d", width, f.Position.Line)), dim("│"), line))
		b.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), r.marker(f.Position.Column, f.Length, f.Level)))
	}

	if f.Position.Line < len(r.lines) {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", width, f.Position.Line+1)), dim("│"), r.lines[f.Position.Line]))
	}

	if len(f.Suggestions) > 0 {
		b.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
		suggestionColor := color.New(color.FgCyan).SprintFunc()
		for i, s := range f.Suggestions {
			if i == 0 {
				b.WriteString(fmt.Sprintf("%s %s %s: %s\n", indent, suggestionColor("help"), suggestionColor("try"), s.Message))
			} else {
				b.WriteString(fmt.Sprintf("%s %s %s\n", indent, suggestionColor("    "), s.Message))
			}
			if s.Replacement != "" {
				b.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
				replacement := strings.ReplaceAll(s.Replacement, "\n", fmt.Sprintf("\n%s %s ", indent, dim("│")))
				b.WriteString(fmt.Sprintf("%s %s %s\n", indent, suggestionColor("│"), suggestionColor(replacement)))
			}
		}
	}

	for _, note := range f.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		b.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), noteColor("note:"), note))
	}

	if f.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		b.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), helpColor("help:"), f.HelpText))
	}

	b.WriteString("\n")
	return b.String()
}

func (r *Reporter) levelColor(level Level) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func (r *Reporter) marker(column, length int, level Level) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))

	markerChar := "^"
	var markerColor func(...interface{}) string
	switch level {
	case Warning:
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		markerColor = color.New(color.FgRed, color.Bold).SprintFunc()
	}

	return spaces + markerColor(strings.Repeat(markerChar, length))
}

func (r *Reporter) lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
