package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporterFormatsUnresolvedName(t *testing.T) {
	source := "class C {\n    method m(): int {\n        L0: x = unknownVar;\n    }\n}"
	reporter := NewReporter("test.irtxt", source)

	f := UnresolvedName("variable", "unknownVar", Position{Line: 3, Column: 17}, []string{"knownVar", "anotherVar"})
	formatted := reporter.Format(f)

	assert.Contains(t, formatted, "error["+CodeUnresolvedName+"]")
	assert.Contains(t, formatted, "undefined variable")
	assert.Contains(t, formatted, "unknownVar")
	assert.Contains(t, formatted, "test.irtxt:3:17")
}

func TestUnresolvedNameSuggestsSimilarCandidate(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	f := UnresolvedName("variable", "balace", pos, []string{"balance"})
	assert.Equal(t, CodeUnresolvedName, f.Code)
	assert.Contains(t, f.Message, "balace")
	assert.Len(t, f.Suggestions, 1)
	assert.Contains(t, f.Suggestions[0].Message, `did you mean "balance"`)

	f = UnresolvedName("variable", "xyz", pos, nil)
	assert.Empty(t, f.Suggestions)
}

func TestDeadStatementAndDeadAssignment(t *testing.T) {
	f := DeadStatement("Foo.bar", 4)
	assert.Equal(t, CodeDeadStatement, f.Code)
	assert.Equal(t, Warning, f.Level)
	assert.Equal(t, 4, f.Position.Line)

	f2 := DeadAssignment("Foo.bar", 2, "tmp")
	assert.Equal(t, CodeDeadAssignment, f2.Code)
	assert.Contains(t, f2.Message, "tmp")
}

func TestTaintFlowFinding(t *testing.T) {
	f := TaintFlow("Main.handle", 3, 9)
	assert.Equal(t, CodeTaintFlow, f.Code)
	assert.Equal(t, 9, f.Position.Line)
	assert.Contains(t, f.Notes[0], "statement 3")
}

func TestWarningFormatting(t *testing.T) {
	source := "L0: return;"
	reporter := NewReporter("Foo.bar", source)

	f := DeadStatement("Foo.bar", 1)
	formatted := reporter.Format(f)

	assert.Contains(t, formatted, "warning["+CodeDeadStatement+"]")
	assert.Contains(t, formatted, "unreachable")
}

func TestErrorMarkerCreation(t *testing.T) {
	reporter := NewReporter("test.irtxt", "let variable = value;")

	marker := reporter.marker(5, 8, Error)
	assert.Equal(t, 4, strings.Count(marker, " "))
	assert.Equal(t, 8, strings.Count(marker, "^"))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"balance", "amount", "total", "balanceOf", "xyz"}

	similar := findSimilarNames("balace", candidates)
	assert.Contains(t, similar, "balance")
	assert.NotContains(t, similar, "xyz")

	similar = findSimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)
}

func TestLevelsProduceDistinctFormatting(t *testing.T) {
	reporter := NewReporter("test.irtxt", "test")

	errFinding := Finding{Level: Error, Message: "test error", Position: Position{Line: 1, Column: 1}}
	warnFinding := Finding{Level: Warning, Message: "test warning", Position: Position{Line: 1, Column: 1}}

	assert.Contains(t, reporter.Format(errFinding), "error:")
	assert.Contains(t, reporter.Format(warnFinding), "warning:")
}
