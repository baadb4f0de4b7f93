package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gatewaylab/conform/config"
	"github.com/gatewaylab/conform/pkg/models"
)

func newTestPrinter(t *testing.T) (*Printer, *bytes.Buffer) {
	t.Helper()
	models.IsAnsiDisabled = true
	t.Cleanup(func() { models.IsAnsiDisabled = false })

	cfg, err := config.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	return New(zap.NewNop(), *cfg, &buf), &buf
}

func TestPrintResultPass(t *testing.T) {
	p, buf := newTestPrinter(t)

	p.PrintResult(models.ValidationResult{
		Format:     models.FormatChatCompletions,
		CaseName:   "simple-chat",
		Model:      "gpt-4o",
		Success:    true,
		DurationMs: 42,
	}, false)

	out := buf.String()
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "chat-completions/simple-chat [gpt-4o] (42ms)")
	assert.NotContains(t, out, "Diffs")
}

func TestPrintResultWarningShowsDiffTable(t *testing.T) {
	p, buf := newTestPrinter(t)

	p.PrintResult(models.ValidationResult{
		Format:   models.FormatChatCompletions,
		CaseName: "simple-chat",
		Model:    "gpt-4o",
		Success:  true,
		Warning:  true,
		Diff: &models.DiffResult{
			Diffs: []models.DiffEntry{
				{Path: "choices.0.message.content", Expected: "golden", Actual: "live"},
			},
		},
	}, false)

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "only volatile fields drifted")
	assert.Contains(t, out, "choices.0.message.content")
	assert.Contains(t, out, "golden")
	assert.Contains(t, out, "live")
}

func TestPrintResultError(t *testing.T) {
	p, buf := newTestPrinter(t)

	p.PrintResult(models.ValidationResult{
		Format:   models.FormatAnthropic,
		CaseName: "tool-call",
		Model:    "claude-sonnet-4-20250514",
		Error:    "snapshot not found: snapshots/tool-call/anthropic/response.json",
	}, false)

	out := buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "snapshot not found")
}

func TestDiffTableCapAndVerboseLift(t *testing.T) {
	diffs := make([]models.DiffEntry, 8)
	for i := range diffs {
		diffs[i] = models.DiffEntry{Path: "output." + string(rune('a'+i)), Expected: i, Actual: i + 1}
	}
	res := models.ValidationResult{
		Format:   models.FormatResponses,
		CaseName: "simple-chat",
		Diff:     &models.DiffResult{Diffs: diffs},
	}

	p, buf := newTestPrinter(t)
	p.PrintResult(res, false)
	// default maxShownDiffs is 5, so 3 rows stay hidden
	assert.Contains(t, buf.String(), "and 3 more diffs")
	assert.NotContains(t, buf.String(), "output.h")

	p, buf = newTestPrinter(t)
	p.PrintResult(res, true)
	assert.NotContains(t, buf.String(), "more diffs")
	assert.Contains(t, buf.String(), "output.h")
}

func TestPrintResultVerboseFailureDumpsPatch(t *testing.T) {
	p, buf := newTestPrinter(t)

	p.PrintResult(models.ValidationResult{
		Format:   models.FormatChatCompletions,
		CaseName: "simple-chat",
		Diff: &models.DiffResult{
			Diffs: []models.DiffEntry{{Path: "model", Expected: "a", Actual: "b"}},
		},
		Patch:          `[{"op":"replace","path":"/model","value":"b"}]`,
		ActualResponse: map[string]any{"model": "b"},
	}, true)

	out := buf.String()
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, `patch: [{"op":"replace","path":"/model","value":"b"}]`)
	// the serialized patch must not be re-quoted as a Go string literal
	assert.NotContains(t, out, `\"op\"`)
	assert.Contains(t, out, "actual response")
}

func TestSummaryTotals(t *testing.T) {
	p, buf := newTestPrinter(t)

	totals := p.Summary([]models.ValidationResult{
		{Format: models.FormatChatCompletions, Success: true},
		{Format: models.FormatChatCompletions, Success: true, Warning: true},
		{Format: models.FormatChatCompletions, Error: "boom"},
		{Format: models.FormatAnthropic, Success: false},
	})

	assert.Equal(t, Totals{Total: 4, Passed: 2, Warned: 1, Failed: 2}, totals)

	out := buf.String()
	assert.Contains(t, out, "COMPLETE VALIDATION SUMMARY")
	assert.Contains(t, out, "chat-completions")
	assert.Contains(t, out, "anthropic")
	// formats render in sorted order
	assert.Less(t, strings.Index(out, "anthropic"), strings.Index(out, "chat-completions"))
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "null", formatCell(nil))
	assert.Equal(t, "plain", formatCell("plain"))
	assert.Equal(t, `{"a":1}`, formatCell(map[string]any{"a": 1}))

	long := strings.Repeat("x", 200)
	got := formatCell(long)
	assert.Len(t, got, maxCellWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}
