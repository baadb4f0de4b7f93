// Package report renders validation verdicts for the terminal: one colored
// status line per pair, diff tables for divergent pairs, and a run summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/k0kubun/pp/v3"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/gatewaylab/conform/config"
	"github.com/gatewaylab/conform/pkg/models"
)

const maxCellWidth = 72

type Printer struct {
	logger *zap.Logger
	out    io.Writer
	config config.Config
}

// New builds a printer writing to out; a nil out falls back to stdout.
func New(logger *zap.Logger, cfg config.Config, out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{logger: logger, out: out, config: cfg}
}

// PrintResult renders one pair's verdict as soon as it settles, so it is
// safe to use as the OnResult callback. Diff tables are capped at
// maxShownDiffs rows unless verbose lifts the cap.
func (p *Printer) PrintResult(res models.ValidationResult, verbose bool) {
	label := fmt.Sprintf("%s/%s [%s] (%dms)", res.Format, res.CaseName, res.Model, res.DurationMs)

	switch {
	case res.Success && !res.Warning:
		fmt.Fprintln(p.out, models.HighlightPassingString("  PASS  "+label))
	case res.Success && res.Warning:
		fmt.Fprintln(p.out, models.HighlightWarningString("  WARN  "+label+"  only volatile fields drifted"))
		p.renderDiffTable(res, verbose)
	case res.Error != "":
		fmt.Fprintln(p.out, models.HighlightFailingString("  ERROR "+label+"  "+res.Error))
	default:
		fmt.Fprintln(p.out, models.HighlightFailingString("  FAIL  "+label))
		p.renderDiffTable(res, verbose)
		p.renderVerboseFailure(res)
	}
}

func (p *Printer) renderDiffTable(res models.ValidationResult, verbose bool) {
	if res.Diff == nil || len(res.Diff.Diffs) == 0 {
		return
	}
	diffs := res.Diff.Diffs

	shown := len(diffs)
	if limit := p.config.Validate.MaxShownDiffs; !verbose && limit > 0 && shown > limit {
		shown = limit
	}

	table := tablewriter.NewWriter(p.out)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{fmt.Sprintf("Diffs %s/%s", res.Format, res.CaseName), "Expected", "Actual"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.FgHiRedColor},
		tablewriter.Colors{tablewriter.FgHiRedColor},
		tablewriter.Colors{tablewriter.FgHiRedColor},
	)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, d := range diffs[:shown] {
		table.Append([]string{d.Path, formatCell(d.Expected), formatCell(d.Actual)})
	}
	table.Render()

	if hidden := len(diffs) - shown; hidden > 0 {
		fmt.Fprintln(p.out, models.HighlightGrayString(fmt.Sprintf("  ... and %d more diffs, rerun with --verbose to see all", hidden)))
	}
}

// renderVerboseFailure dumps the RFC 6902 patch and the live response for a
// failing pair; both are only populated on verbose runs.
func (p *Printer) renderVerboseFailure(res models.ValidationResult) {
	if res.Patch == "" && res.ActualResponse == nil {
		return
	}
	printer := pp.New()
	printer.WithLineInfo = false
	printer.SetColorScheme(models.GetFailingColorScheme())

	if res.Patch != "" {
		// the patch is already serialized JSON, pp would re-quote it
		fmt.Fprintf(p.out, "  patch: %s\n", models.HighlightString(res.Patch))
	}
	if res.ActualResponse != nil {
		fmt.Fprint(p.out, printer.Sprintf("  actual response: %v\n", res.ActualResponse))
	}
}

// Totals aggregates a finished run. Failed counts both blocking diffs and
// pair-level errors.
type Totals struct {
	Total  int
	Passed int
	Warned int
	Failed int
}

// Summary renders the per-format table and the run totals, and returns them
// so the caller can decide the exit code.
func (p *Printer) Summary(results []models.ValidationResult) Totals {
	var totals Totals
	perFormat := map[models.WireFormat]*Totals{}

	for _, res := range results {
		ft, ok := perFormat[res.Format]
		if !ok {
			ft = &Totals{}
			perFormat[res.Format] = ft
		}
		for _, t := range []*Totals{&totals, ft} {
			t.Total++
			switch {
			case res.Success && res.Warning:
				t.Warned++
				t.Passed++
			case res.Success:
				t.Passed++
			default:
				t.Failed++
			}
		}
	}

	formats := make([]models.WireFormat, 0, len(perFormat))
	for format := range perFormat {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })

	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"Format", "Total", "Passed", "Warned", "Failed"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	for _, format := range formats {
		ft := perFormat[format]
		table.Append([]string{
			string(format),
			fmt.Sprint(ft.Total),
			fmt.Sprint(ft.Passed),
			fmt.Sprint(ft.Warned),
			fmt.Sprint(ft.Failed),
		})
	}
	table.Render()

	printer := pp.New()
	printer.WithLineInfo = false
	if totals.Failed == 0 {
		printer.SetColorScheme(models.GetPassingColorScheme())
	} else {
		printer.SetColorScheme(models.GetFailingColorScheme())
	}
	fmt.Fprint(p.out, printer.Sprintf(
		"\n <=========================================> \n  COMPLETE VALIDATION SUMMARY \n\tTotal pairs: %v\n\tTotal passed: %v\n\tPassed with warnings: %v\n\tTotal failed: %v\n <=========================================> \n\n",
		totals.Total, totals.Passed, totals.Warned, totals.Failed))

	return totals
}

// formatCell renders a diff value for a table cell, truncating long values
// so one giant string cannot blow up the layout.
func formatCell(v any) string {
	var s string
	switch val := v.(type) {
	case nil:
		s = "null"
	case string:
		s = val
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			s = fmt.Sprintf("%v", val)
		} else {
			s = string(raw)
		}
	}
	if len(s) > maxCellWidth {
		s = s[:maxCellWidth-3] + "..."
	}
	return s
}
