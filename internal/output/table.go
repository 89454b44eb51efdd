package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/handlescout/handlescout/internal/core"
	"github.com/handlescout/handlescout/internal/core/engine"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatSummary renders a scan summary as a table.
func (f *TableFormatter) FormatSummary(summary *engine.Summary) (string, error) {
	if summary == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Run", "State", "Checked", "Available", "Taken", "Rate Limited", "Errors"})
	t.AppendRow(table.Row{
		summary.RunID,
		summary.StateName,
		summary.Tally.Checked,
		summary.Tally.Available,
		summary.Tally.Taken,
		summary.Tally.RateLimited,
		summary.Tally.Errors,
	})

	elapsed := summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second)
	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d/%d done in %s", summary.Tally.Checked, summary.Requested, elapsed),
		"", "", "", "", "",
	})

	rendered := t.Render()
	if len(summary.AvailableNames) > 0 {
		rendered += "\n\nAvailable:\n"
		for _, name := range summary.AvailableNames {
			rendered += "  @" + name + "\n"
		}
		rendered = strings.TrimRight(rendered, "\n")
	}
	return rendered, nil
}

// FormatRuns renders run history rows as a table.
func (f *TableFormatter) FormatRuns(runs []core.RunRecord) (string, error) {
	if len(runs) == 0 {
		return "No runs recorded.", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Run", "Started", "State", "Requested", "Checked", "Available", "Errors"})

	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.StartedAt.Format(time.RFC3339),
			run.State,
			run.Requested,
			run.Tally.Checked,
			run.Tally.Available,
			run.Tally.Errors,
		})
	}

	return t.Render(), nil
}

// FormatSeen renders a seen-log report as a table.
func (f *TableFormatter) FormatSeen(report *SeenReport) (string, error) {
	if report == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Outcome", "Count"})
	t.AppendRow(table.Row{"AVAILABLE", report.Tally.Available})
	t.AppendRow(table.Row{"TAKEN", report.Tally.Taken})
	t.AppendRow(table.Row{"FLOOD_WAIT", report.Tally.RateLimited})
	t.AppendRow(table.Row{"ERROR", report.Tally.Errors})
	t.AppendFooter(table.Row{"total", report.Tally.Checked})

	rendered := t.Render()
	if len(report.Available) > 0 {
		rendered += "\n\nAvailable:\n"
		for _, name := range report.Available {
			rendered += "  @" + name + "\n"
		}
		rendered = strings.TrimRight(rendered, "\n")
	}
	return rendered, nil
}
