package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/handlescout/handlescout/internal/core"
	"github.com/handlescout/handlescout/internal/core/engine"
)

// MarkdownFormatter renders results as markdown tables.
type MarkdownFormatter struct{}

// FormatSummary renders a scan summary as Markdown.
func (f *MarkdownFormatter) FormatSummary(summary *engine.Summary) (string, error) {
	if summary == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Scan %s\n\n", escapeMarkdownCell(summary.RunID)))
	sb.WriteString("| State | Checked | Available | Taken | Rate Limited | Errors |\n")
	sb.WriteString("|-------|---------|-----------|-------|--------------|--------|\n")
	sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %d |\n",
		escapeMarkdownCell(summary.StateName),
		summary.Tally.Checked,
		summary.Tally.Available,
		summary.Tally.Taken,
		summary.Tally.RateLimited,
		summary.Tally.Errors,
	))

	elapsed := summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second)
	sb.WriteString(fmt.Sprintf("\n**Progress**: %d/%d done in %s\n",
		summary.Tally.Checked, summary.Requested, elapsed))

	if len(summary.AvailableNames) > 0 {
		sb.WriteString("\n### Available\n\n")
		for _, name := range summary.AvailableNames {
			sb.WriteString("- @" + escapeMarkdownCell(name) + "\n")
		}
	}

	return sb.String(), nil
}

// FormatRuns renders run history as Markdown.
func (f *MarkdownFormatter) FormatRuns(runs []core.RunRecord) (string, error) {
	if len(runs) == 0 {
		return "No runs recorded.", nil
	}

	var sb strings.Builder
	sb.WriteString("| Run | Started | State | Requested | Checked | Available | Errors |\n")
	sb.WriteString("|-----|---------|-------|-----------|---------|-----------|--------|\n")

	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d | %d | %d |\n",
			escapeMarkdownCell(run.ID),
			run.StartedAt.Format(time.RFC3339),
			escapeMarkdownCell(run.State),
			run.Requested,
			run.Tally.Checked,
			run.Tally.Available,
			run.Tally.Errors,
		))
	}

	return sb.String(), nil
}

// FormatSeen renders a seen-log report as Markdown.
func (f *MarkdownFormatter) FormatSeen(report *SeenReport) (string, error) {
	if report == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Checked log %s\n\n", escapeMarkdownCell(report.Path)))
	sb.WriteString("| Outcome | Count |\n")
	sb.WriteString("|---------|-------|\n")
	sb.WriteString(fmt.Sprintf("| AVAILABLE | %d |\n", report.Tally.Available))
	sb.WriteString(fmt.Sprintf("| TAKEN | %d |\n", report.Tally.Taken))
	sb.WriteString(fmt.Sprintf("| FLOOD_WAIT | %d |\n", report.Tally.RateLimited))
	sb.WriteString(fmt.Sprintf("| ERROR | %d |\n", report.Tally.Errors))
	sb.WriteString(fmt.Sprintf("\n**Total**: %d\n", report.Tally.Checked))

	if len(report.Available) > 0 {
		sb.WriteString("\n### Available\n\n")
		for _, name := range report.Available {
			sb.WriteString("- @" + escapeMarkdownCell(name) + "\n")
		}
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
