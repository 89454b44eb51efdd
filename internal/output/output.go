package output

import (
	"fmt"
	"strings"

	"github.com/handlescout/handlescout/internal/core"
	"github.com/handlescout/handlescout/internal/core/engine"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// SeenReport aggregates a checked log for display.
type SeenReport struct {
	Path      string     `json:"path"`
	Tally     core.Tally `json:"tally"`
	Available []string   `json:"available,omitempty"`
}

// Formatter renders scan summaries, run history, and seen-log reports.
type Formatter interface {
	FormatSummary(summary *engine.Summary) (string, error)
	FormatRuns(runs []core.RunRecord) (string, error)
	FormatSeen(report *SeenReport) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}
