package output

import (
	"encoding/json"

	"github.com/handlescout/handlescout/internal/core"
	"github.com/handlescout/handlescout/internal/core/engine"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatSummary renders a scan summary as JSON.
func (f *JSONFormatter) FormatSummary(summary *engine.Summary) (string, error) {
	if summary == nil {
		return "", nil
	}
	return f.marshal(summary)
}

// FormatRuns renders run history as JSON.
func (f *JSONFormatter) FormatRuns(runs []core.RunRecord) (string, error) {
	return f.marshal(runs)
}

// FormatSeen renders a seen-log report as JSON.
func (f *JSONFormatter) FormatSeen(report *SeenReport) (string, error) {
	if report == nil {
		return "", nil
	}
	return f.marshal(report)
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
