package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OutcomeKind classifies the result of one oracle lookup.
type OutcomeKind int

const (
	OutcomeUnknown     OutcomeKind = 0
	OutcomeAvailable   OutcomeKind = 1
	OutcomeTaken       OutcomeKind = 2
	OutcomeRateLimited OutcomeKind = 3
	OutcomeTransient   OutcomeKind = 4
	OutcomeError       OutcomeKind = 5
)

// String returns a stable lowercase token, suitable for metric labels.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAvailable:
		return "available"
	case OutcomeTaken:
		return "taken"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeTransient:
		return "transient"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of checking a single candidate.
// It is produced by the checking pipeline and serialized immediately.
type Outcome struct {
	Kind       OutcomeKind   `json:"kind"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

// Label renders the outcome in checked-log form.
func (o Outcome) Label() string {
	switch o.Kind {
	case OutcomeAvailable:
		return "AVAILABLE"
	case OutcomeTaken:
		return "TAKEN"
	case OutcomeRateLimited:
		return fmt.Sprintf("FLOOD_WAIT %ds", int(o.RetryAfter/time.Second))
	case OutcomeTransient:
		return strings.TrimSpace("RPC_ERROR " + o.Reason)
	case OutcomeError:
		return strings.TrimSpace("ERROR " + o.Reason)
	default:
		return "UNKNOWN"
	}
}

// ParseOutcomeLabel parses a checked-log outcome token back into an Outcome.
// Unrecognized labels come back as OutcomeUnknown rather than an error so
// that stray log content never breaks a replay.
func ParseOutcomeLabel(label string) Outcome {
	label = strings.TrimSpace(label)
	switch {
	case label == "AVAILABLE":
		return Outcome{Kind: OutcomeAvailable}
	case label == "TAKEN":
		return Outcome{Kind: OutcomeTaken}
	case strings.HasPrefix(label, "FLOOD_WAIT"):
		rest := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(label, "FLOOD_WAIT")), "s")
		seconds, err := strconv.Atoi(rest)
		if err != nil {
			return Outcome{Kind: OutcomeRateLimited}
		}
		return Outcome{Kind: OutcomeRateLimited, RetryAfter: time.Duration(seconds) * time.Second}
	case strings.HasPrefix(label, "RPC_ERROR"):
		return Outcome{Kind: OutcomeTransient, Reason: strings.TrimSpace(strings.TrimPrefix(label, "RPC_ERROR"))}
	case strings.HasPrefix(label, "ERROR"):
		return Outcome{Kind: OutcomeError, Reason: strings.TrimSpace(strings.TrimPrefix(label, "ERROR"))}
	default:
		return Outcome{Kind: OutcomeUnknown}
	}
}

// Tally counts processed candidates by outcome over a run.
type Tally struct {
	Checked     int `json:"checked"`
	Available   int `json:"available"`
	Taken       int `json:"taken"`
	RateLimited int `json:"rate_limited"`
	Errors      int `json:"errors"`
}

// Add folds one outcome into the tally.
func (t *Tally) Add(o Outcome) {
	t.Checked++
	switch o.Kind {
	case OutcomeAvailable:
		t.Available++
	case OutcomeTaken:
		t.Taken++
	case OutcomeRateLimited:
		t.RateLimited++
	case OutcomeTransient, OutcomeError:
		t.Errors++
	}
}

// BackoffState captures persisted oracle backoff metadata for an endpoint.
type BackoffState struct {
	RequestCount  int
	WindowStart   time.Time
	BackoffUntil  *time.Time
	LastLimitedAt *time.Time
}

// RunRecord summarizes one pipeline run for the run-history table.
type RunRecord struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	State      string    `json:"state"`
	Requested  int       `json:"requested"`
	Tally      Tally     `json:"tally"`
}
