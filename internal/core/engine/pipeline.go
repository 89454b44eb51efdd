// Package engine drives the rate-governed checking pipeline: it consumes
// sampled candidates, skips already-seen names, paces remote calls,
// classifies outcomes, and records every result durably before moving on.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/handlescout/handlescout/internal/core"
	"github.com/handlescout/handlescout/internal/core/checker"
	"github.com/handlescout/handlescout/internal/core/gen"
	"github.com/handlescout/handlescout/internal/core/naming"
	"github.com/handlescout/handlescout/internal/metrics"
)

// State names the pipeline's run phases.
type State int

const (
	StateLoadingSeen State = iota
	StateSampling
	StateChecking
	StateDone
	StateStalled
)

func (s State) String() string {
	switch s {
	case StateLoadingSeen:
		return "loading_seen"
	case StateSampling:
		return "sampling"
	case StateChecking:
		return "checking"
	case StateDone:
		return "done"
	case StateStalled:
		return "stalled"
	default:
		return "unknown"
	}
}

const (
	// batchCeiling caps how many new checks one sampling round targets.
	batchCeiling = 200

	// oversample inflates each sampling request, since many candidates
	// will be dropped as already seen.
	oversample = 3

	// errorBackoff is the fixed pause after a transient or generic oracle
	// failure.
	errorBackoff = 2 * time.Second

	// rateLimitMargin is added on top of the oracle's own retry-after
	// instruction, which is honored in full.
	rateLimitMargin = time.Second
)

// ResultLog is the durable record the pipeline writes through.
type ResultLog interface {
	LoadSeen() (map[string]struct{}, error)
	AppendChecked(name string, out core.Outcome) error
	AppendAvailable(name string) error
}

// SleepFunc suspends for d or until ctx is done. Injectable for tests.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pipeline runs one scan: strictly serialized checks, one at a time, each
// fully recorded before the next begins. The pacing sleeps and the oracle
// call itself are the only suspension points.
type Pipeline struct {
	Oracle      checker.Oracle
	Log         ResultLog
	Constraints gen.Constraints
	Checks      int
	DelayMin    time.Duration
	DelayMax    time.Duration
	Rand        *rand.Rand
	Logger      *logging.Logger
	Backoff     *Backoff
	Sleep       SleepFunc
	Clock       func() time.Time
}

// Summary reports how a run ended.
type Summary struct {
	RunID          string     `json:"run_id"`
	State          State      `json:"-"`
	StateName      string     `json:"state"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     time.Time  `json:"finished_at"`
	Requested      int        `json:"requested"`
	Tally          core.Tally `json:"tally"`
	AvailableNames []string   `json:"available_names,omitempty"`
}

// RunRecord converts the summary into a run-history row.
func (s *Summary) RunRecord() core.RunRecord {
	return core.RunRecord{
		ID:         s.RunID,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		State:      s.State.String(),
		Requested:  s.Requested,
		Tally:      s.Tally,
	}
}

// Run executes the state machine until the quota is met (done), a sampling
// round produces nothing processable (stalled), or a fatal error occurs.
// Stalling is a reported run outcome, not an error.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if p.Oracle == nil || p.Log == nil {
		return nil, errors.New("pipeline is not configured")
	}
	if p.Checks <= 0 {
		return nil, errors.New("check quota must be positive")
	}
	if err := p.Constraints.Validate(); err != nil {
		return nil, fmt.Errorf("invalid constraints: %w", err)
	}
	if p.DelayMax < p.DelayMin || p.DelayMin < 0 {
		return nil, errors.New("invalid delay bounds")
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	summary := &Summary{
		RunID:     uuid.New().String(),
		State:     StateLoadingSeen,
		StartedAt: p.now(),
		Requested: p.Checks,
	}
	defer func() {
		summary.StateName = summary.State.String()
		summary.FinishedAt = p.now()
	}()

	seen, err := p.Log.LoadSeen()
	if err != nil {
		return summary, err
	}
	p.info("seen set loaded", zap.Int("seen", len(seen)), zap.String("run_id", summary.RunID))

	// A backoff window persisted by an earlier run is still binding.
	if wait, err := p.Backoff.Pending(ctx, p.Oracle.Endpoint()); err != nil {
		p.warn("backoff state unavailable", zap.Error(err))
	} else if wait > 0 {
		p.info("honoring persisted backoff", zap.Duration("wait", wait))
		if err := p.sleep(ctx, wait); err != nil {
			return summary, err
		}
	}

	for summary.Tally.Checked < p.Checks {
		summary.State = StateSampling
		need := p.Checks - summary.Tally.Checked
		if need > batchCeiling {
			need = batchCeiling
		}

		batch := gen.Sample(p.Rand, need*oversample, p.Constraints)
		// Shuffle so check order is uncorrelated with generation order.
		p.Rand.Shuffle(len(batch), func(i, j int) {
			batch[i], batch[j] = batch[j], batch[i]
		})

		summary.State = StateChecking
		processed, err := p.checkBatch(ctx, batch, seen, summary)
		if err != nil {
			return summary, err
		}
		if processed == 0 {
			summary.State = StateStalled
			p.warn("run stalled: constraints too tight to make progress",
				zap.Int("checked", summary.Tally.Checked),
				zap.Int("requested", p.Checks))
			return summary, nil
		}
	}

	summary.State = StateDone
	p.info("run complete",
		zap.Int("checked", summary.Tally.Checked),
		zap.Int("available", summary.Tally.Available))
	return summary, nil
}

func (p *Pipeline) checkBatch(ctx context.Context, batch []string, seen map[string]struct{}, summary *Summary) (int, error) {
	processed := 0

	for _, cand := range batch {
		if summary.Tally.Checked >= p.Checks {
			break
		}

		name := naming.Normalize(cand)
		if _, ok := seen[name]; ok {
			metrics.RecordRejected("seen")
			continue
		}
		if !naming.IsValid(name) {
			metrics.RecordRejected("invalid")
			continue
		}

		// Unconditional pacing sleep before every remote call.
		if err := p.sleep(ctx, p.pacingDelay()); err != nil {
			return processed, err
		}

		outcome := p.checkOne(ctx, name)

		if err := p.Log.AppendChecked(name, outcome); err != nil {
			return processed, fmt.Errorf("record check: %w", err)
		}
		if outcome.Kind == core.OutcomeAvailable {
			if err := p.Log.AppendAvailable(name); err != nil {
				return processed, fmt.Errorf("record available: %w", err)
			}
			summary.AvailableNames = append(summary.AvailableNames, name)
		}

		// Every logged candidate counts as processed, errors included:
		// it will not be retried within or across runs unless its log
		// line is removed by hand.
		seen[name] = struct{}{}
		summary.Tally.Add(outcome)
		metrics.RecordCheck(outcome.Kind.String())
		processed++
		p.logOutcome(name, outcome)

		switch outcome.Kind {
		case core.OutcomeRateLimited:
			if err := p.Backoff.RecordLimited(ctx, p.Oracle.Endpoint(), outcome.RetryAfter); err != nil {
				p.warn("persist backoff failed", zap.Error(err))
			}
			if err := p.sleep(ctx, outcome.RetryAfter+rateLimitMargin); err != nil {
				return processed, err
			}
		case core.OutcomeTransient, core.OutcomeError:
			if err := p.sleep(ctx, errorBackoff); err != nil {
				return processed, err
			}
		}
	}

	return processed, nil
}

func (p *Pipeline) checkOne(ctx context.Context, name string) core.Outcome {
	available, err := p.Oracle.Check(ctx, name)
	if recErr := p.Backoff.RecordCall(ctx, p.Oracle.Endpoint()); recErr != nil {
		p.warn("record call failed", zap.Error(recErr))
	}

	if err == nil {
		if available {
			return core.Outcome{Kind: core.OutcomeAvailable}
		}
		return core.Outcome{Kind: core.OutcomeTaken}
	}

	var limited *checker.RateLimitError
	if errors.As(err, &limited) {
		return core.Outcome{Kind: core.OutcomeRateLimited, RetryAfter: limited.RetryAfter}
	}

	var rpc *checker.RPCError
	if errors.As(err, &rpc) {
		return core.Outcome{Kind: core.OutcomeTransient, Reason: rpc.Kind}
	}

	return core.Outcome{Kind: core.OutcomeError, Reason: checker.ErrorKind(err)}
}

// pacingDelay draws uniformly from [DelayMin, DelayMax].
func (p *Pipeline) pacingDelay() time.Duration {
	if p.DelayMax <= p.DelayMin {
		return p.DelayMin
	}
	spread := int64(p.DelayMax - p.DelayMin)
	return p.DelayMin + time.Duration(p.Rand.Int63n(spread+1))
}

func (p *Pipeline) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Pipeline) logOutcome(name string, out core.Outcome) {
	if p.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("name", name),
		zap.String("outcome", out.Label()),
	}
	switch out.Kind {
	case core.OutcomeAvailable:
		p.Logger.Info("handle available", fields...)
	case core.OutcomeTaken:
		p.Logger.Info("handle taken", fields...)
	case core.OutcomeRateLimited:
		p.Logger.Warn("oracle rate limited", fields...)
	default:
		p.Logger.Warn("check failed", fields...)
	}
}

func (p *Pipeline) info(msg string, fields ...zap.Field) {
	if p.Logger != nil {
		p.Logger.Info(msg, fields...)
	}
}

func (p *Pipeline) warn(msg string, fields ...zap.Field) {
	if p.Logger != nil {
		p.Logger.Warn(msg, fields...)
	}
}

func (p *Pipeline) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now().UTC()
}
