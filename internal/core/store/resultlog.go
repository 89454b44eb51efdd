// Package store provides durable persistence for handlescout runs: the two
// append-only result logs that are the source of truth for "already seen",
// plus a small libsql state database for oracle backoff windows and run
// history.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handlescout/handlescout/internal/core"
	"github.com/handlescout/handlescout/internal/core/naming"
)

// ResultLog owns the two append-only text logs. Both files are opened once
// in append mode and held for the run; each record is written in full before
// the next candidate is processed, so an interrupted run loses at most the
// in-flight check.
type ResultLog struct {
	checkedPath string
	checked     *os.File
	available   *os.File
	syncWrites  bool
}

// OpenResultLog opens (creating if needed) the checked and available logs.
// syncWrites additionally fsyncs after every record; the default is off to
// match the flush-not-sync semantics the log format was born with.
func OpenResultLog(checkedPath, availablePath string, syncWrites bool) (*ResultLog, error) {
	for _, path := range []string{checkedPath, availablePath} {
		if err := ensureLogDir(path); err != nil {
			return nil, err
		}
	}

	checked, err := os.OpenFile(checkedPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open checked log: %w", err)
	}

	available, err := os.OpenFile(availablePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		_ = checked.Close()
		return nil, fmt.Errorf("open available log: %w", err)
	}

	return &ResultLog{
		checkedPath: checkedPath,
		checked:     checked,
		available:   available,
		syncWrites:  syncWrites,
	}, nil
}

// LoadSeen replays the checked log into a set of normalized names. Every
// previously logged name counts as seen regardless of its outcome. Lines not
// starting with "@" are ignored, which keeps replay forward-compatible with
// stray content. Replaying the same log twice yields the same set.
func (l *ResultLog) LoadSeen() (map[string]struct{}, error) {
	return LoadSeen(l.checkedPath)
}

// LoadSeen reads a checked log by path; a missing file is an empty set.
func LoadSeen(checkedPath string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})

	f, err := os.Open(checkedPath)
	if errors.Is(err, os.ErrNotExist) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open checked log: %w", err)
	}
	defer f.Close() // nolint:errcheck // read-only handle

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "@") {
			continue
		}
		token := strings.Fields(line)[0]
		name := naming.Normalize(strings.TrimPrefix(token, "@"))
		if name != "" {
			seen[name] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan checked log: %w", err)
	}

	return seen, nil
}

// CheckedRecord is one parsed checked-log line.
type CheckedRecord struct {
	Name    string
	Outcome core.Outcome
}

// ReadChecked parses every well-formed record in a checked log.
func ReadChecked(checkedPath string) ([]CheckedRecord, error) {
	f, err := os.Open(checkedPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open checked log: %w", err)
	}
	defer f.Close() // nolint:errcheck // read-only handle

	var records []CheckedRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "@") {
			continue
		}
		name, label, found := strings.Cut(strings.TrimPrefix(line, "@"), "->")
		if !found {
			continue
		}
		name = naming.Normalize(name)
		if name == "" {
			continue
		}
		records = append(records, CheckedRecord{
			Name:    name,
			Outcome: core.ParseOutcomeLabel(label),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan checked log: %w", err)
	}

	return records, nil
}

// AppendChecked records one outcome. The write reaches the file before
// return; with syncWrites it also reaches storage.
func (l *ResultLog) AppendChecked(name string, out core.Outcome) error {
	if _, err := fmt.Fprintf(l.checked, "@%s -> %s\n", name, out.Label()); err != nil {
		return fmt.Errorf("append checked log: %w", err)
	}
	return l.maybeSync(l.checked, "checked")
}

// AppendAvailable records one confirmed-available name, bare, one per line.
func (l *ResultLog) AppendAvailable(name string) error {
	if _, err := fmt.Fprintln(l.available, name); err != nil {
		return fmt.Errorf("append available log: %w", err)
	}
	return l.maybeSync(l.available, "available")
}

// Close releases both log handles.
func (l *ResultLog) Close() error {
	var errs []error
	if l.checked != nil {
		if err := l.checked.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close checked log: %w", err))
		}
	}
	if l.available != nil {
		if err := l.available.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close available log: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (l *ResultLog) maybeSync(f *os.File, label string) error {
	if !l.syncWrites {
		return nil
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s log: %w", label, err)
	}
	return nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	return nil
}
