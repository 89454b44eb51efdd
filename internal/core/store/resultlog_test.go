package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/handlescout/handlescout/internal/core"
)

func openTestLog(t *testing.T) (*ResultLog, string, string) {
	t.Helper()
	dir := t.TempDir()
	checked := filepath.Join(dir, "checked.txt")
	available := filepath.Join(dir, "available.txt")

	log, err := OpenResultLog(checked, available, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	return log, checked, available
}

func TestAppendAndReload(t *testing.T) {
	log, checkedPath, availablePath := openTestLog(t)

	require.NoError(t, log.AppendChecked("brandel", core.Outcome{Kind: core.OutcomeTaken}))
	require.NoError(t, log.AppendChecked("frostin", core.Outcome{Kind: core.OutcomeAvailable}))
	require.NoError(t, log.AppendAvailable("frostin"))
	require.NoError(t, log.AppendChecked("grumbel", core.Outcome{Kind: core.OutcomeRateLimited, RetryAfter: 5 * time.Second}))
	require.NoError(t, log.AppendChecked("snorvel", core.Outcome{Kind: core.OutcomeTransient, Reason: "HTTP_502"}))

	raw, err := os.ReadFile(checkedPath)
	require.NoError(t, err)
	require.Contains(t, string(raw), "@brandel -> TAKEN\n")
	require.Contains(t, string(raw), "@frostin -> AVAILABLE\n")
	require.Contains(t, string(raw), "@grumbel -> FLOOD_WAIT 5s\n")
	require.Contains(t, string(raw), "@snorvel -> RPC_ERROR HTTP_502\n")

	availableRaw, err := os.ReadFile(availablePath)
	require.NoError(t, err)
	require.Equal(t, "frostin\n", string(availableRaw))

	seen, err := log.LoadSeen()
	require.NoError(t, err)
	require.Len(t, seen, 4)
	require.Contains(t, seen, "grumbel")
}

func TestLoadSeenIdempotentAndForgiving(t *testing.T) {
	dir := t.TempDir()
	checked := filepath.Join(dir, "checked.txt")

	content := "@brandel -> TAKEN\n" +
		"# a stray comment line\n" +
		"@brandel -> AVAILABLE\n" + // duplicate name, set semantics
		"not a record\n" +
		"@Frostin -> TAKEN\n" // normalized on load
	require.NoError(t, os.WriteFile(checked, []byte(content), 0o644))

	seen, err := LoadSeen(checked)
	require.NoError(t, err)
	require.Equal(t, map[string]struct{}{
		"brandel": {},
		"frostin": {},
	}, seen)

	again, err := LoadSeen(checked)
	require.NoError(t, err)
	require.Equal(t, seen, again)
}

func TestLoadSeenMissingFile(t *testing.T) {
	seen, err := LoadSeen(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	require.Empty(t, seen)
}

func TestReadChecked(t *testing.T) {
	dir := t.TempDir()
	checked := filepath.Join(dir, "checked.txt")

	content := "@brandel -> TAKEN\n" +
		"@frostin -> AVAILABLE\n" +
		"@grumbel -> FLOOD_WAIT 12s\n" +
		"garbage\n" +
		"@snorvel -> ERROR TimeoutError\n"
	require.NoError(t, os.WriteFile(checked, []byte(content), 0o644))

	records, err := ReadChecked(checked)
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, core.OutcomeTaken, records[0].Outcome.Kind)
	require.Equal(t, core.OutcomeAvailable, records[1].Outcome.Kind)
	require.Equal(t, 12*time.Second, records[2].Outcome.RetryAfter)
	require.Equal(t, "TimeoutError", records[3].Outcome.Reason)
}

func TestAppendAcrossReopens(t *testing.T) {
	dir := t.TempDir()
	checked := filepath.Join(dir, "checked.txt")
	available := filepath.Join(dir, "available.txt")

	first, err := OpenResultLog(checked, available, false)
	require.NoError(t, err)
	require.NoError(t, first.AppendChecked("brandel", core.Outcome{Kind: core.OutcomeTaken}))
	require.NoError(t, first.Close())

	second, err := OpenResultLog(checked, available, true)
	require.NoError(t, err)
	require.NoError(t, second.AppendChecked("frostin", core.Outcome{Kind: core.OutcomeAvailable}))
	require.NoError(t, second.Close())

	seen, err := LoadSeen(checked)
	require.NoError(t, err)
	require.Len(t, seen, 2)
}
