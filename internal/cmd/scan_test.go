package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/handlescout/handlescout/internal/config"
)

func TestApplyScanFlags(t *testing.T) {
	cfg := config.Default()

	// No flags set: configuration passes through untouched.
	require.NoError(t, applyScanFlags(scanCmd, cfg))
	require.Equal(t, config.Default().Scan, cfg.Scan)

	flags := scanCmd.Flags()
	require.NoError(t, flags.Set("checks", "50"))
	require.NoError(t, flags.Set("length-min", "7"))
	require.NoError(t, flags.Set("require", "mix"))
	require.NoError(t, flags.Set("delay-min", "100ms"))
	require.NoError(t, flags.Set("zone", "net"))

	require.NoError(t, applyScanFlags(scanCmd, cfg))
	require.Equal(t, 50, cfg.Scan.Checks)
	require.Equal(t, 7, cfg.Scan.LengthMin)
	require.Equal(t, "mix", cfg.Scan.Require)
	require.Equal(t, 100*time.Millisecond, cfg.Scan.DelayMin)
	require.Equal(t, "net", cfg.Oracle.Zone)

	// Untouched flags keep their configured values.
	require.Equal(t, config.Default().Scan.LengthMax, cfg.Scan.LengthMax)
	require.Equal(t, config.Default().Scan.DelayMax, cfg.Scan.DelayMax)
}

func TestApplyScanFlagsProfile(t *testing.T) {
	cfg := config.Default()
	flags := scanCmd.Flags()
	require.NoError(t, flags.Set("profile", "tag"))

	require.NoError(t, applyScanFlags(scanCmd, cfg))

	// Preset values land where no flag overrides them.
	require.Equal(t, 8, cfg.Scan.LengthMax)
	require.Equal(t, 1, cfg.Scan.DigitsMin)
	require.Equal(t, 2, cfg.Scan.DigitsMax)
}

func TestApplyScanFlagsUnknownProfile(t *testing.T) {
	cfg := config.Default()
	flags := scanCmd.Flags()
	require.NoError(t, flags.Set("profile", "no-such-preset"))
	t.Cleanup(func() { _ = flags.Set("profile", "tag") })

	require.Error(t, applyScanFlags(scanCmd, cfg))
}
