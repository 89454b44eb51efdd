package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/handlescout/handlescout/internal/config"
	"github.com/handlescout/handlescout/internal/core/checker"
	"github.com/handlescout/handlescout/internal/core/engine"
	"github.com/handlescout/handlescout/internal/core/store"
	"github.com/handlescout/handlescout/internal/observability"
	"github.com/handlescout/handlescout/internal/output"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the registry for available handles",
	Long: `Generate pronounceable candidate handles and check them against the
registry until the requested number of checks has been performed.

Checks run strictly one at a time with a randomized pause before each
query. Every result is appended to the checked log before the next check
starts, and names found available are also written to the available log.
Re-running the command resumes where the logs left off: a name recorded in
the checked log is never asked about again.

Examples:
  # Check 200 names of length 5-6 under the configured zone
  handlescout scan

  # Shorter run, longer handles containing "mix" and one or two digits
  handlescout scan --checks 50 --length-min 6 --length-max 8 --require mix --digits-min 1 --digits-max 2

  # Use a named constraint preset
  handlescout scan --profile tag`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Int("checks", 0, "number of checks to perform this run")
	scanCmd.Flags().Int("length-min", 0, "minimum handle length")
	scanCmd.Flags().Int("length-max", 0, "maximum handle length")
	scanCmd.Flags().Int("digits-min", 0, "minimum digit count")
	scanCmd.Flags().Int("digits-max", 0, "maximum digit count")
	scanCmd.Flags().String("require", "", "substring every candidate must contain")
	scanCmd.Flags().Duration("delay-min", 0, "minimum pause before each check")
	scanCmd.Flags().Duration("delay-max", 0, "maximum pause before each check")
	scanCmd.Flags().Int64("seed", 0, "random seed (0 means nondeterministic)")
	scanCmd.Flags().String("zone", "", "registry zone to probe under")
	scanCmd.Flags().String("server", "", "registry server base URL (default: bootstrap discovery)")
	scanCmd.Flags().String("profile", "", "constraint preset name")
	scanCmd.Flags().String("profiles-file", "", "YAML file with additional constraint presets")
	scanCmd.Flags().String("checked-log", "", "path to the checked log")
	scanCmd.Flags().String("available-log", "", "path to the available log")
	scanCmd.Flags().Bool("sync", false, "fsync log files after every record")
	scanCmd.Flags().StringP("output", "o", "table", "output format: table, json, markdown")
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := observability.CLILogger

	cfg := config.GetConfig()
	if cfg == nil {
		cfg = config.Default()
	}

	if err := applyScanFlags(cmd, cfg); err != nil {
		return err
	}

	formatValue, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := store.OpenResultLog(cfg.Logs.Checked, cfg.Logs.Available, cfg.Logs.Sync)
	if err != nil {
		return fmt.Errorf("open result logs: %w", err)
	}
	defer func() {
		if cerr := log.Close(); cerr != nil {
			logger.Warn("Failed to close result logs", zap.Error(cerr))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The state database persists backoff windows and run history. A scan
	// still works without it; only the logs are load-bearing.
	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logger.Warn("State database unavailable, continuing without it", zap.Error(err))
		db = nil
	} else {
		defer func() { _ = db.Close() }()
		if err := db.Migrate(ctx); err != nil {
			logger.Warn("State database migration failed, continuing without it", zap.Error(err))
			_ = db.Close()
			db = nil
		}
	}

	backoff := &engine.Backoff{}
	if db != nil {
		backoff.Store = db
	}

	seed := cfg.Scan.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	oracle := &checker.RDAPOracle{
		Server:  cfg.Oracle.Server,
		Zone:    cfg.Oracle.Zone,
		Timeout: cfg.Oracle.Timeout,
		Limiter: rate.NewLimiter(rate.Limit(cfg.Oracle.MaxRPS), 1),
	}

	pipeline := &engine.Pipeline{
		Oracle:      oracle,
		Log:         log,
		Constraints: cfg.Scan.Constraints(),
		Checks:      cfg.Scan.Checks,
		DelayMin:    cfg.Scan.DelayMin,
		DelayMax:    cfg.Scan.DelayMax,
		Rand:        rand.New(rand.NewSource(seed)),
		Logger:      logger,
		Backoff:     backoff,
	}

	logger.Info("Starting scan",
		zap.Int("checks", cfg.Scan.Checks),
		zap.String("zone", cfg.Oracle.Zone),
		zap.String("checked_log", cfg.Logs.Checked),
		zap.String("available_log", cfg.Logs.Available))

	summary, runErr := pipeline.Run(ctx)

	if summary != nil && db != nil {
		// Record the run even when it ended badly; use a fresh context in
		// case the scan context was cancelled.
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.SaveRun(saveCtx, summary.RunRecord()); err != nil {
			logger.Warn("Failed to record run history", zap.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}

	rendered, err := output.NewFormatter(format).FormatSummary(summary)
	if err != nil {
		return err
	}
	fmt.Println(rendered)

	if summary.State == engine.StateStalled {
		logger.Warn("Scan stalled: constraints too tight to produce new candidates")
	}

	return nil
}

// applyScanFlags overlays the profile and any explicitly set flags onto the
// loaded configuration. Unset flags leave config values untouched.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if profileName, _ := flags.GetString("profile"); profileName != "" {
		profilesFile, _ := flags.GetString("profiles-file")
		profiles, err := config.LoadProfiles(profilesFile)
		if err != nil {
			return err
		}
		profile, ok := profiles[profileName]
		if !ok {
			return fmt.Errorf("unknown profile: %s", profileName)
		}
		cfg.ApplyProfile(profile)
	}

	if flags.Changed("checks") {
		cfg.Scan.Checks, _ = flags.GetInt("checks")
	}
	if flags.Changed("length-min") {
		cfg.Scan.LengthMin, _ = flags.GetInt("length-min")
	}
	if flags.Changed("length-max") {
		cfg.Scan.LengthMax, _ = flags.GetInt("length-max")
	}
	if flags.Changed("digits-min") {
		cfg.Scan.DigitsMin, _ = flags.GetInt("digits-min")
	}
	if flags.Changed("digits-max") {
		cfg.Scan.DigitsMax, _ = flags.GetInt("digits-max")
	}
	if flags.Changed("require") {
		cfg.Scan.Require, _ = flags.GetString("require")
	}
	if flags.Changed("delay-min") {
		cfg.Scan.DelayMin, _ = flags.GetDuration("delay-min")
	}
	if flags.Changed("delay-max") {
		cfg.Scan.DelayMax, _ = flags.GetDuration("delay-max")
	}
	if flags.Changed("seed") {
		cfg.Scan.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("zone") {
		cfg.Oracle.Zone, _ = flags.GetString("zone")
	}
	if flags.Changed("server") {
		cfg.Oracle.Server, _ = flags.GetString("server")
	}
	if flags.Changed("checked-log") {
		cfg.Logs.Checked, _ = flags.GetString("checked-log")
	}
	if flags.Changed("available-log") {
		cfg.Logs.Available, _ = flags.GetString("available-log")
	}
	if flags.Changed("sync") {
		cfg.Logs.Sync, _ = flags.GetBool("sync")
	}

	return nil
}
