package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handlescout/handlescout/internal/config"
	"github.com/handlescout/handlescout/internal/core/store"
	"github.com/handlescout/handlescout/internal/output"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded scan runs",
	Long:  "List scan runs recorded in the state database, most recent first.",
	RunE:  runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	runsCmd.Flags().StringP("output", "o", "table", "output format: table, json, markdown")
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	if cfg == nil {
		cfg = config.Default()
	}

	formatValue, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate state database: %w", err)
	}

	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	rendered, err := output.NewFormatter(format).FormatRuns(runs)
	if err != nil {
		return err
	}
	fmt.Println(rendered)

	return nil
}
