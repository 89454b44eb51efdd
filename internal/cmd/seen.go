package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handlescout/handlescout/internal/config"
	"github.com/handlescout/handlescout/internal/core"
	"github.com/handlescout/handlescout/internal/core/store"
	"github.com/handlescout/handlescout/internal/output"
)

var seenCmd = &cobra.Command{
	Use:   "seen",
	Short: "Summarize the checked log",
	Long: `Read the checked log and report how past checks came out, including
which names were recorded as available.

Examples:
  handlescout seen
  handlescout seen --checked-log runs/checked.txt -o json`,
	RunE: runSeen,
}

func init() {
	rootCmd.AddCommand(seenCmd)

	seenCmd.Flags().String("checked-log", "", "path to the checked log")
	seenCmd.Flags().StringP("output", "o", "table", "output format: table, json, markdown")
}

func runSeen(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	if cfg == nil {
		cfg = config.Default()
	}

	path := cfg.Logs.Checked
	if cmd.Flags().Changed("checked-log") {
		path, _ = cmd.Flags().GetString("checked-log")
	}

	formatValue, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	records, err := store.ReadChecked(path)
	if err != nil {
		return fmt.Errorf("read checked log: %w", err)
	}

	report := &output.SeenReport{Path: path}
	for _, rec := range records {
		report.Tally.Add(rec.Outcome)
		if rec.Outcome.Kind == core.OutcomeAvailable {
			report.Available = append(report.Available, rec.Name)
		}
	}

	rendered, err := output.NewFormatter(format).FormatSeen(report)
	if err != nil {
		return err
	}
	fmt.Println(rendered)

	return nil
}
