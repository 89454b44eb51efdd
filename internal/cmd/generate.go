package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/handlescout/handlescout/internal/config"
	"github.com/handlescout/handlescout/internal/core/gen"
	"github.com/handlescout/handlescout/internal/output"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate candidate handles without checking them",
	Long: `Sample pronounceable candidate handles matching the constraints and
print them, one per line. The registry is never contacted.

Examples:
  # Twenty candidates with the configured constraints
  handlescout generate

  # Reproducible sample of long handles containing "nova"
  handlescout generate --count 50 --length-min 7 --length-max 9 --require nova --seed 42`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Int("count", 20, "number of candidates to generate")
	generateCmd.Flags().Int("length-min", 0, "minimum handle length")
	generateCmd.Flags().Int("length-max", 0, "maximum handle length")
	generateCmd.Flags().Int("digits-min", 0, "minimum digit count")
	generateCmd.Flags().Int("digits-max", 0, "maximum digit count")
	generateCmd.Flags().String("require", "", "substring every candidate must contain")
	generateCmd.Flags().Int64("seed", 0, "random seed (0 means nondeterministic)")
	generateCmd.Flags().String("profile", "", "constraint preset name")
	generateCmd.Flags().String("profiles-file", "", "YAML file with additional constraint presets")
	generateCmd.Flags().StringP("output", "o", "table", "output format: table, json")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	cfg := config.GetConfig()
	if cfg == nil {
		cfg = config.Default()
	}

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

	c := cfg.Scan.Constraints()
	if flags.Changed("length-min") {
		c.LengthMin, _ = flags.GetInt("length-min")
	}
	if flags.Changed("length-max") {
		c.LengthMax, _ = flags.GetInt("length-max")
	}
	if flags.Changed("digits-min") {
		c.DigitsMin, _ = flags.GetInt("digits-min")
	}
	if flags.Changed("digits-max") {
		c.DigitsMax, _ = flags.GetInt("digits-max")
	}
	if flags.Changed("require") {
		c.Require, _ = flags.GetString("require")
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid constraints: %w", err)
	}

	count, _ := flags.GetInt("count")
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	formatValue, _ := flags.GetString("output")
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	seed, _ := flags.GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	names := gen.Sample(rng, count, c)

	if format == output.FormatJSON {
		data, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}

	return nil
}
