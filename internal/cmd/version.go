package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for build metadata and library versions.",
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("extended", "e", false, "show extended version information")
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("handlescout %s\n", versionInfo.Version)

	if extended, _ := cmd.Flags().GetBool("extended"); !extended {
		return
	}

	libs := crucible.GetVersion()
	for _, row := range [][2]string{
		{"Commit", versionInfo.Commit},
		{"Built", versionInfo.BuildDate},
		{"Go", runtime.Version()},
		{"Gofulmen", libs.Gofulmen},
		{"Crucible", libs.Crucible},
	} {
		fmt.Printf("%-10s %s\n", row[0]+":", row[1])
	}
}
