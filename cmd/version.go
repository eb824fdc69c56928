package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/desktopkit/internal/ui"
)

var (
	// Version info set by main package
	Version string
	Commit  string
	Date    string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.BoldStyle.Render("desktopkit "+Version))
		fmt.Fprintln(out, ui.FormatField("commit", Commit))
		fmt.Fprintln(out, ui.FormatField("built", Date))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
