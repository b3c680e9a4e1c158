package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("curator version %s\n", version)
		if verbose {
			cmd.Printf("  go: %s\n", runtime.Version())
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
				cmd.Printf("  module sum: %s\n", info.Main.Sum)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
