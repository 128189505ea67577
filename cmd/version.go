package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/regroup/internal/adapter"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the regroup build version, the Go version and the built-in mapping format version.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("mapping format\t %d\n", adapter.CurrentMappingVersion)

			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("regroup version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
