package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/regroup/internal/domain"
	m "gooze.dev/pkg/regroup/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "List registry entries and their mapped classification",
		Long:  "List every entry of a registry file with its current group/subGroup and the mapped one, marking drift.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{
				Path:    targetPaths(args)[0],
				Mapping: m.Path(viper.GetString(mappingFileKey)),
				Fields:  fieldNames(),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
