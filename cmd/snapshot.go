package cmd

import (
	"github.com/spf13/cobra"

	"gooze.dev/pkg/regroup/internal/domain"
	m "gooze.dev/pkg/regroup/internal/model"
)

var snapshotOutputFlag string

// snapshotCmd represents the snapshot command.
var snapshotCmd = newSnapshotCmd()

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "Export a registry's current classification as a mapping file",
		Long: `Write the group/subGroup each entry of a registry file currently holds as a
mapping table that apply accepts. Entries without a group are left out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := workflow.Snapshot(cmd.Context(), domain.SnapshotArgs{
				Path:   targetPaths(args)[0],
				Output: m.Path(snapshotOutputFlag),
				Fields: fieldNames(),
			})
			if err != nil {
				return err
			}

			cmd.Printf("Wrote %d mapping entries to %s\n", len(table), snapshotOutputFlag)

			return nil
		},
	}

	cmd.Flags().StringVarP(&snapshotOutputFlag, outputFlagName, "o", "", "mapping file to write")
	_ = cmd.MarkFlagRequired(outputFlagName)

	return cmd
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
