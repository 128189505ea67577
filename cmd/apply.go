package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/regroup/internal/domain"
	m "gooze.dev/pkg/regroup/internal/model"
)

var applyParallelFlag int
var applyStrictFlag bool
var applyDryRunFlag bool
var applyCheckFlag bool
var applyConfirmFlag bool

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [files...]",
		Short: "Apply the mapping table to registry files",
		Long:  applyLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflow.Apply(cmd.Context(), domain.ApplyArgs{
				Paths:    targetPaths(args),
				Mapping:  m.Path(viper.GetString(mappingFileKey)),
				Fields:   fieldNames(),
				DryRun:   applyDryRunFlag,
				Check:    applyCheckFlag,
				Strict:   viper.GetBool(applyStrictKey),
				Confirm:  applyConfirmFlag,
				Parallel: viper.GetInt(applyParallelKey),
			})

			return err
		},
	}

	configureApplyFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func configureApplyFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&applyParallelFlag, parallelFlagName, "p", viper.GetInt(applyParallelKey), "number of files patched concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), applyParallelKey)

	cmd.Flags().BoolVar(&applyStrictFlag, strictFlagName, viper.GetBool(applyStrictKey), "skip entries whose block repeats the group or subGroup field")
	bindFlagToConfig(cmd.Flags().Lookup(strictFlagName), applyStrictKey)

	cmd.Flags().BoolVar(&applyDryRunFlag, dryRunFlagName, false, "print a diff instead of writing")
	cmd.Flags().BoolVar(&applyCheckFlag, checkFlagName, false, "fail if any file would change; write nothing")
	cmd.Flags().BoolVar(&applyConfirmFlag, confirmFlagName, false, "ask before writing each file")
	cmd.MarkFlagsMutuallyExclusive(dryRunFlagName, checkFlagName, confirmFlagName)
}
