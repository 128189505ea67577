// Package cmd provides the root command and CLI setup for regroup.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/regroup/internal/adapter"
	"gooze.dev/pkg/regroup/internal/controller"
	"gooze.dev/pkg/regroup/internal/domain"
	m "gooze.dev/pkg/regroup/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var mappingStore adapter.MappingStore
var ui controller.UI
var workflow domain.Workflow

// mappingFlag is a root-level flag selecting the mapping file for every command.
var mappingFlag string

var logFileFlag string
var verboseFlag bool

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	mappingStore = adapter.NewYAMLMappingStore(fsAdapter)
	workflow = domain.NewWorkflow(fsAdapter, mappingStore, ui)
}

const mappingHelp = `The mapping table is a YAML file:

  version: 1
  entries:
    - id: dashboard
      group: foundation
      subgroup: dashboard_communications

Without --mapping the table built into regroup is used.`

const rootLongDescription = `Regroup rewrites the group and subGroup fields of entries in a feature
registry (an array of object literals keyed by id) from a mapping table.

` + mappingHelp

const applyLongDescription = `Apply the mapping table to the given registry files (default: the
target.file config value, src/config/features.ts).

Each mapped id has its group field set, or added when missing, and its
subGroup field set or inserted right after group. Ids that are not declared
in a file are skipped. Other fields are left byte-for-byte intact.

` + mappingHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "regroup",
		Short:        "Reclassify feature registry entries",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&mappingFlag, mappingFlagName, "m",
			viper.GetString(mappingFileKey),
			"mapping table file (YAML); empty uses the built-in table",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(mappingFlagName), mappingFileKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func fieldNames() m.FieldNames {
	return m.FieldNames{
		ID:       viper.GetString(fieldIDKey),
		Group:    viper.GetString(fieldGroupKey),
		SubGroup: viper.GetString(fieldSubGroupKey),
	}
}

// targetPaths falls back to the configured registry file when no path is given.
func targetPaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{m.Path(viper.GetString(targetFileKey))}
	}

	return parsePaths(args)
}
