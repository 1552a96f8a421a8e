package commands

import (
	"github.com/simonhull/hatch"
	"github.com/simonhull/hatch/fledge/output"
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the hatch CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "hatch",
		Short: "Scaffold scenes for Phaser games",
		Long: `Hatch generates Phaser game scenes (states) and keeps the
scenes index up to date.

• CommonJS or ES module output
• Pick the lifecycle methods each scene implements
• Every change is all-or-nothing: a failed run leaves no files behind

Get started:
  hatch init
  hatch scene Title`,
		Version:       hatch.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetOutput(cmd.OutOrStdout())
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().StringP("dir", "C", ".", "Project root directory")

	return cmd
}
