package main

import (
	"os"

	"github.com/simonhull/hatch/fledge/output"
	"github.com/simonhull/hatch/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.InitCmd())
	rootCmd.AddCommand(commands.SceneCmd())

	if err := rootCmd.Execute(); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
