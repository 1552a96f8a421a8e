package commands

import (
	"io"
	"os"
	"strings"

	"github.com/simonhull/hatch/fledge/output"
	"github.com/simonhull/hatch/fledge/project"
	"github.com/simonhull/hatch/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// projectDir returns the --dir flag, defaulting to the working directory.
func projectDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// projectRoot is projectDir, except that without an explicit --dir it
// walks up to the nearest hatch.yml or package.json.
func projectRoot(cmd *cobra.Command) string {
	dir := projectDir(cmd)
	if cmd.Flags().Changed("dir") {
		return dir
	}
	if root, ok := project.FindRoot(dir, config.FileName); ok {
		output.Verbose("Project root: " + root)
		return root
	}
	return dir
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// splitList parses "init, create,,update" into [init create update].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
