package commands

import (
	"fmt"
	"os"

	"github.com/simonhull/hatch/fledge/generator"
	"github.com/simonhull/hatch/fledge/output"
	"github.com/simonhull/hatch/fledge/project"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/scene"
	"github.com/spf13/cobra"
)

// InitCmd creates and returns the 'init' command, which writes hatch.yml
// and an empty scenes index.
func InitCmd() *cobra.Command {
	var style, src, index string
	var force, scan bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create hatch.yml and an empty scenes index",
		Long: `Creates the files hatch needs in an existing Phaser project:
• hatch.yml with the module style and source layout
• the scenes index (src/scenes-index.js by default)

Both files are written together or not at all. Without --style, a
package.json declaring "type": "module" selects esnext.

With --scan, scene modules already under the source directory are
registered in the new index.

Examples:
  hatch init --style esnext
  hatch init --scan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(cmd)

			cfg := config.Default()
			cfg.Project.Style = style
			if !cmd.Flags().Changed("style") {
				cfg.Project.Style = detectStyle(dir, style)
			}
			cfg.Project.Src = src
			cfg.Project.Index = index

			if err := config.Validate(cfg); err != nil {
				return err
			}
			st, err := cfg.SceneStyle()
			if err != nil {
				return err
			}
			cfg.Project.Style = st.String()

			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}

			cfgPath := config.Path(dir)
			indexPath := cfg.SceneOptions(dir).IndexPath

			if !force {
				for _, path := range []string{cfgPath, indexPath} {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("file already exists: %s (use --force to replace it)", path)
					}
				}
			}

			indexContent := scene.EmptyIndex(st)
			var found []scene.Entry
			if scan {
				found, err = scene.NewGenerator(cfg.SceneOptions(dir)).Discover()
				if err != nil {
					return err
				}
				indexContent = scene.IndexWith(st, found)
			}

			tx := generator.NewTransaction()
			defer tx.Rollback()

			tx.AddFile(cfgPath, data, 0644)
			tx.AddFile(indexPath, []byte(indexContent), 0644)

			if err := tx.Commit(); err != nil {
				return err
			}

			output.Success("Initialized hatch project")
			output.Step("Created " + cfgPath)
			output.Step("Created " + indexPath)
			for _, e := range found {
				output.Step(fmt.Sprintf("Registered %s (%s)", e.Name, e.Path))
			}
			output.Info("Next: hatch scene <name>")
			return nil
		},
	}

	def := config.Default()
	cmd.Flags().StringVar(&style, "style", def.Project.Style, "Module style: commonjs or esnext")
	cmd.Flags().StringVar(&src, "src", def.Project.Src, "Source directory")
	cmd.Flags().StringVar(&index, "index", def.Project.Index, "Index file name inside the source directory")
	cmd.Flags().BoolVar(&force, "force", false, "Replace existing hatch.yml and index")
	cmd.Flags().BoolVar(&scan, "scan", false, "Register scene modules already in the source directory")

	return cmd
}

// detectStyle picks esnext for packages that opt into ES modules.
func detectStyle(dir, fallback string) string {
	found, pkg, err := project.DetectPackage(dir)
	if err != nil {
		output.Verbose("Ignoring package.json: " + err.Error())
		return fallback
	}
	if found && pkg.IsModule() {
		output.Verbose("package.json has \"type\": \"module\", using esnext")
		return scene.ESModule.String()
	}
	return fallback
}
