package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	fledgeexec "github.com/simonhull/hatch/fledge/exec"
	"github.com/simonhull/hatch/fledge/generator"
	"github.com/simonhull/hatch/fledge/input"
	"github.com/simonhull/hatch/fledge/output"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/scene"
	"github.com/spf13/cobra"
)

var errCancelled = errors.New("operation cancelled")

// sceneFlags holds everything `hatch scene` can be told up front.
type sceneFlags struct {
	description string
	methods     []string
	style       string
	src         string
	index       string

	force, skip, diff bool
	dryRun, noPrompt  bool
	noFormat          bool
}

// SceneCmd creates and returns the 'scene' command
func SceneCmd() *cobra.Command {
	var f sceneFlags

	cmd := &cobra.Command{
		Use:   "scene [name]",
		Short: "Generate a scene and register it in the scenes index",
		Long: `Generate a Phaser scene module and add it to the scenes index.

Missing values are asked for interactively. Pass --no-prompt to use
flags and defaults only.

Lifecycle methods: init, preload, create, update, render, shutdown.
create and update are generated when no methods are chosen.

Settings come from flags, then hatch.yml, then built-in defaults.

Examples:
  hatch scene Title
  hatch scene "Game Over" --description "Shown when the player dies."
  hatch scene Boot --methods init,preload,create --style esnext
  hatch scene Level1 --no-prompt --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScene(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description placed in the module's header comment")
	cmd.Flags().StringSliceVarP(&f.methods, "methods", "m", nil, "Lifecycle methods to generate (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", "", "Module style: commonjs or esnext (default from hatch.yml)")
	cmd.Flags().StringVar(&f.src, "src", "", "Source directory (default from hatch.yml)")
	cmd.Flags().StringVar(&f.index, "index", "", "Index file name inside the source directory (default from hatch.yml)")
	cmd.Flags().BoolVar(&f.force, "force", false, "Overwrite an existing module without asking")
	cmd.Flags().BoolVar(&f.skip, "skip", false, "Keep an existing module without asking (it is still registered)")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "Show a diff before deciding about an existing module")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Show what would be generated without writing files")
	cmd.Flags().BoolVar(&f.noPrompt, "no-prompt", false, "Never prompt; use flags and defaults")
	cmd.Flags().BoolVar(&f.noFormat, "no-format", false, "Skip the project.format command from hatch.yml")

	cmd.AddCommand(sceneListCmd())

	return cmd
}

func runScene(cmd *cobra.Command, args []string, f sceneFlags) error {
	ctx := context.Background()
	dir := projectRoot(cmd)

	// Validate mutually exclusive flags before any prompting
	resolver, err := generator.NewResolver(f.force, f.skip, f.diff)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, dir, f)
	if err != nil {
		return err
	}

	style, err := cfg.SceneStyle()
	if err != nil {
		return err
	}

	req, err := collectRequest(cmd, args, f, style)
	if err != nil {
		return err
	}

	if unknown := scene.Unknown(req.Methods); len(unknown) > 0 {
		output.Warn("ignoring unknown lifecycle methods", "methods", strings.Join(unknown, ","))
	}

	output.Verbose(fmt.Sprintf("Generating scene %q (style=%s, dry-run=%v, force=%v)", req.Name, style, f.dryRun, f.force))

	gen := scene.NewGenerator(cfg.SceneOptions(dir))
	ops, err := gen.Generate(req)
	if err != nil {
		if errors.Is(err, scene.ErrMissingIndex) {
			output.Info("Tip: run `hatch init` to create hatch.yml and the scenes index")
		}
		return err
	}

	warnStyleMismatch(gen.IndexPath(), style)

	force := f.force
	write := ops[0].(*generator.WriteFileOp)
	if existing, err := os.ReadFile(write.Path); err == nil && !f.force && (f.skip || isTerminal(cmd.InOrStdin())) {
		res, err := resolver.ResolveConflict(write.Path, existing, write.Content)
		if err != nil {
			return err
		}

		switch res {
		case generator.Skip:
			output.Info("Keeping existing " + write.Path)
			ops = []generator.Operation{gen.Register(req)}
		case generator.Overwrite:
			force = true
		default:
			return errCancelled
		}
	}

	writer := cmd.OutOrStdout()
	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{
		DryRun: f.dryRun,
		Force:  force,
		Writer: writer,
	}); err != nil {
		if strings.Contains(err.Error(), "already exists") && !f.dryRun {
			output.Info("Tip: Use --force to overwrite, --skip to keep it, or --diff to review changes")
		}
		return err
	}

	if f.dryRun {
		fmt.Fprintln(writer, "\n✓ Dry-run complete. Run without --dry-run to create files.")
		return nil
	}

	if cfg.Project.Format != "" && !f.noFormat {
		formatFiles(ctx, cmd, dir, cfg.Project.Format, ops)
	}

	id, _ := scene.Identifier(req.Name)
	output.Success(fmt.Sprintf("Generated scene: %s", id))
	output.Step("Start it with game.state.add('" + id + "', scenes." + id + ")")
	return nil
}

// loadConfig reads hatch.yml and applies flag overrides on top.
func loadConfig(cmd *cobra.Command, dir string, f sceneFlags) (config.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("style") {
		cfg.Project.Style = f.style
	}
	if cmd.Flags().Changed("src") {
		cfg.Project.Src = f.src
	}
	if cmd.Flags().Changed("index") {
		cfg.Project.Index = f.index
	}

	output.Debug("config loaded", "dir", dir, "style", cfg.Project.Style, "src", cfg.Project.Src, "index", cfg.Project.Index)
	return cfg, nil
}

// collectRequest fills the request from args and flags, prompting for
// whatever is missing unless --no-prompt is set.
func collectRequest(cmd *cobra.Command, args []string, f sceneFlags, style scene.Style) (scene.Request, error) {
	req := scene.Request{Style: style}
	prompt := !f.noPrompt
	p := input.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	switch {
	case len(args) > 0:
		req.Name = args[0]
	case prompt:
		req.Name = p.Prompt("Scene name", "")
	}
	if strings.TrimSpace(req.Name) == "" {
		return req, fmt.Errorf("%w: a scene name is required", scene.ErrInvalidName)
	}
	if _, err := scene.Identifier(req.Name); err != nil {
		return req, err
	}

	switch {
	case cmd.Flags().Changed("description"):
		req.Description = f.description
	case prompt:
		req.Description = p.Prompt("Description", "")
	}

	switch {
	case cmd.Flags().Changed("methods"):
		req.Methods = f.methods
	case prompt:
		methods, err := askMethods(cmd.InOrStdin(), p, style)
		if err != nil {
			return req, err
		}
		req.Methods = methods
	}

	return req, nil
}

// askMethods shows a checkbox list on a terminal, and reads a
// comma-separated line otherwise.
func askMethods(in io.Reader, p *input.Prompter, style scene.Style) ([]string, error) {
	var defaults []string
	for _, m := range scene.Defaults(style) {
		defaults = append(defaults, m.Name)
	}

	if !isTerminal(in) {
		return splitList(p.Prompt("Lifecycle methods", strings.Join(defaults, ","))), nil
	}

	var options []input.Option
	for _, m := range scene.Methods() {
		options = append(options, input.Option{Value: m.Name, Hint: m.Hint})
	}

	methods, err := input.MultiSelect("Lifecycle methods", options, defaults)
	if errors.Is(err, input.ErrAborted) {
		return nil, errCancelled
	}
	return methods, err
}

// formatFiles runs the configured formatter over every file the operations
// touched. Generated files are already written, so failures only warn.
func formatFiles(ctx context.Context, cmd *cobra.Command, dir, cmdline string, ops []generator.Operation) {
	name, args, err := fledgeexec.Split(cmdline)
	if err != nil {
		output.Warn("invalid project.format", "format", cmdline, "err", err)
		return
	}

	for _, op := range ops {
		if t, ok := op.(generator.Targeter); ok {
			path, err := filepath.Abs(t.Target())
			if err != nil {
				path = t.Target()
			}
			args = append(args, path)
		}
	}

	executor := fledgeexec.NewExecutor(&fledgeexec.Options{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Dir:    dir,
	})
	output.Debug("running formatter", "command", name, "args", strings.Join(args, " "))

	if err := executor.RunWithSpinner(ctx, "Formatting generated files", name, args...); err != nil {
		output.Warn("formatter failed; files were generated but not formatted", "err", err)
	}
}

// warnStyleMismatch notes when the index will keep a different style than
// the one the module is written in.
func warnStyleMismatch(indexPath string, style scene.Style) {
	text, err := os.ReadFile(indexPath)
	if err != nil {
		return
	}
	if detected := scene.DetectStyle(string(text), style); detected != style {
		output.Warn("scenes index uses a different module style; the new export follows the index",
			"index", indexPath, "index_style", detected.String(), "scene_style", style.String())
	}
}

func sceneListCmd() *cobra.Command {
	var src, index string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the scenes registered in the scenes index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectRoot(cmd)
			cfg, err := loadConfig(cmd, dir, sceneFlags{src: src, index: index})
			if err != nil {
				return err
			}

			gen := scene.NewGenerator(cfg.SceneOptions(dir))
			entries, err := gen.List()
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				output.Info("No scenes registered in " + gen.IndexPath())
				return nil
			}

			output.Info(fmt.Sprintf("%d scene(s) in %s", len(entries), gen.IndexPath()))
			for _, e := range entries {
				output.Step(fmt.Sprintf("%-20s %s (%s)", e.Name, e.Path, e.Style))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "Source directory (default from hatch.yml)")
	cmd.Flags().StringVar(&index, "index", "", "Index file name inside the source directory (default from hatch.yml)")

	return cmd
}
