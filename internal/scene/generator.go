package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/hatch/fledge/generator"
)

// DefaultIndex is the index file name inside the source directory.
const DefaultIndex = "scenes-index.js"

// Options locates a project's scene sources.
type Options struct {
	SrcDir      string // default "src"
	IndexPath   string // default <SrcDir>/scenes-index.js
	TemplateDir string // optional template overrides
}

// Generator plans the file operations for a scene.
type Generator struct {
	opts     Options
	renderer *Renderer
}

// NewGenerator creates a generator, filling in default paths.
func NewGenerator(opts Options) *Generator {
	if opts.SrcDir == "" {
		opts.SrcDir = "src"
	}
	if opts.IndexPath == "" {
		opts.IndexPath = filepath.Join(opts.SrcDir, DefaultIndex)
	}

	return &Generator{
		opts:     opts,
		renderer: NewRenderer(opts.TemplateDir),
	}
}

// IndexPath is the index file this generator registers scenes in.
func (g *Generator) IndexPath() string {
	return g.opts.IndexPath
}

// ModulePath is where the module for a scene called name is written.
func (g *Generator) ModulePath(name string, s Style) string {
	return filepath.Join(g.opts.SrcDir, Slug(name)+"."+s.Ext())
}

// Generate renders the module and returns the operations that write it
// and register it in the index. Nothing touches the disk until the
// operations are executed.
func (g *Generator) Generate(req Request) ([]generator.Operation, error) {
	content, err := g.renderer.Render(req)
	if err != nil {
		return nil, err
	}

	if err := g.checkIndex(); err != nil {
		return nil, err
	}
	if err := g.checkRegistered(req.Name); err != nil {
		return nil, err
	}

	write := &generator.WriteFileOp{
		Path:    g.ModulePath(req.Name, req.Style),
		Content: content,
		Mode:    0644,
	}

	return []generator.Operation{write, g.Register(req)}, nil
}

// Register returns the index update for req alone. Use it when the module
// file is kept as it is but must still be listed in the index.
func (g *Generator) Register(req Request) generator.Operation {
	return &generator.UpdateFileOp{
		Path: g.opts.IndexPath,
		Transform: func(existing []byte) ([]byte, error) {
			updated, _, err := UpdateIndex(string(existing), req.Name, req.Style)
			return []byte(updated), err
		},
	}
}

// List reads the index and returns its entries.
func (g *Generator) List() ([]Entry, error) {
	if err := g.checkIndex(); err != nil {
		return nil, err
	}

	text, err := os.ReadFile(g.opts.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingIndex, g.opts.IndexPath, err)
	}
	return Entries(string(text)), nil
}

func (g *Generator) checkIndex() error {
	info, err := os.Stat(g.opts.IndexPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingIndex, g.opts.IndexPath)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrMissingIndex, g.opts.IndexPath)
	}
	return nil
}

// checkRegistered rejects a name whose identifier or module path is
// already registered for a different scene. Registering the same scene
// again is fine.
func (g *Generator) checkRegistered(name string) error {
	entries, err := g.List()
	if err != nil {
		return err
	}

	id, _ := Identifier(name)
	slug := "./" + Slug(name)
	for _, e := range entries {
		switch {
		case e.Name == id && e.Path == slug:
			return nil
		case e.Path == slug:
			return fmt.Errorf("%w: %s is already registered as %s", ErrInvalidName, slug, e.Name)
		case e.Name == id:
			return fmt.Errorf("%w: %s is already registered from %s", ErrInvalidName, id, e.Path)
		}
	}
	return nil
}
