package scene

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/simonhull/hatch/fledge/generator"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Request describes one scene to generate.
type Request struct {
	Name        string
	Description string
	Style       Style

	// Methods selects lifecycle methods by name. Empty means the style's
	// defaults. See Select.
	Methods []string
}

// templateData is what the module templates see.
type templateData struct {
	Title       string
	Description string
	Identifier  string
	Methods     []methodData
}

type methodData struct {
	Name        string
	Hint        string
	Declaration string
}

// Renderer turns requests into module source.
type Renderer struct {
	renderer    *generator.Renderer
	templateDir string

	once    sync.Once
	initErr error
}

// NewRenderer creates a renderer. When templateDir is non-empty, a
// <style>.js.tmpl file there replaces the built-in template for that style.
func NewRenderer(templateDir string) *Renderer {
	return &Renderer{
		renderer:    generator.NewRenderer(),
		templateDir: templateDir,
	}
}

// Render validates req and returns the module source.
func (r *Renderer) Render(req Request) ([]byte, error) {
	id, err := Identifier(req.Name)
	if err != nil {
		return nil, err
	}
	if err := req.Style.check(); err != nil {
		return nil, err
	}

	r.once.Do(func() {
		r.initErr = r.renderer.AddPartials(templatesFS, "templates/header.tmpl")
	})
	if r.initErr != nil {
		return nil, r.initErr
	}

	data := templateData{
		Title:       strings.TrimSpace(req.Name),
		Description: req.Description,
		Identifier:  id,
	}
	for _, m := range Select(req.Style, req.Methods) {
		data.Methods = append(data.Methods, methodData{
			Name:        m.Name,
			Hint:        m.Hint,
			Declaration: m.Declaration(req.Style),
		})
	}

	name := req.Style.String() + ".js.tmpl"

	if r.templateDir != "" {
		override := filepath.Join(r.templateDir, name)
		if _, err := os.Stat(override); err == nil {
			return r.renderer.RenderFile(override, data)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("checking template override: %w", err)
		}
	}

	return r.renderer.RenderFS(templatesFS, "templates/"+name, data)
}
