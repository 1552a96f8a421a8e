package scene

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/simonhull/hatch/fledge/filesystem"
)

var (
	esModuleScene = regexp.MustCompile(`\bextends\s+Phaser\.State\b`)
	commonJSScene = regexp.MustCompile(`(?m)^\s*exports\.(init|preload|create|update|render|shutdown)\s*=\s*function\b`)
)

// SceneStyle reports whether source looks like a scene module, and in
// which style.
func SceneStyle(source string) (Style, bool) {
	switch {
	case esModuleScene.MatchString(source):
		return ESModule, true
	case commonJSScene.MatchString(source):
		return CommonJS, true
	default:
		return 0, false
	}
}

// Discover finds scene modules under the source directory that already
// exist on disk, in lexical path order. The index itself is skipped, as
// are files whose base name is not a usable identifier. When two files
// map to the same identifier the first one wins.
func (g *Generator) Discover() ([]Entry, error) {
	files, err := filesystem.Files(g.opts.SrcDir, ".js", filesystem.WalkOptions{
		IgnorePatterns: []string{"*.min.js"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", g.opts.SrcDir, err)
	}

	index, _ := filepath.Abs(g.opts.IndexPath)
	seen := map[string]bool{}

	var entries []Entry
	for _, rel := range files {
		full := filepath.Join(g.opts.SrcDir, filepath.FromSlash(rel))
		if abs, _ := filepath.Abs(full); abs == index {
			continue
		}

		source, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", full, err)
		}
		style, ok := SceneStyle(string(source))
		if !ok {
			continue
		}

		base := strings.TrimSuffix(path.Base(rel), ".js")
		id, err := Identifier(base)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true

		entries = append(entries, Entry{
			Name:  id,
			Path:  "./" + strings.TrimSuffix(rel, ".js"),
			Style: style,
		})
	}

	return entries, nil
}

// IndexWith is the content of a new index in style s that already
// registers entries, in order.
func IndexWith(s Style, entries []Entry) string {
	var b strings.Builder
	b.WriteString(EmptyIndex(s))
	if len(entries) > 0 {
		b.WriteByte('\n')
	}
	for _, e := range entries {
		b.WriteString(ExportLine(s, e.Name, strings.TrimPrefix(e.Path, "./")))
		b.WriteByte('\n')
	}
	return b.String()
}
