package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Renderer handles template parsing and rendering with caching
type Renderer struct {
	funcMap  template.FuncMap
	cache    map[string]*template.Template
	partials *template.Template // shared {{ define }} blocks, nil if none
	mu       sync.RWMutex       // Protect cache for concurrent access
}

// NewRenderer creates a renderer with built-in helper functions
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template from a string.
// The name is used for caching and error messages.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	return r.render("string:"+name, name, data, func() ([]byte, error) {
		return []byte(templateStr), nil
	})
}

// RenderFS renders a template from a filesystem (usually an embed.FS)
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) ([]byte, error) {
	return r.render("fs:"+path, path, data, func() ([]byte, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template from fs '%s': %w", path, err)
		}
		return b, nil
	})
}

// RenderFile renders a template from a file path (for project template overrides)
func (r *Renderer) RenderFile(path string, data any) ([]byte, error) {
	return r.render("file:"+path, path, data, func() ([]byte, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file '%s': %w", path, err)
		}
		return b, nil
	})
}

// AddPartials parses the files matching patterns in fsys as shared
// definitions. Every template rendered afterwards can {{ template }} them.
func (r *Renderer) AddPartials(fsys fs.FS, patterns ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := r.partials
	if base == nil {
		base = template.New("partials").Funcs(r.funcMap)
	}

	parsed, err := base.ParseFS(fsys, patterns...)
	if err != nil {
		return fmt.Errorf("failed to parse partials %v: %w", patterns, err)
	}

	r.partials = parsed
	r.cache = make(map[string]*template.Template)
	return nil
}

// ClearCache clears the template cache (useful for testing)
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func (r *Renderer) render(key, name string, data any, load func() ([]byte, error)) ([]byte, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()

	if !ok {
		src, err := load()
		if err != nil {
			return nil, err
		}

		tmpl, err = r.newTemplate(name)
		if err != nil {
			return nil, err
		}

		tmpl, err = tmpl.Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
		}

		r.mu.Lock()
		r.cache[key] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) newTemplate(name string) (*template.Template, error) {
	r.mu.RLock()
	partials := r.partials
	r.mu.RUnlock()

	if partials == nil {
		return template.New(name).Funcs(r.funcMap), nil
	}

	clone, err := partials.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone partials: %w", err)
	}
	return clone.New(name), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		// Case conversion
		"pascalCase": PascalCase, // game over → GameOver
		"camelCase":  CamelCase,  // game over → gameOver
		"snakeCase":  SnakeCase,  // GameOver → game_over
		"kebabCase":  KebabCase,  // GameOver → game-over

		// String manipulation
		"quote":     Quote,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trim":      strings.TrimSpace,
		"join":      strings.Join,
		"split":     strings.Split,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,
		"repeat":    Repeat,
		"lines":     Lines,

		// Comments
		"commentSafe": CommentSafe,

		// Utilities
		"dict":    Dict,
		"default": Default,
	}
}

// Words splits s into words the way lodash's word splitter does:
// on any non-alphanumeric rune, on lower→upper transitions, at the end of
// an upper-case run followed by a lower-case letter, and between letters
// and digits.
//
//	Words("HUDScene")    → [HUD Scene]
//	Words("game over")   → [game over]
//	Words("level2_boss") → [level 2 boss]
func Words(s string) []string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}

// PascalCase joins the words of s with their first letter upper-cased.
// The rest of each word keeps its case, so acronyms survive (HUDScene → HUDScene).
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

// CamelCase is PascalCase with a lower-cased first word
func CamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

// SnakeCase lower-cases the words of s and joins them with underscores
func SnakeCase(s string) string {
	return joinLower(s, "_")
}

// KebabCase lower-cases the words of s and joins them with hyphens.
// Matches lodash.kebabcase for the names hatch accepts.
func KebabCase(s string) string {
	return joinLower(s, "-")
}

func joinLower(s, sep string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}

func upperFirst(w string) string {
	runes := []rune(w)
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Repeat returns s repeated once per rune of ref (used for underlines).
// Usage in template: {{ repeat "=" .Title }}
func Repeat(s, ref string) string {
	return strings.Repeat(s, len([]rune(ref)))
}

// CommentSafe escapes "*/" so s can sit inside a /* */ block comment.
// Usage in template: {{ commentSafe .Description }}
func CommentSafe(s string) string {
	return strings.ReplaceAll(s, "*/", `*\/`)
}

// Lines splits text into lines, trimming trailing whitespace from each.
// Returns nil for blank text.
func Lines(text string) []string {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return lines
}

// Dict creates a map from alternating key-value pairs
// Usage in template: {{ template "partial" (dict "key1" val1 "key2" val2) }}
func Dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires an even number of arguments")
	}

	result := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings, got %T at position %d", values[i], i)
		}
		result[key] = values[i+1]
	}
	return result, nil
}

// Default returns the default value if the given value is nil or empty.
// Numeric zero is not treated as empty.
func Default(defaultVal, val any) any {
	switch v := val.(type) {
	case nil:
		return defaultVal
	case string:
		if v == "" {
			return defaultVal
		}
	case []any:
		if len(v) == 0 {
			return defaultVal
		}
	case []string:
		if len(v) == 0 {
			return defaultVal
		}
	case map[string]any:
		if len(v) == 0 {
			return defaultVal
		}
	}
	return val
}
