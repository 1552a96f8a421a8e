package scene

import "fmt"

// Method is one Phaser state lifecycle method a scene can implement.
type Method struct {
	Name string
	Hint string

	// Params is the CommonJS parameter list. The game argument is
	// commented out so linters accept the unused parameter.
	Params string

	// DefaultOn marks methods generated when no selection is given.
	DefaultOn map[Style]bool
}

var catalog = []Method{
	{
		Name:   "init",
		Hint:   "Called first when the state starts, before any assets load.",
		Params: "",
	},
	{
		Name:   "preload",
		Hint:   "Queue the assets this state needs.",
		Params: "/*game*/",
	},
	{
		Name:      "create",
		Hint:      "Build the game objects once assets are ready.",
		Params:    "/*game*/",
		DefaultOn: map[Style]bool{CommonJS: true, ESModule: true},
	},
	{
		Name:      "update",
		Hint:      "Advance the game logic, once per frame.",
		Params:    "/*game*/",
		DefaultOn: map[Style]bool{CommonJS: true, ESModule: true},
	},
	{
		Name:   "render",
		Hint:   "Draw debug overlays after the world renders.",
		Params: "/*game*/",
	},
	{
		Name:   "shutdown",
		Hint:   "Release resources when leaving this state.",
		Params: "/*game*/",
	},
}

// Declaration returns the line that opens the method body in style s.
func (m Method) Declaration(s Style) string {
	if s == ESModule {
		return m.Name + "() {"
	}
	return fmt.Sprintf("exports.%s = function (%s) {", m.Name, m.Params)
}

// Methods returns the catalog in lifecycle order.
func Methods() []Method {
	return append([]Method(nil), catalog...)
}

// Names returns the catalog's method names in lifecycle order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, m := range catalog {
		names[i] = m.Name
	}
	return names
}

// Lookup finds a method by name.
func Lookup(name string) (Method, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// Defaults returns the default-on methods for style s.
func Defaults(s Style) []Method {
	var out []Method
	for _, m := range catalog {
		if m.DefaultOn[s] {
			out = append(out, m)
		}
	}
	return out
}

// Select resolves a method selection against the catalog.
//
// An empty selection yields the style's defaults. Otherwise only catalog
// methods named in names are returned, in catalog order. Unknown names are
// ignored and duplicates collapse, so a selection of only unknown names
// yields no methods at all.
func Select(s Style, names []string) []Method {
	if len(names) == 0 {
		return Defaults(s)
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	out := []Method{}
	for _, m := range catalog {
		if want[m.Name] {
			out = append(out, m)
		}
	}
	return out
}

// Unknown returns the names in names that are not in the catalog.
func Unknown(names []string) []string {
	var out []string
	for _, n := range names {
		if _, ok := Lookup(n); !ok {
			out = append(out, n)
		}
	}
	return out
}
