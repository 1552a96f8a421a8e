package scene

import (
	"fmt"
	"strings"
)

// Style is the module syntax a scene is generated in.
type Style int

const (
	CommonJS Style = iota
	ESModule
)

var styleNames = [...]string{
	CommonJS: "commonjs",
	ESModule: "esnext",
}

var styleAliases = map[string]Style{
	"commonjs": CommonJS,
	"cjs":      CommonJS,
	"esnext":   ESModule,
	"esm":      ESModule,
	"es6":      ESModule,
}

// Styles lists the supported styles.
func Styles() []Style {
	return []Style{CommonJS, ESModule}
}

// ParseStyle maps a style name or alias (case-insensitive) to a Style.
func ParseStyle(s string) (Style, error) {
	style, ok := styleAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (use commonjs or esnext)", ErrUnsupportedStyle, s)
	}
	return style, nil
}

func (s Style) String() string {
	if !s.valid() {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// Ext is the file extension for modules of this style, without the dot.
func (s Style) Ext() string {
	return "js"
}

func (s Style) valid() bool {
	return s == CommonJS || s == ESModule
}

func (s Style) check() error {
	if !s.valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedStyle, s)
	}
	return nil
}
