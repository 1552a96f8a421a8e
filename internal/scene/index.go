package scene

import (
	"fmt"
	"regexp"
	"strings"
)

// Entry is one scene registered in the index.
type Entry struct {
	Name  string
	Path  string
	Style Style
}

var (
	commonJSExport = regexp.MustCompile(`^\s*exports\.([A-Za-z_$][\w$]*)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)
	esModuleExport = regexp.MustCompile(`^\s*export\s*\{\s*default\s+as\s+([A-Za-z_$][\w$]*)\s*\}\s*from\s*['"]([^'"]+)['"]`)
)

// ExportLine is the index line registering scene id from ./slug.
func ExportLine(s Style, id, slug string) string {
	if s == ESModule {
		return fmt.Sprintf("export {default as %s} from './%s';", id, slug)
	}
	return fmt.Sprintf("exports.%s = require('./%s');", id, slug)
}

// Entries parses the export lines of an index, in file order. Lines that
// are not scene exports are skipped.
func Entries(text string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(text, "\n") {
		if m := commonJSExport.FindStringSubmatch(line); m != nil {
			entries = append(entries, Entry{Name: m[1], Path: m[2], Style: CommonJS})
		} else if m := esModuleExport.FindStringSubmatch(line); m != nil {
			entries = append(entries, Entry{Name: m[1], Path: m[2], Style: ESModule})
		}
	}
	return entries
}

// DetectStyle reports the style most export lines in the index use.
// An index without exports, or with a tie, reports fallback.
func DetectStyle(text string, fallback Style) Style {
	counts := map[Style]int{}
	for _, e := range Entries(text) {
		counts[e.Style]++
	}

	switch {
	case counts[CommonJS] > counts[ESModule]:
		return CommonJS
	case counts[ESModule] > counts[CommonJS]:
		return ESModule
	default:
		return fallback
	}
}

// UpdateIndex appends the export line for name to the index text, in the
// index's prevailing style. Existing bytes are kept as they are.
//
// If the index already exports the scene's identifier, or already
// requires its module path, existing is returned unchanged with
// added == false.
func UpdateIndex(existing, name string, fallback Style) (updated string, added bool, err error) {
	id, err := Identifier(name)
	if err != nil {
		return existing, false, err
	}
	if err := fallback.check(); err != nil {
		return existing, false, err
	}

	slug := Slug(name)
	for _, e := range Entries(existing) {
		if e.Name == id || e.Path == "./"+slug {
			return existing, false, nil
		}
	}

	var b strings.Builder
	b.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(ExportLine(DetectStyle(existing, fallback), id, slug))
	b.WriteByte('\n')

	return b.String(), true, nil
}

// EmptyIndex is the content of a new index with no scenes yet.
func EmptyIndex(s Style) string {
	header := "/*\n * Scenes index. One export line per scene.\n */\n"
	if s == ESModule {
		return header
	}
	return header + "\n'use strict';\n"
}
