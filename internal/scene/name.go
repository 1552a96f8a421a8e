package scene

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/simonhull/hatch/fledge/generator"
)

// shadowed are globals a generated class must not redeclare. Identifiers
// are always PascalCase, so lower-case reserved words can never be produced.
var shadowed = map[string]bool{
	"Phaser":   true,
	"PIXI":     true,
	"Array":    true,
	"Boolean":  true,
	"Date":     true,
	"Error":    true,
	"Function": true,
	"Infinity": true,
	"JSON":     true,
	"Map":      true,
	"Math":     true,
	"NaN":      true,
	"Number":   true,
	"Object":   true,
	"Promise":  true,
	"Reflect":  true,
	"RegExp":   true,
	"Set":      true,
	"String":   true,
	"Symbol":   true,
}

// Identifier normalizes a display name to the PascalCase class and export
// name of a scene ("game over" → GameOver).
func Identifier(name string) (string, error) {
	id := generator.PascalCase(name)

	switch {
	case id == "":
		return "", fmt.Errorf("%w: %q has no letters or digits", ErrInvalidName, name)
	case unicode.IsDigit([]rune(id)[0]):
		return "", fmt.Errorf("%w: %q starts with a digit", ErrInvalidName, name)
	case !isASCIIIdent(id):
		return "", fmt.Errorf("%w: %q contains characters outside A-Z, a-z and 0-9", ErrInvalidName, name)
	case shadowed[id]:
		return "", fmt.Errorf("%w: %q shadows the global %s", ErrInvalidName, name, id)
	}

	return id, nil
}

// Slug is the kebab-case file name of a scene, without extension
// ("GameOver" → game-over).
func Slug(name string) string {
	return generator.KebabCase(name)
}

func isASCIIIdent(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	}) < 0
}
