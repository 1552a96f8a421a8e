package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/simonhull/hatch/internal/scene"
)

// ValidationError is one invalid setting in hatch.yml.
type ValidationError struct {
	Field      string // Key path (e.g., "project.style")
	Message    string
	Suggestion string // Helpful suggestion (optional)
	Err        error  // Underlying sentinel, if any
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", FileName, e.Field, e.Message)
	if e.Suggestion != "" {
		msg += ". Suggestion: " + e.Suggestion
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is every problem found in one config.
type ValidationErrors []*ValidationError

// Error returns all validation errors formatted with clear separation
func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "found %d problems in %s:\n", len(e), FileName)
	for i, err := range e {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// Validate checks cfg and reports every invalid field at once.
func Validate(cfg Config) error {
	var errs ValidationErrors
	p := cfg.Project

	if _, err := cfg.SceneStyle(); err != nil {
		errs = append(errs, &ValidationError{
			Field:      "project.style",
			Message:    err.Error(),
			Suggestion: "use " + styleNames(),
			Err:        err,
		})
	}

	if p.Src == "" {
		errs = append(errs, &ValidationError{Field: "project.src", Message: "must not be empty", Suggestion: `use "." for the project root`})
	} else if filepath.IsAbs(p.Src) {
		errs = append(errs, &ValidationError{Field: "project.src", Message: "must be relative to the project root"})
	}

	switch {
	case p.Index == "":
		errs = append(errs, &ValidationError{Field: "project.index", Message: "must not be empty", Suggestion: "use " + scene.DefaultIndex})
	case filepath.Ext(p.Index) != ".js":
		errs = append(errs, &ValidationError{Field: "project.index", Message: fmt.Sprintf("%q is not a .js file", p.Index)})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func styleNames() string {
	var names []string
	for _, s := range scene.Styles() {
		names = append(names, s.String())
	}
	return strings.Join(names, " or ")
}
