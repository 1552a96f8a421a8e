// Package config loads hatch.yml, the per-project generator settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/hatch/internal/scene"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file, looked up in the project root.
const FileName = "hatch.yml"

// Config is the contents of hatch.yml.
type Config struct {
	Project Project `yaml:"project"`
}

// Project holds where scenes live and how they are written.
type Project struct {
	Style     string `yaml:"style"`
	Src       string `yaml:"src"`
	Index     string `yaml:"index"`             // relative to Src
	Templates string `yaml:"templates,omitempty"` // relative to the project root
	Format    string `yaml:"format,omitempty"`  // command run on generated files, e.g. "npx prettier --write"
}

// Default returns the settings used when hatch.yml is absent.
func Default() Config {
	return Config{Project: Project{
		Style: scene.CommonJS.String(),
		Src:   "src",
		Index: scene.DefaultIndex,
	}}
}

// Path returns the config file path for a project root.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads hatch.yml from dir. A missing file yields the defaults.
// HATCH_PROJECT_* environment variables override file values.
func Load(dir string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("project.style", def.Project.Style)
	v.SetDefault("project.src", def.Project.Src)
	v.SetDefault("project.index", def.Project.Index)
	v.SetDefault("project.templates", "")
	v.SetDefault("project.format", "")

	// Enable environment variable overrides
	v.SetEnvPrefix("HATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := Path(dir)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	cfg := Config{Project: Project{
		Style:     v.GetString("project.style"),
		Src:       v.GetString("project.src"),
		Index:     v.GetString("project.index"),
		Templates: v.GetString("project.templates"),
		Format:    v.GetString("project.format"),
	}}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SceneStyle parses the configured module style.
func (c Config) SceneStyle() (scene.Style, error) {
	return scene.ParseStyle(c.Project.Style)
}

// SceneOptions resolves the configured paths against the project root.
func (c Config) SceneOptions(dir string) scene.Options {
	opts := scene.Options{
		SrcDir:    filepath.Join(dir, c.Project.Src),
		IndexPath: filepath.Join(dir, c.Project.Src, c.Project.Index),
	}
	if c.Project.Templates != "" {
		opts.TemplateDir = filepath.Join(dir, c.Project.Templates)
	}
	return opts
}

// Marshal renders cfg as hatch.yml content.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", FileName, err)
	}
	return data, nil
}
