package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PackageFile is the npm manifest name.
const PackageFile = "package.json"

// PackageInfo holds the package.json fields generators use.
type PackageInfo struct {
	Path   string // Path to package.json
	Name   string
	Type   string // "module" or "commonjs" (empty means commonjs)
	Phaser string // Phaser version range, empty if not a dependency
}

// IsModule reports whether the package opts into ES modules.
func (p *PackageInfo) IsModule() bool {
	return p.Type == "module"
}

// FindRoot walks up from start looking for a directory that contains one
// of markers, falling back to package.json. It returns the first match.
func FindRoot(start string, markers ...string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	markers = append(markers, PackageFile)
	for {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DetectPackage reads package.json in rootPath.
// Returns (found bool, info *PackageInfo, error).
func DetectPackage(rootPath string) (bool, *PackageInfo, error) {
	path := filepath.Join(rootPath, PackageFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("failed to read %s: %w", PackageFile, err)
	}

	var manifest struct {
		Name            string            `json:"name"`
		Type            string            `json:"type"`
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return false, nil, fmt.Errorf("failed to parse %s: %w", PackageFile, err)
	}

	phaser := manifest.Dependencies["phaser"]
	if phaser == "" {
		phaser = manifest.DevDependencies["phaser"]
	}

	return true, &PackageInfo{
		Path:   path,
		Name:   manifest.Name,
		Type:   manifest.Type,
		Phaser: phaser,
	}, nil
}
