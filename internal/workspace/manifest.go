package workspace

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Manifest is the subset of pyproject.toml the workspace conventions care
// about.
type Manifest struct {
	Name         string
	Version      string
	Dependencies []string
}

// ParseManifest reads a pyproject.toml.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	return &Manifest{
		Name:         v.GetString("project.name"),
		Version:      v.GetString("project.version"),
		Dependencies: v.GetStringSlice("project.dependencies"),
	}, nil
}
