package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so workspace.yaml can say "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// WorkspaceConfig is the workspace-local workspace.yaml read by wsctl.
type WorkspaceConfig struct {
	RegistryURL   string            `yaml:"registry_url"`
	ProjectID     string            `yaml:"project_id"`
	DefaultTarget string            `yaml:"default_target"`
	CreatedBy     string            `yaml:"created_by"`
	Timeout       Duration          `yaml:"timeout"`
	Labels        map[string]string `yaml:"labels"`
}

func DefaultWorkspaceConfig() *WorkspaceConfig {
	return &WorkspaceConfig{
		RegistryURL:   "http://localhost:8080",
		DefaultTarget: "azureml",
		Timeout:       Duration(30 * time.Second),
	}
}

// LoadWorkspaceConfig reads workspace.yaml from the workspace root. A missing
// file yields the defaults.
func LoadWorkspaceConfig(root string) (*WorkspaceConfig, error) {
	config := DefaultWorkspaceConfig()

	path := filepath.Join(root, "workspace.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read workspace config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse workspace config: %w", err)
	}
	return config, nil
}
