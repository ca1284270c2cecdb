package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sflowg/signaliz/cli/internal/security"
	"github.com/sflowg/signaliz/plugins/signaliz"
	"github.com/sflowg/signaliz/runtime"
	"gopkg.in/yaml.v3"
)

// FileName is the project file looked up in the project directory.
const FileName = "signaliz.yaml"

// DefaultPort is the HTTP port `serve` listens on when none is configured.
const DefaultPort = "8080"

// ProjectConfig represents the signaliz.yaml structure
type ProjectConfig struct {
	Name   string         `yaml:"name"`   // Optional: defaults to directory name
	Server ServerConfig   `yaml:"server"` // Optional: HTTP entrypoint settings
	Plugin map[string]any `yaml:"plugin"` // Raw plugin config, env-resolved on load
	Nodes  []runtime.Node `yaml:"nodes"`
}

// ServerConfig represents the HTTP entrypoint configuration
type ServerConfig struct {
	Port string `yaml:"port"` // Optional: defaults to "8080"
}

// Load reads and parses signaliz.yaml from the given directory
func Load(projectDir string) (*ProjectConfig, error) {
	configPath := filepath.Join(projectDir, FileName)

	// Security: Validate configPath is within project directory
	if err := security.ValidatePathWithinBoundary(projectDir, configPath); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %q: %w", FileName, configPath, err)
	}

	return Parse(data, projectDir, os.LookupEnv)
}

// Parse decodes a project file, substitutes environment variables in the
// plugin section, validates the result and applies defaults.
func Parse(data []byte, projectDir string, lookup LookupFunc) (*ProjectConfig, error) {
	var config ProjectConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	plugin, err := ResolveValues(config.Plugin, lookup)
	if err != nil {
		return nil, fmt.Errorf("plugin config: %w", err)
	}
	config.Plugin = plugin

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.ApplyDefaults(projectDir)

	return &config, nil
}

// Validate checks every node names a known resource and operation.
// All problems are reported together.
func (c *ProjectConfig) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Nodes))

	for i, node := range c.Nodes {
		label := fmt.Sprintf("node #%d", i)
		if node.Name != "" {
			label = fmt.Sprintf("node %q", node.Name)
		}

		switch {
		case node.Name == "":
			errs = append(errs, fmt.Errorf("%s: name field is required", label))
		case seen[node.Name]:
			errs = append(errs, fmt.Errorf("%s: duplicate node name", label))
		}
		seen[node.Name] = true

		if node.Plugin != "" && node.Plugin != runtime.DefaultPlugin {
			errs = append(errs, fmt.Errorf("%s: unknown plugin %q", label, node.Plugin))
			continue
		}

		if node.Resource == "" {
			errs = append(errs, fmt.Errorf("%s: resource field is required", label))
			continue
		}
		info, ok := signaliz.LookupResource(node.Resource)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown resource %q", label, node.Resource))
			continue
		}
		if !info.HasOperation(node.Operation) {
			errs = append(errs, fmt.Errorf("%s: resource %s has no operation %q", label, node.Resource, node.Operation))
		}
	}

	return errors.Join(errs...)
}

// ApplyDefaults fills in missing optional fields with defaults
func (c *ProjectConfig) ApplyDefaults(projectDir string) {
	if c.Name == "" {
		c.Name = getDirectoryName(projectDir)
	}

	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}

	if c.Plugin == nil {
		c.Plugin = map[string]any{}
	}
}

// getDirectoryName extracts the last component of a path
func getDirectoryName(path string) string {
	if path == "." || path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "signaliz"
		}
		path = cwd
	}

	return filepath.Base(path)
}
