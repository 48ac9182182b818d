// Package config loads project-context.yaml: the per-project settings (agent
// profiles, infrastructure patterns, collection prefixes, the user's name)
// that every CLI tool would otherwise have to re-parse on its own. Grounded
// on the teacher's internal/config/config.go Default/Load/Validate idiom,
// re-pointed from environment-driven JSON feature flags to a single YAML
// file via gopkg.in/yaml.v3 per spec.md's "Dynamic configuration -> explicit
// config struct" design note.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AgentProfile is one entry under the agents: key of project-context.yaml.
type AgentProfile struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// Config is the full parsed contents of project-context.yaml.
type Config struct {
	ProjectName        string            `yaml:"project_name"`
	UserName           string            `yaml:"user_name"`
	CollectionPrefix   string            `yaml:"collection_prefix"`
	InfrastructurePath []string          `yaml:"infrastructure_patterns"`
	Agents             []AgentProfile    `yaml:"agents"`
	Extra              map[string]string `yaml:"extra,omitempty"`
}

// Default returns the configuration used when no project-context.yaml is
// present: an unnamed project with no agent roster.
func Default() *Config {
	return &Config{
		ProjectName:      "",
		UserName:         "",
		CollectionPrefix: "bmad",
	}
}

// Load reads path once into a Config, falling back to Default() when the
// file doesn't exist (a project-context.yaml is optional everywhere it's
// consulted). A present-but-malformed file is an error: silently ignoring a
// YAML syntax error would mask a typo the user needs to see.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromProjectRoot loads <root>/project-context.yaml, or the default
// config if it's absent.
func LoadFromProjectRoot(root string) (*Config, error) {
	return Load(filepath.Join(root, "project-context.yaml"))
}

// Validate rejects a config with a duplicate agent name — every other field
// is optional prose consulted only for display.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agents: entry with empty name")
		}
		if seen[a.Name] {
			return fmt.Errorf("agents: duplicate name %q", a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

// ProjectNameOrDir returns ProjectName if set, otherwise the base name of
// root — used by the bundle manifest's "source project" field.
func (c *Config) ProjectNameOrDir(root string) string {
	if c.ProjectName != "" {
		return c.ProjectName
	}
	return filepath.Base(filepath.Clean(root))
}
