package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ProjectName != "" {
		t.Errorf("expected empty default project name, got %q", cfg.ProjectName)
	}
	if cfg.CollectionPrefix != "bmad" {
		t.Errorf("expected default collection prefix 'bmad', got %q", cfg.CollectionPrefix)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "project-context.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ProjectName != "" {
		t.Errorf("expected default config for a missing file, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project-context.yaml")
	content := `
project_name: acme-coordination
user_name: jordan
collection_prefix: acme
infrastructure_patterns:
  - "*.tf"
  - "docker-compose.yml"
agents:
  - name: dev
    role: implementation
  - name: qa
    role: verification
`
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ProjectName != "acme-coordination" {
		t.Errorf("expected project name 'acme-coordination', got %q", cfg.ProjectName)
	}
	if len(cfg.Agents) != 2 || cfg.Agents[0].Name != "dev" || cfg.Agents[1].Role != "verification" {
		t.Fatalf("unexpected agents: %+v", cfg.Agents)
	}
	if len(cfg.InfrastructurePath) != 2 {
		t.Fatalf("expected 2 infrastructure patterns, got %d", len(cfg.InfrastructurePath))
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project-context.yaml")
	if err := os.WriteFile(path, []byte("agents: [this is not: valid: yaml"), 0o640); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}

func TestValidateRejectsDuplicateAgentNames(t *testing.T) {
	cfg := &Config{Agents: []AgentProfile{{Name: "dev"}, {Name: "dev"}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected duplicate agent name to be rejected")
	}
}

func TestProjectNameOrDirFallsBackToDirectory(t *testing.T) {
	cfg := Default()
	if got := cfg.ProjectNameOrDir("/tmp/my-project"); got != "my-project" {
		t.Errorf("expected 'my-project', got %q", got)
	}
	cfg.ProjectName = "explicit-name"
	if got := cfg.ProjectNameOrDir("/tmp/my-project"); got != "explicit-name" {
		t.Errorf("expected 'explicit-name', got %q", got)
	}
}

func TestLoadFromProjectRoot(t *testing.T) {
	root := t.TempDir()
	content := "project_name: rooted\n"
	if err := os.WriteFile(filepath.Join(root, "project-context.yaml"), []byte(content), 0o640); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromProjectRoot(root)
	if err != nil {
		t.Fatalf("LoadFromProjectRoot() failed: %v", err)
	}
	if cfg.ProjectName != "rooted" {
		t.Errorf("expected 'rooted', got %q", cfg.ProjectName)
	}
}
