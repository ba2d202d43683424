// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-18

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestConfigDefaults verifies that default values are applied correctly.
func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Import.Delay() != 3000 {
		t.Errorf("Expected Import.Delay() to be 3000, got %d", cfg.Import.Delay())
	}
	if cfg.Import.Limit != 0 {
		t.Errorf("Expected no default limit, got %d", cfg.Import.Limit)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_GITLAB_TOKEN", "glpat-secret")

	yamlContent := `
gitlab:
  url: https://git.example.com
  token: ${TEST_GITLAB_TOKEN}
  project_id: 42
github:
  owner: acme
  repository: widgets
import:
  delay_ms: 500
  limit: 10
`
	path := filepath.Join(t.TempDir(), "labmigrate.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GitLab.Token != "glpat-secret" {
		t.Errorf("Expected expanded token, got %q", cfg.GitLab.Token)
	}
	if cfg.GitLab.ProjectID != 42 {
		t.Errorf("Expected project 42, got %d", cfg.GitLab.ProjectID)
	}
	if cfg.GitHub.Owner != "acme" || cfg.GitHub.Repository != "widgets" {
		t.Errorf("Unexpected GitHub config: %+v", cfg.GitHub)
	}
	if cfg.Import.Delay() != 500 || cfg.Import.Limit != 10 {
		t.Errorf("Unexpected import config: %+v", cfg.Import)
	}
}

func TestLoadZeroDelay(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"explicit zero", "import:\n  delay_ms: 0\n", 0},
		{"unset", "import:\n  limit: 2\n", DefaultImportDelayMs},
		{"empty file", "{}\n", DefaultImportDelayMs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "labmigrate.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if got := cfg.Import.Delay(); got != tt.want {
				t.Errorf("Delay() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestImportConfigDelayUnset(t *testing.T) {
	if got := (ImportConfig{}).Delay(); got != DefaultImportDelayMs {
		t.Errorf("Delay() = %d, want %d", got, DefaultImportDelayMs)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("gitlab: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadWithInheritance(t *testing.T) {
	child := `
extends: acme/settings@main
github:
  repository: widgets
import:
  limit: 5
`
	parent := `
gitlab:
  url: https://git.example.com
  project_id: 7
github:
  owner: acme
  repository: parent-repo
import:
  delay_ms: 1500
`
	path := filepath.Join(t.TempDir(), "labmigrate.yaml")
	if err := os.WriteFile(path, []byte(child), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	var requested string
	cfg, err := LoadWithInheritance(path, func(ref string) ([]byte, error) {
		requested = ref
		return []byte(parent), nil
	})
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if requested != "acme/settings@main" {
		t.Errorf("Expected fetch of acme/settings@main, got %q", requested)
	}
	if cfg.GitHub.Repository != "widgets" {
		t.Errorf("Expected child repository to win, got %q", cfg.GitHub.Repository)
	}
	if cfg.GitHub.Owner != "acme" || cfg.GitLab.ProjectID != 7 {
		t.Errorf("Expected parent values to be inherited, got %+v", cfg)
	}
	if cfg.Import.Delay() != 1500 {
		t.Errorf("Expected parent delay 1500, got %d", cfg.Import.Delay())
	}
	if cfg.Import.Limit != 5 {
		t.Errorf("Expected child limit 5, got %d", cfg.Import.Limit)
	}
}

func TestLoadWithInheritanceDelayOverride(t *testing.T) {
	parent := "import:\n  delay_ms: 1500\n"

	tests := []struct {
		name  string
		child string
		want  int
	}{
		{"child zero disables pacing", "extends: acme/settings@main\nimport:\n  delay_ms: 0\n", 0},
		{"child default value still overrides", "extends: acme/settings@main\nimport:\n  delay_ms: 3000\n", 3000},
		{"child unset inherits", "extends: acme/settings@main\n", 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "labmigrate.yaml")
			if err := os.WriteFile(path, []byte(tt.child), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}

			cfg, err := LoadWithInheritance(path, func(string) ([]byte, error) {
				return []byte(parent), nil
			})
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if got := cfg.Import.Delay(); got != tt.want {
				t.Errorf("Delay() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadWithInheritanceFetchError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labmigrate.yaml")
	if err := os.WriteFile(path, []byte("extends: acme/settings@main\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, err := LoadWithInheritance(path, func(string) ([]byte, error) {
		return nil, errors.New("offline")
	})
	if err == nil {
		t.Error("Expected error when the parent cannot be fetched")
	}
}

func TestFindConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if got := FindConfigPath(""); got != "" {
		t.Errorf("Expected no config, got %q", got)
	}
	if got := FindConfigPath("missing.yaml"); got != "" {
		t.Errorf("Expected empty path for missing explicit file, got %q", got)
	}

	if err := os.WriteFile(".labmigrate.yml", []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if got := FindConfigPath(""); filepath.Base(got) != ".labmigrate.yml" {
		t.Errorf("Expected .labmigrate.yml, got %q", got)
	}
}

func TestParseExtendsRef(t *testing.T) {
	tests := []struct {
		ref      string
		wantPath string
		wantErr  bool
	}{
		{"acme/settings@main", ".github/labmigrate.yaml", false},
		{"acme/settings@main:configs/migrate.yaml", "configs/migrate.yaml", false},
		{"acme/settings", "", true},
		{"acme@main", "", true},
		{"/settings@main", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			org, repo, branch, path, err := ParseExtendsRef(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if org != "acme" || repo != "settings" || branch != "main" {
				t.Errorf("Unexpected components: %s %s %s", org, repo, branch)
			}
			if path != tt.wantPath {
				t.Errorf("Expected path %q, got %q", tt.wantPath, path)
			}
		})
	}
}
