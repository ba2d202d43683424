// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-18

// Package config handles loading and merging labmigrate configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultImportDelayMs is the pause after each imported issue.
const DefaultImportDelayMs = 3000

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// GitLab configures the source project.
	GitLab GitLabConfig `yaml:"gitlab"`

	// GitHub configures the destination repository.
	GitHub GitHubConfig `yaml:"github"`

	// Import holds defaults for the import command.
	Import ImportConfig `yaml:"import"`
}

// GitLabConfig holds source tracker settings.
type GitLabConfig struct {
	URL       string `yaml:"url,omitempty"`
	Token     string `yaml:"token,omitempty"`
	ProjectID int    `yaml:"project_id,omitempty"`
}

// GitHubConfig holds destination tracker settings.
type GitHubConfig struct {
	Token      string `yaml:"token,omitempty"`
	Owner      string `yaml:"owner,omitempty"`
	Repository string `yaml:"repository,omitempty"`
}

// ImportConfig holds import pacing and limit defaults. DelayMs is nil when
// the file does not set it; an explicit 0 disables pacing.
type ImportConfig struct {
	DelayMs *int `yaml:"delay_ms,omitempty"`
	Limit   int  `yaml:"limit,omitempty"`
}

// Delay returns the configured pause in milliseconds, or the default when
// none is set.
func (c ImportConfig) Delay() int {
	if c.DelayMs == nil {
		return DefaultImportDelayMs
	}
	return *c.DelayMs
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	cfg, err := loadRaw(path)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	cfg.applyDefaults()

	return cfg, nil
}

func loadRaw(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parseRaw(data)
}

// parseRaw expands environment variables and decodes YAML without applying
// defaults.
func parseRaw(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	cfg, err := loadRaw(path)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		cfg.applyDefaults()
		return cfg, nil
	}

	// Fetch and parse the parent config
	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	parentCfg, err := parseRaw(parentData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	// Merge: child overrides parent
	merged := mergeConfigs(parentCfg, cfg)
	merged.applyDefaults()

	return merged, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	// Search in common locations
	candidates := []string{
		".labmigrate.yaml",
		".labmigrate.yml",
		".github/labmigrate.yaml",
		".github/labmigrate.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// Default returns an empty config with defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Import.DelayMs == nil {
		delay := DefaultImportDelayMs
		c.Import.DelayMs = &delay
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent; a set delay_ms overrides even
// when it is 0.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent
	result.Extends = ""

	if child.GitLab.URL != "" {
		result.GitLab.URL = child.GitLab.URL
	}
	if child.GitLab.Token != "" {
		result.GitLab.Token = child.GitLab.Token
	}
	if child.GitLab.ProjectID != 0 {
		result.GitLab.ProjectID = child.GitLab.ProjectID
	}

	if child.GitHub.Token != "" {
		result.GitHub.Token = child.GitHub.Token
	}
	if child.GitHub.Owner != "" {
		result.GitHub.Owner = child.GitHub.Owner
	}
	if child.GitHub.Repository != "" {
		result.GitHub.Repository = child.GitHub.Repository
	}

	if child.Import.DelayMs != nil {
		delay := *child.Import.DelayMs
		result.Import.DelayMs = &delay
	}
	if child.Import.Limit != 0 {
		result.Import.Limit = child.Import.Limit
	}

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 || orgRepo[0] == "" || orgRepo[1] == "" {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	// Check for path
	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".github/labmigrate.yaml" // default path
	}

	return org, repo, branch, path, nil
}
