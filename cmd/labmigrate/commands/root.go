// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-18

// Package commands implements the labmigrate CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/similigh/labmigrate/internal/core/config"
	"github.com/similigh/labmigrate/internal/integrations/github"
)

var (
	cfgFile string
	verbose bool
)

// diagnostics receives warnings and verbose notes, keeping stdout for
// results that may be piped.
var diagnostics io.Writer = os.Stderr

var rootCmd = &cobra.Command{
	Use:   "labmigrate",
	Short: "Migrate issues from GitLab to GitHub",
	Long: `labmigrate copies the issues of a GitLab project into a GitHub repository.

Issues whose title already exists in the destination repository are skipped,
so an interrupted import can be run again safely. The duplicates command
finds issues sharing a title in the destination repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: .labmigrate.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// loadConfig resolves the config file and its extends chain. A missing file
// yields the defaults; an unreadable one is reported and replaced by them.
// token is used to fetch a parent config from GitHub.
func loadConfig(token string) *config.Config {
	cfgPath := config.FindConfigPath(cfgFile)
	if cfgPath == "" {
		if cfgFile != "" {
			fmt.Fprintf(diagnostics, "Warning: config file %s not found. Using defaults.\n", cfgFile)
		} else if verbose {
			fmt.Fprintln(diagnostics, "No configuration file found. Using defaults and environment variables.")
		}
		return config.Default()
	}

	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	fetcher := func(ref string) ([]byte, error) {
		org, repo, branch, path, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, fmt.Errorf("a GitHub token is required to fetch remote config %s", ref)
		}
		ghClient := github.NewClient(context.Background(), token)
		return ghClient.GetFileContent(context.Background(), org, repo, path, branch)
	}

	cfg, err := config.LoadWithInheritance(cfgPath, fetcher)
	if err != nil {
		fmt.Fprintf(diagnostics, "Warning: Failed to load config from %s: %v. Using defaults.\n", cfgPath, err)
		return config.Default()
	}
	if verbose {
		fmt.Fprintf(diagnostics, "Loaded config from %s\n", cfgPath)
	}
	return cfg
}

// parseRepo splits an "owner/name" reference.
func parseRepo(ref string) (owner, name string, err error) {
	parts := strings.Split(strings.TrimSpace(ref), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q (expected owner/name)", ref)
	}
	return parts[0], parts[1], nil
}
