// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-17

package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/similigh/labmigrate/internal/core/config"
)

// Replaced in tests.
var (
	isInteractive = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	promptInput   = askInput
	promptConfirm = askConfirm
)

// option is a value looked up, in order, in a flag, the config file, an
// environment variable and finally an interactive prompt.
type option struct {
	Name   string
	Flag   string
	Config string
	Env    string
	Secret bool
}

func (o option) resolve() (string, error) {
	if v := strings.TrimSpace(o.Flag); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(o.Config); v != "" {
		return v, nil
	}
	if o.Env != "" {
		if v := strings.TrimSpace(os.Getenv(o.Env)); v != "" {
			return v, nil
		}
	}

	if isInteractive() {
		v, err := promptInput(o.Name, o.Secret)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
	}

	if o.Env != "" {
		return "", fmt.Errorf("missing --%s (or %s)", o.Name, o.Env)
	}
	return "", fmt.Errorf("missing --%s", o.Name)
}

// itoa renders zero as unset.
func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// githubTarget is the destination repository and its credentials.
type githubTarget struct {
	Token string
	Owner string
	Repo  string
}

// resolveGitHubTarget resolves the token and repository shared by every
// command. The repository may be given as "owner/name" with no owner.
func resolveGitHubTarget(cfg *config.Config, token, owner, repo string) (*githubTarget, error) {
	var err error
	t := &githubTarget{}

	t.Token, err = option{Name: "github-token", Flag: token, Config: cfg.GitHub.Token, Env: "GITHUB_TOKEN", Secret: true}.resolve()
	if err != nil {
		return nil, err
	}

	if owner == "" && strings.Contains(repo, "/") {
		if owner, repo, err = parseRepo(repo); err != nil {
			return nil, err
		}
	}

	t.Owner, err = option{Name: "github-owner", Flag: owner, Config: cfg.GitHub.Owner}.resolve()
	if err != nil {
		return nil, err
	}
	t.Repo, err = option{Name: "github-repo", Flag: repo, Config: cfg.GitHub.Repository}.resolve()
	if err != nil {
		return nil, err
	}
	return t, nil
}

func askInput(name string, secret bool) (string, error) {
	var value string
	input := huh.NewInput().
		Title(name + "?").
		Value(&value)
	if secret {
		input = input.EchoMode(huh.EchoModePassword)
	}

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", fmt.Errorf("prompt for --%s cancelled", name)
		}
		return "", fmt.Errorf("failed to prompt for --%s: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func askConfirm(title string) (bool, error) {
	confirmed := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}
