// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-18

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/similigh/labmigrate/internal/core/issue"
	"github.com/similigh/labmigrate/internal/duplicates"
	"github.com/similigh/labmigrate/internal/integrations/github"
	"github.com/similigh/labmigrate/internal/render"
)

var (
	dupGitHubToken string
	dupGitHubOwner string
	dupGitHubRepo  string
	dupCommands    bool
	dupApply       bool
	dupYes         bool
)

// duplicatesCmd represents the duplicates command
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Find issues sharing a title in a GitHub repository",
	Long: `Find issues whose titles are exactly equal in a GitHub repository, for
example after an import ran twice against a stale destination.

For every repeated title the issue with the highest number is kept. With
--commands the gh CLI commands deleting the others are printed instead of the
table; --apply deletes them directly after confirmation.

Examples:
  labmigrate duplicates --github-repo acme/widgets
  labmigrate duplicates --github-repo acme/widgets --commands > cleanup.sh
  labmigrate duplicates --github-repo acme/widgets --apply --yes`,
	Run: runDuplicates,
}

func init() {
	rootCmd.AddCommand(duplicatesCmd)

	duplicatesCmd.Flags().StringVar(&dupGitHubToken, "github-token", "", "GitHub token")
	duplicatesCmd.Flags().StringVar(&dupGitHubOwner, "github-owner", "", "GitHub repository owner")
	duplicatesCmd.Flags().StringVar(&dupGitHubRepo, "github-repo", "", "GitHub repository name (or owner/name)")
	duplicatesCmd.Flags().BoolVar(&dupCommands, "commands", false, "Print the gh commands deleting the repeated issues, keeping the newest")
	duplicatesCmd.Flags().BoolVar(&dupApply, "apply", false, "Delete the repeated issues, keeping the newest")
	duplicatesCmd.Flags().BoolVar(&dupYes, "yes", false, "Do not ask for confirmation before deleting")
}

// duplicateRepository is a repository that can be searched for and cleaned
// of duplicates.
type duplicateRepository interface {
	Authenticate(ctx context.Context) error
	FetchTitleIndex(ctx context.Context) (*issue.TitleIndex, error)
	DeleteIssue(ctx context.Context, number int) error
	DeleteCommand(number int) string
	FullName() string
}

func runDuplicates(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg := loadConfig(dupGitHubToken)

	target, err := resolveGitHubTarget(cfg, dupGitHubToken, dupGitHubOwner, dupGitHubRepo)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	repo := github.NewClient(ctx, target.Token).Repo(target.Owner, target.Repo)

	if err := findDuplicates(ctx, os.Stdout, repo, dupCommands, dupApply, dupYes); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// findDuplicates reports the duplicate groups of repo as a table, or as
// delete commands when commands is set, and optionally deletes the redundant
// issues.
func findDuplicates(ctx context.Context, w io.Writer, repo duplicateRepository, commands, apply, yes bool) error {
	// Directive output stays clean so it can be piped into a shell.
	if !commands {
		fmt.Fprintf(w, "Retrieving GitHub issues for repository %s\n", repo.FullName())
	}

	if err := repo.Authenticate(ctx); err != nil {
		return err
	}

	index, err := repo.FetchTitleIndex(ctx)
	if err != nil {
		return err
	}
	if verbose {
		info := w
		if commands {
			info = diagnostics
		}
		fmt.Fprintf(info, "%d issues retrieved\n", index.Len())
	}

	groups := duplicates.Find(index)
	if len(groups) == 0 {
		if !commands {
			fmt.Fprintln(w, "No repeated issues")
		}
		return nil
	}

	if commands {
		for _, line := range duplicates.Directives(groups, repo.DeleteCommand) {
			fmt.Fprintln(w, line)
		}
	} else {
		fmt.Fprint(w, render.DuplicatesTable(repo.FullName(), groups))
	}

	if !apply {
		return nil
	}
	return deleteRedundant(ctx, w, repo, index, groups, yes)
}

// deleteRedundant deletes every redundant issue of groups, survivors aside.
func deleteRedundant(ctx context.Context, w io.Writer, repo duplicateRepository, index *issue.TitleIndex, groups []duplicates.Group, yes bool) error {
	ids := duplicates.RedundantIDs(groups)

	if !yes {
		if !isInteractive() {
			return fmt.Errorf("refusing to delete %d issues without --yes in a non-interactive session", len(ids))
		}
		ok, err := promptConfirm(fmt.Sprintf("Delete %d duplicate issues from %s?", len(ids), repo.FullName()))
		if err != nil {
			return fmt.Errorf("failed to confirm deletion: %w", err)
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled, no issues deleted")
			return nil
		}
	}

	deleted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := repo.DeleteIssue(ctx, id); err != nil {
			fmt.Fprintf(w, "🚫 Issue #%d: %v\n", id, err)
			continue
		}
		deleted++
		title, _ := index.Title(id)
		fmt.Fprintf(w, "🗑️  Deleted issue #%d %q\n", id, title)
	}

	fmt.Fprintf(w, "\n✓ Deleted %d of %d duplicate issues\n", deleted, len(ids))
	if deleted < len(ids) {
		return fmt.Errorf("%d deletions failed", len(ids)-deleted)
	}
	return nil
}
