// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-18

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/similigh/labmigrate/internal/core/config"
	"github.com/similigh/labmigrate/internal/core/issue"
	"github.com/similigh/labmigrate/internal/importer"
	"github.com/similigh/labmigrate/internal/integrations/github"
	"github.com/similigh/labmigrate/internal/integrations/gitlab"
	"github.com/similigh/labmigrate/internal/render"
	"github.com/similigh/labmigrate/internal/tui"
)

var (
	importGitLabToken   string
	importGitLabURL     string
	importGitLabProject int
	importGitHubToken   string
	importGitHubOwner   string
	importGitHubRepo    string
	importDelayMs       int
	importLimit         int
	importDryRun        bool
	importPlain         bool
	importReport        string
	importReportFormat  string
)

// runProgress drives the progress view until it quits. Tests replace it.
var runProgress = func(m tui.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import GitLab issues into a GitHub repository",
	Long: `Import every issue of a GitLab project, open and closed, into a GitHub
repository. Closed issues are closed again after creation.

An issue is skipped when an issue with exactly the same title already exists
in the GitHub repository, so the command can be re-run after an interruption.
The destination is read once before the first issue is imported.

Options are taken from flags, then the config file, then GITLAB_TOKEN and
GITHUB_TOKEN, and are prompted for when running in a terminal.

Example:
  labmigrate import --gitlab-project 123 --github-repo acme/widgets --limit 50`,
	Run: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importGitLabToken, "gitlab-token", "", "GitLab personal access token")
	importCmd.Flags().StringVar(&importGitLabURL, "gitlab-url", "", "GitLab instance URL (default https://gitlab.com)")
	importCmd.Flags().IntVar(&importGitLabProject, "gitlab-project", 0, "GitLab project ID")
	importCmd.Flags().StringVar(&importGitHubToken, "github-token", "", "GitHub token")
	importCmd.Flags().StringVar(&importGitHubOwner, "github-owner", "", "GitHub repository owner")
	importCmd.Flags().StringVar(&importGitHubRepo, "github-repo", "", "GitHub repository name (or owner/name)")
	importCmd.Flags().IntVar(&importDelayMs, "delay-ms", config.DefaultImportDelayMs, "Milliseconds to wait after each imported issue to avoid rate limits")
	importCmd.Flags().IntVar(&importLimit, "limit", 0, "Maximum number of issues to import; already imported issues do not count")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Report what would be imported without writing to GitHub")
	importCmd.Flags().BoolVar(&importPlain, "plain", false, "Print one line per issue instead of the progress view")
	importCmd.Flags().StringVar(&importReport, "report", "", "Write a run report to this file")
	importCmd.Flags().StringVar(&importReportFormat, "report-format", "", "Report format: json or csv (default: from the file extension)")
}

// importSettings is the fully resolved configuration of one import.
type importSettings struct {
	GitLabToken string
	GitLabURL   string
	ProjectID   int
	GitHub      *githubTarget
	Delay       time.Duration
	Limit       int
	DryRun      bool
	Plain       bool
}

func (s *importSettings) options() importer.Options {
	return importer.Options{
		Delay:  s.Delay,
		Limit:  s.Limit,
		DryRun: s.DryRun,
	}
}

// sourceTracker is the GitLab side of an import.
type sourceTracker interface {
	importer.Source
	Authenticate(ctx context.Context) error
}

// destinationTracker is the GitHub side of an import.
type destinationTracker interface {
	importer.Destination
	Authenticate(ctx context.Context) error
	FullName() string
}

// importRun is everything an import produced.
type importRun struct {
	Summary    *importer.Summary
	Outcomes   []importer.Outcome
	Repository string
}

func runImport(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := loadConfig(importGitHubToken)

	settings, err := resolveImportSettings(cfg, cmd.Flags().Changed("delay-ms"))
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	settings.Plain = importPlain || !progressViewAvailable()

	src := gitlab.NewClient(settings.GitLabToken, settings.GitLabURL)
	dst := github.NewClient(ctx, settings.GitHub.Token).Repo(settings.GitHub.Owner, settings.GitHub.Repo)

	if verbose {
		fmt.Printf("Source: %s project #%d\n", src.BaseURL, settings.ProjectID)
		fmt.Printf("Destination: %s\n", dst.FullName())
		if settings.DryRun {
			fmt.Println("✓ Dry-run mode enabled (no GitHub writes will be performed)")
		}
	}

	run, err := importIssues(ctx, os.Stdout, settings, src, dst)
	if run != nil && run.Summary != nil {
		printResults(os.Stdout, run.Summary)

		if importReport != "" {
			if rerr := writeReport(importReport, importReportFormat, run); rerr != nil {
				fmt.Printf("❌ Error writing report: %v\n", rerr)
				os.Exit(1)
			}
			fmt.Printf("✓ Report written to %s\n", importReport)
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("⚠️  Import interrupted")
		} else {
			fmt.Printf("❌ %v\n", err)
		}
	}
	if code := importExitCode(err); code != 0 {
		os.Exit(code)
	}
}

// importExitCode maps the error of an import onto the process exit code.
// Per-issue failures are reported in the results and do not fail the run.
func importExitCode(err error) int {
	if issue.IsFatal(err) {
		return 1
	}
	return 0
}

// resolveImportSettings merges the import flags with cfg. delayChanged
// reports whether --delay-ms was given explicitly.
func resolveImportSettings(cfg *config.Config, delayChanged bool) (*importSettings, error) {
	var err error
	s := &importSettings{DryRun: importDryRun}

	s.GitLabToken, err = option{Name: "gitlab-token", Flag: importGitLabToken, Config: cfg.GitLab.Token, Env: "GITLAB_TOKEN", Secret: true}.resolve()
	if err != nil {
		return nil, err
	}

	project, err := option{Name: "gitlab-project", Flag: itoa(importGitLabProject), Config: itoa(cfg.GitLab.ProjectID)}.resolve()
	if err != nil {
		return nil, err
	}
	s.ProjectID, err = strconv.Atoi(project)
	if err != nil || s.ProjectID <= 0 {
		return nil, fmt.Errorf("invalid GitLab project ID %q", project)
	}

	s.GitLabURL = importGitLabURL
	if s.GitLabURL == "" {
		s.GitLabURL = cfg.GitLab.URL
	}
	if s.GitLabURL == "" {
		s.GitLabURL = gitlab.DefaultBaseURL
	}

	s.GitHub, err = resolveGitHubTarget(cfg, importGitHubToken, importGitHubOwner, importGitHubRepo)
	if err != nil {
		return nil, err
	}

	delayMs := importDelayMs
	if !delayChanged {
		delayMs = cfg.Import.Delay()
	}
	if delayMs < 0 {
		return nil, fmt.Errorf("--delay-ms must not be negative, got %d", delayMs)
	}
	s.Delay = time.Duration(delayMs) * time.Millisecond

	s.Limit = importLimit
	if s.Limit == 0 {
		s.Limit = cfg.Import.Limit
	}
	if s.Limit < 0 {
		return nil, fmt.Errorf("--limit must not be negative, got %d", s.Limit)
	}

	return s, nil
}

// progressViewAvailable reports whether the interactive progress view can
// take over the terminal.
func progressViewAvailable() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// importIssues authenticates both trackers and runs the import, printing
// progress to w. A non-nil run is returned whenever the importing stage was
// reached, even when err is a context error.
func importIssues(ctx context.Context, w io.Writer, s *importSettings, src sourceTracker, dst destinationTracker) (*importRun, error) {
	fmt.Fprintf(w, "Retrieving issues from GitLab project #%d\n", s.ProjectID)

	if err := src.Authenticate(ctx); err != nil {
		return nil, err
	}
	if err := dst.Authenticate(ctx); err != nil {
		return nil, err
	}

	run := &importRun{Repository: dst.FullName()}
	opts := s.options()
	record := func(o importer.Outcome) {
		run.Outcomes = append(run.Outcomes, o)
	}

	var (
		summary *importer.Summary
		err     error
	)
	if s.Plain {
		summary, err = importPlainly(ctx, w, s, opts, record, src, dst)
	} else {
		summary, err = importWithProgress(ctx, w, s, opts, record, src, dst)
	}
	if summary == nil {
		return nil, err
	}
	run.Summary = summary
	return run, err
}

func importPlainly(ctx context.Context, w io.Writer, s *importSettings, opts importer.Options, record func(importer.Outcome), src sourceTracker, dst destinationTracker) (*importer.Summary, error) {
	total := 0
	opts.OnStage = func(e importer.StageEvent) {
		if e.Stage == importer.StageImporting {
			total = e.Total
			printHeadline(w, s, e, dst.FullName())
		}
	}
	opts.OnOutcome = func(o importer.Outcome) {
		record(o)
		fmt.Fprintf(w, "[%d/%d] %s\n", o.Index+1, total, render.OutcomeLine(o))
	}

	return importer.New(src, dst, opts).Execute(ctx, s.ProjectID)
}

// importWithProgress runs the importer in its own goroutine and feeds each
// outcome to the progress view. Quitting the view cancels the run after the
// issue in flight.
func importWithProgress(ctx context.Context, w io.Writer, s *importSettings, opts importer.Options, record func(importer.Outcome), src sourceTracker, dst destinationTracker) (*importer.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		summary *importer.Summary
		err     error
	}

	started := make(chan int, 1)
	events := make(chan tui.OutcomeMsg)
	done := make(chan result, 1)

	opts.OnStage = func(e importer.StageEvent) {
		if e.Stage == importer.StageImporting {
			printHeadline(w, s, e, dst.FullName())
			started <- e.Total
		}
	}
	opts.OnOutcome = func(o importer.Outcome) {
		record(o)
		select {
		case events <- tui.OutcomeMsg{Outcome: o, Line: render.OutcomeLine(o)}:
		case <-ctx.Done():
		}
	}

	go func() {
		summary, err := importer.New(src, dst, opts).Execute(ctx, s.ProjectID)
		close(events)
		done <- result{summary, err}
	}()

	var total int
	select {
	case total = <-started:
	case r := <-done:
		return r.summary, r.err
	}

	if total > 0 {
		model := tui.NewModel("Importing into "+dst.FullName(), total, events)
		final, err := runProgress(model)
		if err != nil {
			cancel()
			<-done
			return nil, fmt.Errorf("failed to run progress view: %w", err)
		}
		if m, ok := final.(tui.Model); ok && m.Aborted() {
			cancel()
		}
	}

	r := <-done
	return r.summary, r.err
}

func printHeadline(w io.Writer, s *importSettings, e importer.StageEvent, repo string) {
	if verbose {
		fmt.Fprintf(w, "%d issues already in %s\n", e.Indexed, repo)
	}

	if e.Total == 0 {
		fmt.Fprintf(w, "No issues found on GitLab project #%d\n", s.ProjectID)
		return
	}

	line := fmt.Sprintf("%d issues found, importing", e.Total)
	if s.Limit > 0 {
		line += fmt.Sprintf(" (%d max)", s.Limit)
	}
	if s.DryRun {
		line += " [dry run]"
	}
	fmt.Fprintln(w, line)
}

// printResults prints the limit notice and the result tables. Nothing is
// printed for an empty project.
func printResults(w io.Writer, summary *importer.Summary) {
	if summary.Total == 0 {
		return
	}

	fmt.Fprintln(w)
	if summary.LimitReached {
		fmt.Fprintf(w, "Limit of %d imported issues reached\n", summary.Limit)
	}

	fmt.Fprint(w, render.SummaryTable(summary))

	if len(summary.Failed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, render.FailedTable(summary.Failed))
	}
	if len(summary.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, render.SkippedTable(summary.Skipped))
	}
}
