// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-18
// Last Modified: 2026-10-18

package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/similigh/labmigrate/internal/core/issue"
	"github.com/similigh/labmigrate/internal/tui"
)

// stubProgress replaces the progress view runner for one test and records
// the models it was started with.
func stubProgress(t *testing.T, run func(m tui.Model) (tea.Model, error)) *[]tui.Model {
	t.Helper()
	var started []tui.Model
	orig := runProgress
	t.Cleanup(func() { runProgress = orig })
	runProgress = func(m tui.Model) (tea.Model, error) {
		started = append(started, m)
		return run(m)
	}
	return &started
}

// headlessProgram runs the real progress view without a terminal.
func headlessProgram(m tui.Model) (tea.Model, error) {
	var out bytes.Buffer
	return tea.NewProgram(m,
		tea.WithInput(nil),
		tea.WithOutput(&out),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	).Run()
}

func progressIssues(t *testing.T) *fakeSource {
	t.Helper()
	return &fakeSource{issues: []issue.Record{
		mustRecord(t, 1, "Crash on start", "opened"),
		mustRecord(t, 2, "Typo", "closed"),
		mustRecord(t, 3, "Docs", "closed"),
	}}
}

func TestImportWithProgressFullRun(t *testing.T) {
	var final tui.Model
	started := stubProgress(t, func(m tui.Model) (tea.Model, error) {
		got, err := headlessProgram(m)
		if fm, ok := got.(tui.Model); ok {
			final = fm
		}
		return got, err
	})

	dst := &fakeDestination{existing: []issue.IndexEntry{{ID: 1, Title: "Typo"}}, next: 9}

	var out bytes.Buffer
	run, err := importIssues(context.Background(), &out, &importSettings{ProjectID: 7}, progressIssues(t), dst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*started) != 1 {
		t.Fatalf("progress view started %d times, want 1", len(*started))
	}
	if !strings.Contains(out.String(), "3 issues found, importing") {
		t.Errorf("headline missing:\n%s", out.String())
	}

	if run.Summary.Processed != 3 || run.Summary.Imported != 2 || run.Summary.AlreadyImported() != 1 {
		t.Errorf("summary = %+v", run.Summary)
	}
	if len(run.Outcomes) != 3 {
		t.Errorf("recorded %d outcomes, want 3", len(run.Outcomes))
	}
	if final.Aborted() || final.Percent() != 1 {
		t.Errorf("final view aborted=%v percent=%v", final.Aborted(), final.Percent())
	}
	if len(dst.closed) != 1 || dst.closed[0] != 11 {
		t.Errorf("closed = %v, want [11]", dst.closed)
	}
}

func TestImportWithProgressAbort(t *testing.T) {
	stubProgress(t, func(m tui.Model) (tea.Model, error) {
		final, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		return final, nil
	})

	dst := &fakeDestination{}

	var out bytes.Buffer
	run, err := importIssues(context.Background(), &out, &importSettings{ProjectID: 7}, progressIssues(t), dst)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if run == nil || run.Summary == nil {
		t.Fatal("an aborted run must still return its partial summary")
	}
	if run.Summary.Processed > 1 {
		t.Errorf("processed %d issues after quitting, want at most the one in flight", run.Summary.Processed)
	}
	if len(dst.created) != run.Summary.Imported {
		t.Errorf("created %v but summary counts %d imports", dst.created, run.Summary.Imported)
	}
	if importExitCode(err) != 1 {
		t.Error("an aborted run must exit non-zero")
	}
}

func TestImportWithProgressViewError(t *testing.T) {
	stubProgress(t, func(m tui.Model) (tea.Model, error) {
		return m, errors.New("no terminal")
	})

	var out bytes.Buffer
	run, err := importIssues(context.Background(), &out, &importSettings{ProjectID: 7}, progressIssues(t), &fakeDestination{})
	if err == nil || !strings.Contains(err.Error(), "failed to run progress view") {
		t.Fatalf("err = %v", err)
	}
	if run != nil {
		t.Errorf("expected no run, got %+v", run)
	}
}

func TestImportWithProgressEmptyProject(t *testing.T) {
	started := stubProgress(t, headlessProgram)

	var out bytes.Buffer
	run, err := importIssues(context.Background(), &out, &importSettings{ProjectID: 5}, &fakeSource{}, &fakeDestination{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*started) != 0 {
		t.Error("progress view started for an empty project")
	}
	if !strings.Contains(out.String(), "No issues found on GitLab project #5") {
		t.Errorf("output = %q", out.String())
	}
	if run.Summary.Total != 0 {
		t.Errorf("summary = %+v", run.Summary)
	}
}

func TestImportWithProgressSetupError(t *testing.T) {
	started := stubProgress(t, headlessProgram)

	_, err := importIssues(context.Background(), &bytes.Buffer{}, &importSettings{ProjectID: 5},
		&fakeSource{err: issue.ErrFetch}, &fakeDestination{})
	if !errors.Is(err, issue.ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if len(*started) != 0 {
		t.Error("progress view started although fetching failed")
	}
}
