// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-16

package importer

import (
	"context"
	"time"

	"github.com/similigh/labmigrate/internal/core/issue"
)

// Source lists every issue of a source project.
type Source interface {
	FetchAllIssues(ctx context.Context, projectID int) ([]issue.Record, error)
}

// Destination is a repository issues are imported into.
type Destination interface {
	FetchTitleIndex(ctx context.Context) (*issue.TitleIndex, error)
	CreateIssue(ctx context.Context, title, body string) (int, error)
	SetState(ctx context.Context, number int, state issue.State) error
}

// Stage is the orchestrator's position in a run.
type Stage string

const (
	StageFetching  Stage = "fetching"
	StageImporting Stage = "importing"
	StageFinished  Stage = "finished"
)

// StageEvent reports a stage transition. Total and Indexed are known from
// StageImporting on.
type StageEvent struct {
	Stage   Stage
	Total   int
	Indexed int
}

// Status classifies what happened to one source issue.
type Status string

const (
	StatusImported    Status = "imported"
	StatusWouldImport Status = "would_import"
	StatusSkipped     Status = "skipped"
	StatusFailed      Status = "failed"
)

// Counts reports whether the status counts toward the import limit.
func (s Status) Counts() bool {
	return s == StatusImported || s == StatusWouldImport
}

// Outcome is the result of processing one source issue.
type Outcome struct {
	Index  int
	Issue  issue.Record
	Status Status
	// Number is the destination issue number, set when the create call
	// succeeded (even if closing it afterwards failed).
	Number int
	Err    error
}

// Failure is a source issue whose create or state change failed.
type Failure struct {
	Issue  issue.Record `json:"issue"`
	Reason string       `json:"reason"`
}

// Summary accumulates the outcome of a run.
type Summary struct {
	RunID string `json:"run_id"`
	// Total is the full number of source issues, including any left
	// unprocessed because the limit was reached.
	Total        int            `json:"total_issues"`
	Processed    int            `json:"processed"`
	Imported     int            `json:"imported"`
	Skipped      []issue.Record `json:"already_imported"`
	Failed       []Failure      `json:"failed"`
	DryRun       bool           `json:"dry_run"`
	Limit        int            `json:"limit,omitempty"`
	LimitReached bool           `json:"limit_reached"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
}

// AlreadyImported returns the number of issues skipped because their title
// already exists at the destination.
func (s *Summary) AlreadyImported() int { return len(s.Skipped) }

// FailedCount returns the number of issues whose import failed.
func (s *Summary) FailedCount() int { return len(s.Failed) }

// NotImported returns Total minus Imported.
func (s *Summary) NotImported() int { return s.Total - s.Imported }

// Options tune a run.
type Options struct {
	// Delay is waited after each successful import.
	Delay time.Duration
	// Limit stops the run after this many imports. Zero means no limit.
	Limit int
	// DryRun counts would-be imports without calling the destination.
	DryRun bool

	OnStage   func(StageEvent)
	OnOutcome func(Outcome)
}
