// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-18

// Package importer copies source issues into a destination repository,
// skipping issues whose title already exists there.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/similigh/labmigrate/internal/core/issue"
)

// Importer runs one import. Issues are processed strictly one at a time.
type Importer struct {
	src  Source
	dst  Destination
	opts Options

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New creates an importer. src may be nil when only Run is used.
func New(src Source, dst Destination, opts Options) *Importer {
	return &Importer{
		src:   src,
		dst:   dst,
		opts:  opts,
		sleep: sleepContext,
		now:   time.Now,
	}
}

// Execute fetches the source issues and the destination title index once,
// then imports. Fetch errors abort the run before any issue is processed.
func (im *Importer) Execute(ctx context.Context, projectID int) (*Summary, error) {
	im.stage(StageEvent{Stage: StageFetching})

	issues, err := im.src.FetchAllIssues(ctx, projectID)
	if err != nil {
		return nil, err
	}

	index, err := im.dst.FetchTitleIndex(ctx)
	if err != nil {
		return nil, err
	}

	return im.Run(ctx, issues, index)
}

// Run imports issues in order against a snapshot of the destination title
// index. The index is never refreshed, so an issue created earlier in the
// same run does not make a later issue with the same title count as
// already imported.
//
// Per-issue create/update failures are recorded in the summary and never
// returned. The only error Run returns is a context error, together with
// the partial summary. Cancellation is observed between issues and while
// pacing; an issue already being written is finished first, so a closed
// source issue is never left open on the destination.
func (im *Importer) Run(ctx context.Context, issues []issue.Record, index *issue.TitleIndex) (*Summary, error) {
	im.stage(StageEvent{Stage: StageImporting, Total: len(issues), Indexed: index.Len()})

	summary := &Summary{
		RunID:     uuid.NewString(),
		Total:     len(issues),
		DryRun:    im.opts.DryRun,
		Limit:     im.opts.Limit,
		StartedAt: im.now(),
	}

	var runErr error
	for i, rec := range issues {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		out := im.process(ctx, i, rec, index)
		summary.record(out)
		if im.opts.OnOutcome != nil {
			im.opts.OnOutcome(out)
		}

		if out.Status.Counts() && im.opts.Limit > 0 && summary.Imported >= im.opts.Limit {
			summary.LimitReached = true
			break
		}

		// Pace only between successful imports; there is nothing to pace
		// after the last issue.
		if out.Status == StatusImported && im.opts.Delay > 0 && i < len(issues)-1 {
			if err := im.sleep(ctx, im.opts.Delay); err != nil {
				runErr = err
				break
			}
		}
	}

	if runErr == nil {
		runErr = ctx.Err()
	}

	summary.FinishedAt = im.now()
	im.stage(StageEvent{Stage: StageFinished, Total: len(issues), Indexed: index.Len()})
	return summary, runErr
}

func (im *Importer) process(ctx context.Context, i int, rec issue.Record, index *issue.TitleIndex) Outcome {
	out := Outcome{Index: i, Issue: rec}

	if index.Contains(rec.Title) {
		out.Status = StatusSkipped
		return out
	}

	if im.opts.DryRun {
		out.Status = StatusWouldImport
		return out
	}

	// Create and close form one unit of work.
	opCtx := context.WithoutCancel(ctx)

	number, err := im.dst.CreateIssue(opCtx, rec.Title, rec.Description)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		return out
	}
	out.Number = number

	if rec.State == issue.Closed {
		if err := im.dst.SetState(opCtx, number, issue.Closed); err != nil {
			out.Status = StatusFailed
			out.Err = fmt.Errorf("created as #%d but not closed: %w", number, err)
			return out
		}
	}

	out.Status = StatusImported
	return out
}

func (s *Summary) record(out Outcome) {
	s.Processed++
	switch out.Status {
	case StatusImported, StatusWouldImport:
		s.Imported++
	case StatusSkipped:
		s.Skipped = append(s.Skipped, out.Issue)
	case StatusFailed:
		reason := "unknown error"
		if out.Err != nil {
			reason = out.Err.Error()
		}
		s.Failed = append(s.Failed, Failure{Issue: out.Issue, Reason: reason})
	}
}

func (im *Importer) stage(e StageEvent) {
	if im.opts.OnStage != nil {
		im.opts.OnStage(e)
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
