// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-10
// Last Modified: 2026-10-17

package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// JSONReport is the JSON run report.
type JSONReport struct {
	RunID        string        `json:"run_id"`
	Repository   string        `json:"repository"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	DryRun       bool          `json:"dry_run"`
	TotalIssues  int           `json:"total_issues"`
	Processed    int           `json:"processed"`
	Imported     int           `json:"imported"`
	Skipped      int           `json:"already_imported"`
	Failed       int           `json:"failed"`
	LimitReached bool          `json:"limit_reached"`
	Results      []ReportEntry `json:"results"`
}

// ReportEntry is one processed source issue.
type ReportEntry struct {
	SourceID     int    `json:"source_id"`
	SourceURL    string `json:"source_url,omitempty"`
	Title        string `json:"title"`
	State        string `json:"state"`
	Status       string `json:"status"`
	GitHubNumber int    `json:"github_number,omitempty"`
	Error        string `json:"error,omitempty"`
}

// reportFormat picks the report format from the explicit value or the file
// extension.
func reportFormat(path, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		if strings.ToLower(filepath.Ext(path)) == ".csv" {
			format = "csv"
		} else {
			format = "json"
		}
	}

	switch format {
	case "json", "csv":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use json or csv)", format)
	}
}

// writeReport formats run and writes it to path.
func writeReport(path, format string, run *importRun) error {
	format, err := reportFormat(path, format)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "csv":
		data, err = formatCSV(run)
	default:
		data, err = formatJSON(run)
	}
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func entries(run *importRun) []ReportEntry {
	out := make([]ReportEntry, len(run.Outcomes))
	for i, o := range run.Outcomes {
		e := ReportEntry{
			SourceID:     o.Issue.SourceID,
			SourceURL:    o.Issue.SourceURL,
			Title:        o.Issue.Title,
			State:        o.Issue.State.String(),
			Status:       string(o.Status),
			GitHubNumber: o.Number,
		}
		if o.Err != nil {
			e.Error = o.Err.Error()
		}
		out[i] = e
	}
	return out
}

// formatJSON formats the run as JSON
func formatJSON(run *importRun) ([]byte, error) {
	s := run.Summary
	output := JSONReport{
		RunID:        s.RunID,
		Repository:   run.Repository,
		StartedAt:    s.StartedAt,
		FinishedAt:   s.FinishedAt,
		DryRun:       s.DryRun,
		TotalIssues:  s.Total,
		Processed:    s.Processed,
		Imported:     s.Imported,
		Skipped:      s.AlreadyImported(),
		Failed:       s.FailedCount(),
		LimitReached: s.LimitReached,
		Results:      entries(run),
	}

	return json.MarshalIndent(output, "", "  ")
}

// formatCSV formats the run as CSV, one row per processed issue
func formatCSV(run *importRun) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	header := []string{
		"run_id",
		"source_id",
		"title",
		"state",
		"status",
		"github_number",
		"error",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, e := range entries(run) {
		number := ""
		if e.GitHubNumber != 0 {
			number = strconv.Itoa(e.GitHubNumber)
		}
		row := []string{
			run.Summary.RunID,
			strconv.Itoa(e.SourceID),
			e.Title,
			e.State,
			e.Status,
			number,
			e.Error,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return []byte(buf.String()), nil
}
