// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-10
// Last Modified: 2026-10-17

package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/similigh/labmigrate/internal/core/issue"
	"github.com/similigh/labmigrate/internal/importer"
)

func sampleRun(t *testing.T) *importRun {
	t.Helper()
	crash := mustRecord(t, 1, "Crash, on start", "opened")
	typo := mustRecord(t, 2, "Typo", "closed")
	docs := mustRecord(t, 3, "Docs", "opened")

	return &importRun{
		Repository: "acme/widgets",
		Summary: &importer.Summary{
			RunID:      "run-1",
			Total:      3,
			Processed:  3,
			Imported:   1,
			Skipped:    []issue.Record{typo},
			Failed:     []importer.Failure{{Issue: docs, Reason: "create failed: boom"}},
			StartedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC),
		},
		Outcomes: []importer.Outcome{
			{Index: 0, Issue: crash, Status: importer.StatusImported, Number: 10},
			{Index: 1, Issue: typo, Status: importer.StatusSkipped},
			{Index: 2, Issue: docs, Status: importer.StatusFailed, Err: errors.New("create failed: boom")},
		},
	}
}

func TestReportFormat(t *testing.T) {
	tests := []struct {
		path    string
		format  string
		want    string
		wantErr bool
	}{
		{path: "out.json", want: "json"},
		{path: "out.CSV", want: "csv"},
		{path: "out", want: "json"},
		{path: "out.json", format: "CSV", want: "csv"},
		{path: "out.csv", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.format, func(t *testing.T) {
			got, err := reportFormat(tt.path, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("reportFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("reportFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	data, err := formatJSON(sampleRun(t))
	if err != nil {
		t.Fatalf("formatJSON() error = %v", err)
	}

	var out JSONReport
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if out.RunID != "run-1" || out.Repository != "acme/widgets" {
		t.Errorf("header = %+v", out)
	}
	if out.TotalIssues != 3 || out.Imported != 1 || out.Skipped != 1 || out.Failed != 1 {
		t.Errorf("counts = %d/%d/%d/%d", out.TotalIssues, out.Imported, out.Skipped, out.Failed)
	}
	if len(out.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(out.Results))
	}
	if out.Results[0].GitHubNumber != 10 || out.Results[0].Status != "imported" {
		t.Errorf("results[0] = %+v", out.Results[0])
	}
	if out.Results[1].State != "closed" || out.Results[1].Status != "skipped" {
		t.Errorf("results[1] = %+v", out.Results[1])
	}
	if out.Results[2].Error != "create failed: boom" {
		t.Errorf("results[2].Error = %q", out.Results[2].Error)
	}
}

func TestFormatCSV(t *testing.T) {
	data, err := formatCSV(sampleRun(t))
	if err != nil {
		t.Fatalf("formatCSV() error = %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "run_id" || rows[0][5] != "github_number" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "Crash, on start" || rows[1][5] != "10" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][5] != "" || rows[2][4] != "skipped" {
		t.Errorf("row 2 = %v", rows[2])
	}
	if rows[3][6] != "create failed: boom" {
		t.Errorf("row 3 = %v", rows[3])
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	run := sampleRun(t)

	jsonPath := filepath.Join(dir, "report.json")
	if err := writeReport(jsonPath, "", run); err != nil {
		t.Fatalf("writeReport(json) error = %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("report.json is not valid JSON")
	}

	csvPath := filepath.Join(dir, "report.csv")
	if err := writeReport(csvPath, "", run); err != nil {
		t.Fatalf("writeReport(csv) error = %v", err)
	}
	data, err = os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "run_id,") {
		t.Errorf("report.csv starts with %q", strings.SplitN(string(data), "\n", 2)[0])
	}

	if err := writeReport(filepath.Join(dir, "r.txt"), "yaml", run); err == nil {
		t.Error("expected error for unsupported format")
	}
}
