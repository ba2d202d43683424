// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-18

// Package issue defines the tracker-neutral issue record, the destination
// title index and the error taxonomy shared by the adapters and the importer.
package issue

import (
	"fmt"
	"strings"
	"time"
)

// State is the open/closed state of an issue.
type State int

const (
	// Open is the default state of a newly created destination issue.
	Open State = iota
	// Closed issues need a follow-up state change after creation.
	Closed
)

// String returns the lowercase state name used by both trackers' APIs.
func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ParseState maps a tracker state string onto a State.
// "opened" is GitLab's REST spelling of "open". Matching is exact.
func ParseState(raw string) (State, error) {
	switch raw {
	case "open", "opened":
		return Open, nil
	case "closed":
		return Closed, nil
	default:
		return Open, fmt.Errorf("%w: unrecognized issue state %q", ErrConstruction, raw)
	}
}

// ParseCreatedAt converts an ISO-8601 creation timestamp into epoch seconds.
// Unparsable or empty input yields 0.
func ParseCreatedAt(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z0700", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Unix()
		}
	}
	return 0
}

// Record is an issue normalized from the source tracker. It is a value type:
// callers copy it around and never modify it after New returns.
type Record struct {
	SourceID        int
	SourceProjectID int
	SourceURL       string
	Title           string
	Description     string
	State           State
	CreatedAt       int64
	Labels          []string
}

// New builds a Record from raw tracker fields, applying the state and
// timestamp construction rules. The labels slice is copied.
func New(id, projectID int, url, title, description, state, createdAt string, labels []string) (Record, error) {
	st, err := ParseState(state)
	if err != nil {
		return Record{}, fmt.Errorf("issue %d: %w", id, err)
	}

	var copied []string
	if len(labels) > 0 {
		copied = make([]string, len(labels))
		copy(copied, labels)
	}

	return Record{
		SourceID:        id,
		SourceProjectID: projectID,
		SourceURL:       url,
		Title:           title,
		Description:     description,
		State:           st,
		CreatedAt:       ParseCreatedAt(createdAt),
		Labels:          copied,
	}, nil
}

// Created returns CreatedAt as a time, or the zero time when it is unknown.
func (r Record) Created() time.Time {
	if r.CreatedAt == 0 {
		return time.Time{}
	}
	return time.Unix(r.CreatedAt, 0)
}
