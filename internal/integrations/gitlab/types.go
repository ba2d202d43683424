// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-14

// Package gitlab reads issues from a GitLab project through the REST v4 API.
package gitlab

import (
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultBaseURL is used when no instance URL is configured.
	DefaultBaseURL = "https://gitlab.com"

	// apiPrefix is appended to the instance URL.
	apiPrefix = "/api/v4"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// MaxPageSize is the largest page GitLab serves.
	MaxPageSize = 100

	// MaxPages stops pagination when X-Next-Page never runs out.
	MaxPages = 1000

	// MaxElapsed bounds retries of a single transient failure.
	MaxElapsed = 2 * time.Minute
)

// Client talks to one GitLab instance with a personal access token.
type Client struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client

	newBackOff func() backoff.BackOff
}

// apiIssue is an issue as returned by GET /projects/:id/issues.
type apiIssue struct {
	ID          int      `json:"id"`
	IID         int      `json:"iid"`
	ProjectID   int      `json:"project_id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	State       string   `json:"state"`
	CreatedAt   string   `json:"created_at"`
	Labels      []string `json:"labels"`
	WebURL      string   `json:"web_url"`
}

// apiUser is the subset of GET /user used to validate a token.
type apiUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
