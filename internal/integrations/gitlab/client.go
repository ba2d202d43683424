// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-16

package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/similigh/labmigrate/internal/core/issue"
)

// statusError is a non-2xx API response.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GitLab API returned status %d: %s", e.Code, e.Body)
}

// NewClient creates a client for the instance at baseURL (DefaultBaseURL when
// empty). A trailing /api/v4 on baseURL is tolerated.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(strings.TrimRight(baseURL, "/"), apiPrefix)

	return &Client{
		Token:      token,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.MaxElapsedTime = MaxElapsed
			return bo
		},
	}
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.HTTPClient = hc
	return c
}

// Authenticate checks the token against GET /user.
func (c *Client) Authenticate(ctx context.Context) error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("%w: GitLab token is empty", issue.ErrAuth)
	}

	var user apiUser
	if _, err := c.get(ctx, "/user", nil, &user); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Code == http.StatusUnauthorized {
			return fmt.Errorf("%w: GitLab rejected the token", issue.ErrAuth)
		}
		return fmt.Errorf("%w: error authenticating at GitLab: %w", issue.ErrAuth, err)
	}
	if user.ID == 0 {
		return fmt.Errorf("%w: GitLab did not return a user for this token", issue.ErrAuth)
	}
	return nil
}

// FetchAllIssues returns every issue of the project, open and closed, oldest
// first. A record with an unknown state aborts the fetch.
func (c *Client) FetchAllIssues(ctx context.Context, projectID int) ([]issue.Record, error) {
	path := fmt.Sprintf("/projects/%d/issues", projectID)
	params := map[string]string{
		"scope":    "all",
		"state":    "all",
		"order_by": "created_at",
		"sort":     "asc",
		"per_page": strconv.Itoa(MaxPageSize),
	}

	var records []issue.Record
	page := "1"
	for n := 0; n < MaxPages; n++ {
		params["page"] = page

		var batch []apiIssue
		header, err := c.get(ctx, path, params, &batch)
		if err != nil {
			return nil, fmt.Errorf("%w: error retrieving GitLab issues: %w", issue.ErrFetch, err)
		}

		for _, raw := range batch {
			rec, err := toRecord(raw)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}

		page = strings.TrimSpace(header.Get("X-Next-Page"))
		if page == "" || len(batch) == 0 {
			return records, nil
		}
	}

	return nil, fmt.Errorf("%w: GitLab pagination exceeded %d pages", issue.ErrFetch, MaxPages)
}

// buildURL joins the API prefix, path and query parameters.
func (c *Client) buildURL(path string, params map[string]string) string {
	u := c.BaseURL + apiPrefix + path
	if len(params) == 0 {
		return u
	}
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return u + "?" + q.Encode()
}

// get performs a GET, retrying transient failures, and decodes the JSON body
// into out.
func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) (http.Header, error) {
	target := c.buildURL(path, params)

	var header http.Header
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("PRIVATE-TOKEN", c.Token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			se := &statusError{Code: resp.StatusCode, Body: truncate(string(body), 200)}
			if retryable(resp.StatusCode) {
				return se
			}
			return backoff.Permanent(se)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to parse response: %w", err))
		}
		header = resp.Header
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		return nil, err
	}
	return header, nil
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// truncate keeps error bodies short so tokens echoed by proxies stay out of
// logs.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
