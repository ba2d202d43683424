// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v60/github"

	"github.com/similigh/labmigrate/internal/core/issue"
)

// listPageSize is the largest page the issues endpoint serves.
const listPageSize = 100

// Client wraps the GitHub API client.
type Client struct {
	client  *github.Client
	graphql *GraphQLClient
	token   string
}

// Authenticate checks that the token identifies a user.
func (c *Client) Authenticate(ctx context.Context) error {
	if strings.TrimSpace(c.token) == "" {
		return fmt.Errorf("%w: GitHub token is empty", issue.ErrAuth)
	}

	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		if statusCode(err) == http.StatusUnauthorized {
			return fmt.Errorf("%w: GitHub rejected the token", issue.ErrAuth)
		}
		return fmt.Errorf("%w: error authenticating at GitHub: %w", issue.ErrAuth, err)
	}
	if user.GetLogin() == "" {
		return fmt.Errorf("%w: GitHub did not return a user for this token", issue.ErrAuth)
	}
	return nil
}

// FetchTitleIndex lists every issue of the repository regardless of state,
// oldest first, and returns the number→title index. Pull requests share the
// issue numbering but are left out.
func (c *Client) FetchTitleIndex(ctx context.Context, owner, repo string) (*issue.TitleIndex, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var entries []issue.IndexEntry
	page := 1
	for {
		opts.Page = page
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: error retrieving issues from GitHub: %w", issue.ErrFetch, err)
		}

		for _, gi := range issues {
			if gi.IsPullRequest() {
				continue
			}
			entries = append(entries, issue.IndexEntry{ID: gi.GetNumber(), Title: gi.GetTitle()})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return issue.NewTitleIndex(entries)
}

// CreateIssue opens a new issue and returns its number.
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string) (int, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: issue title cannot be empty", issue.ErrCreate)
	}

	req := &github.IssueRequest{
		Title: github.String(title),
		Body:  github.String(body),
	}
	created, _, err := c.client.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		return 0, fmt.Errorf("%w: error adding issue to GitHub: %w", issue.ErrCreate, err)
	}
	return created.GetNumber(), nil
}

// SetState opens or closes an issue.
func (c *Client) SetState(ctx context.Context, owner, repo string, number int, state issue.State) error {
	req := &github.IssueRequest{
		State: github.String(state.String()),
	}
	_, _, err := c.client.Issues.Edit(ctx, owner, repo, number, req)
	if err != nil {
		return fmt.Errorf("%w: error setting issue #%d to %s: %w", issue.ErrUpdate, number, state, err)
	}
	return nil
}

// GetFileContent fetches a file from a repository at ref.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from %s/%s@%s: %w", path, owner, repo, ref, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s in %s/%s is a directory", path, owner, repo)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(content), nil
}

// DeleteIssue permanently deletes an issue. The REST API cannot delete
// issues, so this goes through GraphQL and requires admin rights.
func (c *Client) DeleteIssue(ctx context.Context, owner, repo string, number int) error {
	if c.graphql == nil || c.token == "" {
		return fmt.Errorf("issue deletion requires authenticated GraphQL client")
	}

	nodeID, err := c.graphql.GetIssueNodeID(ctx, owner, repo, number)
	if err != nil {
		return fmt.Errorf("failed to resolve issue #%d: %w", number, err)
	}
	if err := c.graphql.DeleteIssue(ctx, nodeID); err != nil {
		return fmt.Errorf("failed to delete issue #%d: %w", number, err)
	}
	return nil
}

func statusCode(err error) int {
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	return 0
}
