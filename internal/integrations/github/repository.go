// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-17

package github

import (
	"context"
	"fmt"

	"github.com/similigh/labmigrate/internal/core/issue"
)

// Repository binds a client to one owner/repo pair.
type Repository struct {
	client *Client
	Owner  string
	Name   string
}

// Repo returns the repository owner/name on this client.
func (c *Client) Repo(owner, name string) *Repository {
	return &Repository{client: c, Owner: owner, Name: name}
}

// FullName returns "owner/name".
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Authenticate checks the client's token.
func (r *Repository) Authenticate(ctx context.Context) error {
	return r.client.Authenticate(ctx)
}

// FetchTitleIndex implements importer.Destination.
func (r *Repository) FetchTitleIndex(ctx context.Context) (*issue.TitleIndex, error) {
	return r.client.FetchTitleIndex(ctx, r.Owner, r.Name)
}

// CreateIssue implements importer.Destination.
func (r *Repository) CreateIssue(ctx context.Context, title, body string) (int, error) {
	return r.client.CreateIssue(ctx, r.Owner, r.Name, title, body)
}

// SetState implements importer.Destination.
func (r *Repository) SetState(ctx context.Context, number int, state issue.State) error {
	return r.client.SetState(ctx, r.Owner, r.Name, number, state)
}

// DeleteIssue deletes issue number from the repository.
func (r *Repository) DeleteIssue(ctx context.Context, number int) error {
	return r.client.DeleteIssue(ctx, r.Owner, r.Name, number)
}

// DeleteCommand returns the gh CLI command deleting issue number from this
// repository.
func (r *Repository) DeleteCommand(number int) string {
	return fmt.Sprintf("gh issue delete %d --repo %s --yes", number, r.FullName())
}
