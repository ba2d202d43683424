// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-14

package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// NewClient creates a new GitHub client using the provided token.
// If token is empty, it returns an unauthenticated client; Authenticate
// reports that as an error.
func NewClient(ctx context.Context, token string) *Client {
	tc := tokenClient(ctx, token)

	return &Client{
		client:  github.NewClient(tc),
		graphql: NewGraphQLClient(tc, token, graphQLEndpoint),
		token:   token,
	}
}

// NewClientWithBaseURL creates a client for a GitHub Enterprise instance or a
// test server. restURL is the REST API root; graphqlURL the GraphQL endpoint.
func NewClientWithBaseURL(ctx context.Context, token, restURL, graphqlURL string) (*Client, error) {
	if !strings.HasSuffix(restURL, "/") {
		restURL += "/"
	}
	base, err := url.Parse(restURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", restURL, err)
	}

	tc := tokenClient(ctx, token)
	client := github.NewClient(tc)
	client.BaseURL = base

	return &Client{
		client:  client,
		graphql: NewGraphQLClient(tc, token, graphqlURL),
		token:   token,
	}, nil
}

func tokenClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return nil
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return oauth2.NewClient(ctx, ts)
}
