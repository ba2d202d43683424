// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-04
// Last Modified: 2026-10-17

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const graphQLEndpoint = "https://api.github.com/graphql"

// GraphQLClient talks to GitHub's GraphQL API. Only GraphQL can delete
// issues.
type GraphQLClient struct {
	httpClient *http.Client
	token      string
	endpoint   string
}

// NewGraphQLClient creates a GraphQL client. A nil httpClient means
// http.DefaultClient; an empty endpoint means api.github.com.
func NewGraphQLClient(httpClient *http.Client, token, endpoint string) *GraphQLClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = graphQLEndpoint
	}
	return &GraphQLClient{
		httpClient: httpClient,
		token:      token,
		endpoint:   endpoint,
	}
}

type graphQLPayload struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Type    string `json:"type,omitempty"`
	} `json:"errors,omitempty"`
}

// do posts one operation and decodes its data into out.
func (c *GraphQLClient) do(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(graphQLPayload{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body := string(raw)
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		return fmt.Errorf("GraphQL request failed with status %d: %s", resp.StatusCode, body)
	}

	var env graphQLEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to parse GraphQL response: %w", err)
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, len(env.Errors))
		for i, e := range env.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("GraphQL error: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode GraphQL data: %w", err)
	}
	return nil
}

const issueNodeIDQuery = `query($owner: String!, $repo: String!, $number: Int!) {
  repository(owner: $owner, name: $repo) {
    issue(number: $number) { id }
  }
}`

// GetIssueNodeID returns the node ID of issue number in owner/repo.
func (c *GraphQLClient) GetIssueNodeID(ctx context.Context, owner, repo string, number int) (string, error) {
	var data struct {
		Repository *struct {
			Issue *struct {
				ID string `json:"id"`
			} `json:"issue"`
		} `json:"repository"`
	}

	vars := map[string]any{"owner": owner, "repo": repo, "number": number}
	if err := c.do(ctx, issueNodeIDQuery, vars, &data); err != nil {
		return "", err
	}
	if data.Repository == nil || data.Repository.Issue == nil || data.Repository.Issue.ID == "" {
		return "", fmt.Errorf("issue not found: %s/%s#%d", owner, repo, number)
	}
	return data.Repository.Issue.ID, nil
}

const deleteIssueMutation = `mutation($issueId: ID!) {
  deleteIssue(input: {issueId: $issueId}) {
    repository { nameWithOwner }
  }
}`

// DeleteIssue deletes the issue with the given node ID.
func (c *GraphQLClient) DeleteIssue(ctx context.Context, issueNodeID string) error {
	var data struct {
		DeleteIssue struct {
			Repository struct {
				NameWithOwner string `json:"nameWithOwner"`
			} `json:"repository"`
		} `json:"deleteIssue"`
	}

	if err := c.do(ctx, deleteIssueMutation, map[string]any{"issueId": issueNodeID}, &data); err != nil {
		return err
	}
	if data.DeleteIssue.Repository.NameWithOwner == "" {
		return fmt.Errorf("issue deletion failed: empty result returned")
	}
	return nil
}
