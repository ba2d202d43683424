// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-13

package gitlab

import "github.com/similigh/labmigrate/internal/core/issue"

// toRecord normalizes a GitLab issue. A null description becomes "".
func toRecord(raw apiIssue) (issue.Record, error) {
	description := ""
	if raw.Description != nil {
		description = *raw.Description
	}
	return issue.New(raw.ID, raw.ProjectID, raw.WebURL, raw.Title, description, raw.State, raw.CreatedAt, raw.Labels)
}
