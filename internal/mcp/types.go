package mcp

import (
	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

type CredentialsParams struct {
	Token              string `json:"token" jsonschema:"integration token for the workspace"`
	ProjectsDatabaseID string `json:"projects_database_id" jsonschema:"ID of the projects database"`
	StatusDatabaseID   string `json:"status_database_id" jsonschema:"ID of the project status database"`
	UpdatesDatabaseID  string `json:"updates_database_id" jsonschema:"ID of the weekly updates database"`
}

func (p CredentialsParams) credentials() dashboard.Credentials {
	return dashboard.Credentials{
		Token:              p.Token,
		ProjectsDatabaseID: p.ProjectsDatabaseID,
		StatusDatabaseID:   p.StatusDatabaseID,
		UpdatesDatabaseID:  p.UpdatesDatabaseID,
	}
}

type EmptyParams struct{}

type ListProjectsParams struct {
	Search      string   `json:"search,omitempty" jsonschema:"case-insensitive match on name, code or owner"`
	RAGStatus   string   `json:"rag_status,omitempty" jsonschema:"red, amber, green or all"`
	Period      string   `json:"period,omitempty" jsonschema:"all, week, month, quarter or year"`
	Departments []string `json:"departments,omitempty" jsonschema:"keep projects in any of these departments"`
	SortBy      string   `json:"sort_by,omitempty" jsonschema:"updated (default), danger or name"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

type GetRecentActivityParams struct {
	AttemptID string `json:"attempt_id,omitempty" jsonschema:"only entries of this connection attempt"`
	Type      string `json:"type,omitempty" jsonschema:"connected, fallback_activated, refetched or refetch_failed"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of entries (default 50)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"entries to skip"`
}

type ListProjectsResponse struct {
	Count    int                 `json:"count"`
	Projects []dashboard.Project `json:"projects"`
}

type RecentActivityResponse struct {
	Entries []activity.ActivityEntry `json:"entries"`
}
