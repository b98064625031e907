package board

import (
	"time"

	"github.com/rpggio/ragboard/internal/domain/connection"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

// StateView is the connection state as shown to clients. The token is
// never included.
type StateView struct {
	State                connection.State         `json:"state"`
	IsConfigured         bool                     `json:"is_configured"`
	IsConfiguring        bool                     `json:"is_configuring"`
	IsUsingFallbackData  bool                     `json:"is_using_fallback_data"`
	ValidationErrors     []string                 `json:"validation_errors"`
	ValidationInProgress bool                     `json:"validation_in_progress"`
	AttemptID            string                   `json:"attempt_id,omitempty"`
	ProjectsDatabaseID   string                   `json:"projects_database_id,omitempty"`
	StatusDatabaseID     string                   `json:"status_database_id,omitempty"`
	UpdatesDatabaseID    string                   `json:"updates_database_id,omitempty"`
	LastNotification     *connection.Notification `json:"last_notification,omitempty"`
	UpdatedAt            *time.Time               `json:"updated_at,omitempty"`
}

func newStateView(snap connection.Snapshot) StateView {
	v := StateView{
		State:                snap.State,
		IsConfigured:         snap.IsConfigured(),
		IsConfiguring:        snap.IsConfiguring(),
		IsUsingFallbackData:  snap.IsUsingFallbackData(),
		ValidationErrors:     snap.ValidationErrors,
		ValidationInProgress: snap.ValidationInProgress,
		AttemptID:            snap.AttemptID,
		ProjectsDatabaseID:   snap.Credentials.ProjectsDatabaseID,
		StatusDatabaseID:     snap.Credentials.StatusDatabaseID,
		UpdatesDatabaseID:    snap.Credentials.UpdatesDatabaseID,
		LastNotification:     snap.LastNotification,
	}
	if v.ValidationErrors == nil {
		v.ValidationErrors = []string{}
	}
	if !snap.UpdatedAt.IsZero() {
		updated := snap.UpdatedAt
		v.UpdatedAt = &updated
	}
	return v
}

// ValidationResult is the outcome of a credential check.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// DashboardView is the full dashboard payload.
type DashboardView struct {
	StateView
	Overview dashboard.Overview  `json:"overview"`
	Projects []dashboard.Project `json:"projects"`
}

// ProjectDetail is a project with its status record, if one exists.
type ProjectDetail struct {
	Project dashboard.Project        `json:"project"`
	Status  *dashboard.ProjectStatus `json:"status,omitempty"`
}

// OwnerSummary counts an owner's projects by RAG status.
type OwnerSummary struct {
	Owner    string `json:"owner"`
	Projects int    `json:"projects"`
	Red      int    `json:"red"`
	Amber    int    `json:"amber"`
	Green    int    `json:"green"`
}

// MetricsView is the overview with breakdowns.
type MetricsView struct {
	dashboard.Overview
	ByOwner      []OwnerSummary `json:"by_owner"`
	ByDepartment map[string]int `json:"by_department"`
}
