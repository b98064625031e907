package connection

import (
	"slices"
	"time"

	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

// State is the lifecycle state of the connection to the remote workspace
type State string

const (
	StateUnconfigured State = "unconfigured"
	StateConfiguring  State = "configuring"
	StateReady        State = "ready"
	StateDegraded     State = "degraded"
)

// Notification is the user-visible outcome of a connection attempt
type Notification struct {
	ID          string    `json:"id"`
	Level       string    `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Errors      []string  `json:"errors,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot is a consistent copy of the connection state.
type Snapshot struct {
	State                State                 `json:"state"`
	AttemptID            string                `json:"attempt_id,omitempty"`
	Credentials          dashboard.Credentials `json:"credentials"`
	Data                 dashboard.Dataset     `json:"data"`
	ValidationErrors     []string              `json:"validation_errors"`
	ValidationInProgress bool                  `json:"validation_in_progress"`
	LastNotification     *Notification         `json:"last_notification,omitempty"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// IsConfigured reports whether a configuration attempt has completed,
// with live or with demonstration data.
func (s Snapshot) IsConfigured() bool {
	return s.State == StateReady || s.State == StateDegraded
}

// IsConfiguring reports whether an attempt is in flight.
func (s Snapshot) IsConfiguring() bool {
	return s.State == StateConfiguring
}

// IsUsingFallbackData reports whether Data holds the demonstration set.
func (s Snapshot) IsUsingFallbackData() bool {
	return s.State == StateDegraded
}

func cloneDataset(ds dashboard.Dataset) dashboard.Dataset {
	return dashboard.Dataset{
		Projects: slices.Clone(ds.Projects),
		Statuses: slices.Clone(ds.Statuses),
		Updates:  slices.Clone(ds.Updates),
	}
}
