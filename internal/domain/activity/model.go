package activity

import "time"

// ActivityType represents the kind of connection event
type ActivityType string

const (
	TypeConnected         ActivityType = "connected"
	TypeFallbackActivated ActivityType = "fallback_activated"
	TypeRefetched         ActivityType = "refetched"
	TypeRefetchFailed     ActivityType = "refetch_failed"
)

// Level is the severity shown with a notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// ActivityEntry represents a user-visible notification in the activity log
type ActivityEntry struct {
	ID             int64        `json:"id"`
	NotificationID string       `json:"notification_id"`
	AttemptID      string       `json:"attempt_id,omitempty"`
	ActivityType   ActivityType `json:"type"`
	Level          Level        `json:"level"`
	Title          string       `json:"title"`
	Summary        string       `json:"summary"`
	Details        []string     `json:"details,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
