package repository

import (
	"context"
	"time"

	"github.com/rpggio/ragboard/internal/domain/activity"
)

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
	List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// APIKey is a stored key for the HTTP API. Only the hash of the key is kept.
type APIKey struct {
	KeyHash     string
	Owner       string
	Description string
	CreatedAt   time.Time
	LastUsed    *time.Time
}

// APIKeyRepository manages API keys for the HTTP surfaces
type APIKeyRepository interface {
	Add(ctx context.Context, key APIKey) error
	ResolveOwner(ctx context.Context, keyHash string) (string, error)
}
