package connection

import (
	"context"

	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

// CredentialValidator checks credentials and returns display messages.
type CredentialValidator interface {
	Validate(ctx context.Context, creds dashboard.Credentials) []string
}

// DataFetcher retrieves the joined dataset for a credential set.
type DataFetcher interface {
	FetchAll(ctx context.Context, creds dashboard.Credentials) (*dashboard.Dataset, error)
}

// CredentialSink receives the credential set of each configuration.
type CredentialSink interface {
	SetCredentials(creds dashboard.Credentials)
}

// ActivityLogger records notifications.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
