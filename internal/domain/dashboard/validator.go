package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Labels used in validation messages.
const (
	LabelToken    = "API token"
	LabelProjects = "Projects database"
	LabelStatus   = "Status database"
	LabelUpdates  = "Updates database"
)

// Validator checks candidate credentials against the remote service.
type Validator struct {
	remote Remote
	logger *slog.Logger
}

// NewValidator creates a new Validator.
func NewValidator(remote Remote, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{remote: remote, logger: logger}
}

// Validate returns one human-readable message per failed check; an empty
// slice means the credentials are valid. The token is checked first and a
// token failure is returned alone. The three datasets are then probed
// concurrently and every failure is reported, in projects, status, updates
// order.
func (v *Validator) Validate(ctx context.Context, creds Credentials) []string {
	if strings.TrimSpace(creds.Token) == "" {
		return []string{LabelToken + " is required"}
	}
	if err := v.remote.VerifyToken(ctx, creds.Token); err != nil {
		v.logger.Info("token rejected", "error", err)
		return []string{Describe(LabelToken, err)}
	}

	checks := []struct {
		label string
		id    string
	}{
		{LabelProjects, creds.ProjectsDatabaseID},
		{LabelStatus, creds.StatusDatabaseID},
		{LabelUpdates, creds.UpdatesDatabaseID},
	}

	results := make([]string, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		if strings.TrimSpace(check.id) == "" {
			results[i] = check.label + " ID is required"
			continue
		}
		wg.Go(func() {
			if err := v.remote.ProbeDataset(ctx, creds.Token, check.id); err != nil {
				results[i] = Describe(check.label, err)
			}
		})
	}
	wg.Wait()

	errs := []string{}
	for _, msg := range results {
		if msg != "" {
			errs = append(errs, msg)
		}
	}
	if len(errs) > 0 {
		v.logger.Info("credential validation failed", "errors", len(errs))
	}
	return errs
}

// Describe renders a remote error as display text prefixed by label.
func Describe(label string, err error) string {
	var remoteErr *RemoteError
	switch {
	case errors.Is(err, ErrInvalidCredential):
		return fmt.Sprintf("%s: invalid credential", label)
	case errors.Is(err, ErrDatasetNotFound):
		id := ""
		if errors.As(err, &remoteErr) {
			id = remoteErr.DatasetID
		}
		return fmt.Sprintf("%s: dataset not found: %s", label, id)
	case errors.Is(err, ErrTimeout):
		return fmt.Sprintf("%s: request timed out", label)
	case errors.Is(err, ErrNetworkUnavailable):
		return fmt.Sprintf("%s: %s", label, ErrNetworkUnavailable)
	case errors.Is(err, ErrRemoteAPI):
		msg := ""
		if errors.As(err, &remoteErr) {
			msg = remoteErr.Message
		}
		return fmt.Sprintf("%s: remote API error: %s", label, msg)
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("%s: request canceled", label)
	default:
		return fmt.Sprintf("%s: %v", label, err)
	}
}
