package notion

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

// Source implements dashboard.Remote on top of a Client.
type Source struct {
	client *Client
	logger *slog.Logger
	now    func() time.Time
}

// NewSource creates a new Source.
func NewSource(client *Client, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{client: client, logger: logger, now: time.Now}
}

// VerifyToken checks the token with a call that touches no database.
func (s *Source) VerifyToken(ctx context.Context, token string) error {
	_, err := s.client.Me(ctx, token)
	return err
}

// ProbeDataset checks that the database exists and the token can read it.
func (s *Source) ProbeDataset(ctx context.Context, token, datasetID string) error {
	_, err := s.client.GetDatabase(ctx, token, datasetID)
	return err
}

// QueryProjects returns the transformed first page of the projects database.
func (s *Source) QueryProjects(ctx context.Context, token, datasetID string) ([]dashboard.Project, error) {
	resp, err := s.client.QueryDatabase(ctx, token, datasetID, QueryRequest{})
	if err != nil {
		return nil, err
	}
	fetchedAt := s.now()
	projects := make([]dashboard.Project, 0, len(resp.Results))
	for _, page := range resp.Results {
		proj, issues := TransformProject(page, fetchedAt)
		s.logIssues(ctx, "project", page.ID, issues)
		projects = append(projects, proj)
	}
	return projects, nil
}

// QueryStatuses returns the transformed first page of the status database.
func (s *Source) QueryStatuses(ctx context.Context, token, datasetID string) ([]dashboard.ProjectStatus, error) {
	resp, err := s.client.QueryDatabase(ctx, token, datasetID, QueryRequest{})
	if err != nil {
		return nil, err
	}
	statuses := make([]dashboard.ProjectStatus, 0, len(resp.Results))
	for _, page := range resp.Results {
		status, issues := TransformStatus(page)
		s.logIssues(ctx, "status", page.ID, issues)
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// QueryUpdates returns the transformed first page of the updates database.
func (s *Source) QueryUpdates(ctx context.Context, token, datasetID string) ([]dashboard.ProjectUpdate, error) {
	resp, err := s.client.QueryDatabase(ctx, token, datasetID, QueryRequest{})
	if err != nil {
		return nil, err
	}
	updates := make([]dashboard.ProjectUpdate, 0, len(resp.Results))
	for _, page := range resp.Results {
		update, issues := TransformUpdate(page)
		s.logIssues(ctx, "update", page.ID, issues)
		updates = append(updates, update)
	}
	return updates, nil
}

func (s *Source) logIssues(ctx context.Context, kind, pageID string, issues []FieldIssue) {
	if len(issues) == 0 || !s.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	problems := make([]string, 0, len(issues))
	for _, issue := range issues {
		problems = append(problems, issue.String())
	}
	s.logger.Debug("defaulted page properties", "kind", kind, "page_id", pageID, "issues", problems)
}
