// Package board exposes the connection state and dataset as read models
// for the MCP and HTTP surfaces.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/connection"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

// ErrProjectNotFound indicates no project with the requested ID is loaded.
var ErrProjectNotFound = errors.New("project not found")

// Connection is the part of connection.Service the board reads from.
type Connection interface {
	Snapshot() connection.Snapshot
	Configure(ctx context.Context, creds dashboard.Credentials) connection.Snapshot
	ValidateCredentials(ctx context.Context, creds dashboard.Credentials) []string
	Refetch(ctx context.Context) error
}

// ActivityReader lists recorded notifications.
type ActivityReader interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Service builds views over the current connection snapshot.
type Service struct {
	conn       Connection
	activities ActivityReader
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new board service. activities may be nil.
func NewService(conn Connection, activities ActivityReader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{conn: conn, activities: activities, logger: logger, now: time.Now}
}

// State returns the connection state without the dataset.
func (s *Service) State() StateView {
	return newStateView(s.conn.Snapshot())
}

// Configure applies creds and returns the resulting state.
func (s *Service) Configure(ctx context.Context, creds dashboard.Credentials) StateView {
	return newStateView(s.conn.Configure(ctx, creds))
}

// Validate checks creds without applying them.
func (s *Service) Validate(ctx context.Context, creds dashboard.Credentials) ValidationResult {
	errs := s.conn.ValidateCredentials(ctx, creds)
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Refetch reloads the live dataset and returns the resulting state.
func (s *Service) Refetch(ctx context.Context) (StateView, error) {
	if err := s.conn.Refetch(ctx); err != nil {
		return s.State(), err
	}
	return s.State(), nil
}

// Dashboard returns the state, the overview and every project.
func (s *Service) Dashboard() DashboardView {
	snap := s.conn.Snapshot()
	return DashboardView{
		StateView: newStateView(snap),
		Overview:  dashboard.Summarize(snap.Data.Projects, s.now()),
		Projects:  snap.Data.Projects,
	}
}

// Projects filters and sorts the loaded projects.
func (s *Service) Projects(q dashboard.ProjectQuery) []dashboard.Project {
	return q.Apply(s.conn.Snapshot().Data.Projects, s.now())
}

// Project returns one project with its status record and weekly updates.
func (s *Service) Project(id string) (*ProjectDetail, error) {
	data := s.conn.Snapshot().Data
	for _, p := range data.Projects {
		if p.ID != id {
			continue
		}
		detail := &ProjectDetail{Project: p}
		if st, ok := data.StatusForProject(id); ok {
			detail.Status = &st
		}
		return detail, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
}

// Metrics returns the overview with per-owner and per-department breakdowns.
func (s *Service) Metrics() MetricsView {
	projects := s.conn.Snapshot().Data.Projects
	return MetricsView{
		Overview:     dashboard.Summarize(projects, s.now()),
		ByOwner:      summarizeOwners(dashboard.GroupByOwner(projects)),
		ByDepartment: dashboard.CountByDepartment(projects),
	}
}

// RecentActivity lists recorded notifications, newest first.
func (s *Service) RecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	if s.activities == nil {
		return []activity.ActivityEntry{}, nil
	}
	entries, err := s.activities.GetRecentActivity(ctx, opts)
	if err != nil {
		s.logger.Error("listing activity failed", "error", err)
		return nil, err
	}
	return entries, nil
}

func summarizeOwners(groups []dashboard.OwnerProjects) []OwnerSummary {
	out := make([]OwnerSummary, 0, len(groups))
	for _, g := range groups {
		sum := OwnerSummary{Owner: g.Owner, Projects: len(g.Projects)}
		for _, p := range g.Projects {
			switch p.RAGStatus {
			case dashboard.RAGRed:
				sum.Red++
			case dashboard.RAGAmber:
				sum.Amber++
			default:
				sum.Green++
			}
		}
		out = append(out, sum)
	}
	return out
}
