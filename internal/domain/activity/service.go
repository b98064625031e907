package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const defaultListLimit = 50

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry, filling the timestamp and
// notification ID if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.NotificationID == "" {
		entry.NotificationID = uuid.NewString()
	}
	if entry.Level == "" {
		entry.Level = LevelInfo
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("activity logged", "type", entry.ActivityType, "notification_id", entry.NotificationID)
	}
	return nil
}

// GetRecentActivity lists activity entries, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	if entries == nil {
		entries = []ActivityEntry{}
	}
	return entries, nil
}
