package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/repository"
)

// ActivityRepository implements repository.ActivityRepository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	details := entry.Details
	if details == nil {
		details = []string{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode activity details: %w", err)
	}

	query := `
		INSERT INTO activity_log (
			notification_id, attempt_id, activity_type, level,
			title, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.NotificationID,
		entry.AttemptID,
		entry.ActivityType,
		entry.Level,
		entry.Title,
		entry.Summary,
		string(detailsJSON),
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("notification %s: %w", entry.NotificationID, repository.ErrConflict)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("activity level %q: %w", entry.Level, repository.ErrInvalidInput)
		}
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT
			id, notification_id, attempt_id, activity_type, level,
			title, summary, details, created_at
		FROM activity_log
	`

	args := []any{}
	conditions := []string{}

	if opts.AttemptID != "" {
		conditions = append(conditions, "attempt_id = ?")
		args = append(args, opts.AttemptID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.ActivityType)
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, opts.Since.UTC())
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.ActivityEntry{}
	for rows.Next() {
		var entry activity.ActivityEntry
		var details string
		if err := rows.Scan(
			&entry.ID,
			&entry.NotificationID,
			&entry.AttemptID,
			&entry.ActivityType,
			&entry.Level,
			&entry.Title,
			&entry.Summary,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if err := json.Unmarshal([]byte(details), &entry.Details); err != nil {
			return nil, fmt.Errorf("failed to decode details of %s: %w", entry.NotificationID, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
