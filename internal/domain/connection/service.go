package connection

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

const fetchLabel = "Data fetch"

// Service sequences configure, validate and fetch, and substitutes demo
// data when any step fails.
type Service struct {
	validator  CredentialValidator
	fetcher    DataFetcher
	sink       CredentialSink
	activities ActivityLogger
	logger     *slog.Logger
	now        func() time.Time

	mu          sync.RWMutex
	state       State
	generation  uint64
	attemptID   string
	creds       dashboard.Credentials
	data        dashboard.Dataset
	errors      []string
	validations int
	last        *Notification
	updatedAt   time.Time
}

// NewService creates a new connection service in the Unconfigured state.
// sink and activities may be nil.
func NewService(
	validator CredentialValidator,
	fetcher DataFetcher,
	sink CredentialSink,
	activities ActivityLogger,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		validator:  validator,
		fetcher:    fetcher,
		sink:       sink,
		activities: activities,
		logger:     logger,
		now:        time.Now,
		state:      StateUnconfigured,
		data:       dashboard.EmptyDataset(),
		errors:     []string{},
	}
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:                s.state,
		AttemptID:            s.attemptID,
		Credentials:          s.creds,
		Data:                 cloneDataset(s.data),
		ValidationErrors:     slices.Clone(s.errors),
		ValidationInProgress: s.validations > 0,
		UpdatedAt:            s.updatedAt,
	}
	if s.last != nil {
		n := *s.last
		n.Errors = slices.Clone(s.last.Errors)
		snap.LastNotification = &n
	}
	return snap
}

// Data returns the current dataset. Before the first completed
// configuration all slices are empty.
func (s *Service) Data() dashboard.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDataset(s.data)
}

// Configure replaces the credentials, validates them and fetches the
// datasets. On success the service is Ready with the fetched data; on any
// failure it is Degraded with the demo data and the failure messages.
// A configuration that is superseded by a later call while in flight
// leaves the state to the later call.
func (s *Service) Configure(ctx context.Context, creds dashboard.Credentials) Snapshot {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	attemptID := uuid.NewString()
	s.attemptID = attemptID
	s.state = StateConfiguring
	s.creds = creds
	s.errors = []string{}
	s.updatedAt = s.now()
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.SetCredentials(creds)
	}
	s.logger.Info("configuring connection", "attempt_id", attemptID)

	if errs := s.validate(ctx, creds); len(errs) > 0 {
		return s.degrade(ctx, gen, attemptID, errs)
	}

	ds, err := s.fetcher.FetchAll(ctx, creds)
	if err != nil {
		return s.degrade(ctx, gen, attemptID, []string{dashboard.Describe(fetchLabel, err)})
	}
	return s.ready(ctx, gen, attemptID, *ds)
}

// ValidateCredentials checks creds without changing the connection state.
// The result is kept as the current validation errors.
func (s *Service) ValidateCredentials(ctx context.Context, creds dashboard.Credentials) []string {
	errs := s.validate(ctx, creds)

	s.mu.Lock()
	s.errors = slices.Clone(errs)
	s.mu.Unlock()

	return errs
}

func (s *Service) validate(ctx context.Context, creds dashboard.Credentials) []string {
	s.mu.Lock()
	s.validations++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.validations--
		s.mu.Unlock()
	}()

	errs := s.validator.Validate(ctx, creds)
	if errs == nil {
		errs = []string{}
	}
	return errs
}

// Refetch reloads the datasets with the credentials of the current
// configuration. It requires the Ready state. On failure the previous
// data is kept and the error is returned.
func (s *Service) Refetch(ctx context.Context) error {
	s.mu.RLock()
	state, gen, creds, attemptID := s.state, s.generation, s.creds, s.attemptID
	s.mu.RUnlock()

	if state != StateReady {
		return fmt.Errorf("%w: state is %s", ErrNotReady, state)
	}

	ds, err := s.fetcher.FetchAll(ctx, creds)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding refetch result", "attempt_id", attemptID)
		return ErrSuperseded
	}

	var n *Notification
	var activityType activity.ActivityType
	if err != nil {
		msg := dashboard.Describe(fetchLabel, err)
		n = s.notify(activity.LevelWarning, "Refresh failed", "Keeping previously loaded data", []string{msg})
		activityType = activity.TypeRefetchFailed
	} else {
		s.data = *ds
		n = s.notify(activity.LevelInfo, "Dashboard refreshed",
			fmt.Sprintf("Loaded %d projects", len(ds.Projects)), nil)
		activityType = activity.TypeRefetched
	}
	s.mu.Unlock()

	s.record(ctx, attemptID, activityType, n)
	if err != nil {
		s.logger.Warn("refetch failed", "attempt_id", attemptID, "error", err)
		return fmt.Errorf("refetching: %w", err)
	}
	return nil
}

func (s *Service) ready(ctx context.Context, gen uint64, attemptID string, ds dashboard.Dataset) Snapshot {
	s.mu.Lock()
	if gen != s.generation {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.logger.Debug("discarding superseded configuration", "attempt_id", attemptID)
		return snap
	}
	s.state = StateReady
	s.data = ds
	s.errors = []string{}
	n := s.notify(activity.LevelInfo, "Connected",
		fmt.Sprintf("Loaded %d projects from the workspace", len(ds.Projects)), nil)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("connection ready", "attempt_id", attemptID, "projects", len(ds.Projects))
	s.record(ctx, attemptID, activity.TypeConnected, n)
	return snap
}

func (s *Service) degrade(ctx context.Context, gen uint64, attemptID string, errs []string) Snapshot {
	s.mu.Lock()
	if gen != s.generation {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.logger.Debug("discarding superseded configuration", "attempt_id", attemptID)
		return snap
	}
	s.state = StateDegraded
	s.data = dashboard.DemoDataset()
	s.errors = slices.Clone(errs)
	n := s.notify(activity.LevelWarning, "Using demonstration data",
		"The workspace could not be loaded; showing demonstration projects", errs)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Warn("connection degraded, using demo data", "attempt_id", attemptID, "errors", errs)
	s.record(ctx, attemptID, activity.TypeFallbackActivated, n)
	return snap
}

// notify sets the last notification. Callers hold s.mu.
func (s *Service) notify(level activity.Level, title, description string, errs []string) *Notification {
	now := s.now()
	n := &Notification{
		ID:          uuid.NewString(),
		Level:       string(level),
		Title:       title,
		Description: description,
		Errors:      slices.Clone(errs),
		CreatedAt:   now,
	}
	s.last = n
	s.updatedAt = now
	return n
}

func (s *Service) record(ctx context.Context, attemptID string, activityType activity.ActivityType, n *Notification) {
	if s.activities == nil || n == nil {
		return
	}
	entry := &activity.ActivityEntry{
		NotificationID: n.ID,
		AttemptID:      attemptID,
		ActivityType:   activityType,
		Level:          activity.Level(n.Level),
		Title:          n.Title,
		Summary:        n.Description,
		Details:        slices.Clone(n.Errors),
		CreatedAt:      n.CreatedAt,
	}
	if err := s.activities.LogActivity(ctx, entry); err != nil {
		s.logger.Error("failed to record activity", "type", activityType, "error", err)
	}
}
