package mocks

import (
	"context"

	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
	"github.com/rpggio/ragboard/internal/repository"
	"github.com/stretchr/testify/mock"
)

// Remote is a mock for dashboard.Remote.
type Remote struct {
	mock.Mock
}

func (m *Remote) VerifyToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *Remote) ProbeDataset(ctx context.Context, token, datasetID string) error {
	args := m.Called(ctx, token, datasetID)
	return args.Error(0)
}

func (m *Remote) QueryProjects(ctx context.Context, token, datasetID string) ([]dashboard.Project, error) {
	args := m.Called(ctx, token, datasetID)
	if list, ok := args.Get(0).([]dashboard.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Remote) QueryStatuses(ctx context.Context, token, datasetID string) ([]dashboard.ProjectStatus, error) {
	args := m.Called(ctx, token, datasetID)
	if list, ok := args.Get(0).([]dashboard.ProjectStatus); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Remote) QueryUpdates(ctx context.Context, token, datasetID string) ([]dashboard.ProjectUpdate, error) {
	args := m.Called(ctx, token, datasetID)
	if list, ok := args.Get(0).([]dashboard.ProjectUpdate); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for repository.APIKeyRepository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Add(ctx context.Context, key repository.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *APIKeyRepository) ResolveOwner(ctx context.Context, keyHash string) (string, error) {
	args := m.Called(ctx, keyHash)
	return args.String(0), args.Error(1)
}
