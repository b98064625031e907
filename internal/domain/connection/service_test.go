package connection_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/connection"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
	"github.com/rpggio/ragboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCreds = dashboard.Credentials{
	Token:              "secret_token",
	ProjectsDatabaseID: "projects-db",
	StatusDatabaseID:   "status-db",
	UpdatesDatabaseID:  "updates-db",
}

type recordingSink struct {
	got []dashboard.Credentials
}

func (s *recordingSink) SetCredentials(creds dashboard.Credentials) {
	s.got = append(s.got, creds)
}

type recordingActivities struct {
	entries []*activity.ActivityEntry
}

func (r *recordingActivities) LogActivity(_ context.Context, entry *activity.ActivityEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func newService(remote *mocks.Remote) (*connection.Service, *recordingSink, *recordingActivities) {
	sink := &recordingSink{}
	acts := &recordingActivities{}
	svc := connection.NewService(
		dashboard.NewValidator(remote, nil),
		dashboard.NewFetcher(remote, nil),
		sink,
		acts,
		nil,
	)
	return svc, sink, acts
}

func liveProjects() []dashboard.Project {
	return []dashboard.Project{
		{ID: "p-1", Code: "X-1", Name: "Live One", RAGStatus: dashboard.RAGRed, DangerScore: 8},
		{ID: "p-2", Code: "X-2", Name: "Live Two", RAGStatus: dashboard.RAGGreen, DangerScore: 1},
	}
}

func expectHealthyRemote(remote *mocks.Remote) {
	remote.On("VerifyToken", mock.Anything, testCreds.Token).Return(nil)
	remote.On("ProbeDataset", mock.Anything, testCreds.Token, mock.Anything).Return(nil)
	remote.On("QueryProjects", mock.Anything, testCreds.Token, "projects-db").Return(liveProjects(), nil)
	remote.On("QueryStatuses", mock.Anything, testCreds.Token, "status-db").
		Return([]dashboard.ProjectStatus{{ID: "s-1", ProjectID: "p-1", Updates: []dashboard.ProjectUpdate{}}}, nil)
	remote.On("QueryUpdates", mock.Anything, testCreds.Token, "updates-db").
		Return([]dashboard.ProjectUpdate{{ID: "u-1", ProjectStatusID: "s-1", RAGStatus: "Red"}}, nil)
}

func TestService_InitialState(t *testing.T) {
	svc, _, _ := newService(&mocks.Remote{})

	snap := svc.Snapshot()
	require.Equal(t, connection.StateUnconfigured, snap.State)
	require.False(t, snap.IsConfigured())
	require.False(t, snap.IsUsingFallbackData())
	require.Empty(t, snap.Data.Projects)
	require.NotNil(t, snap.ValidationErrors)
	require.Nil(t, snap.LastNotification)
}

func TestService_ConfigureReady(t *testing.T) {
	remote := &mocks.Remote{}
	expectHealthyRemote(remote)
	svc, sink, acts := newService(remote)

	snap := svc.Configure(context.Background(), testCreds)

	require.Equal(t, connection.StateReady, snap.State)
	require.True(t, snap.IsConfigured())
	require.False(t, snap.IsUsingFallbackData())
	require.Empty(t, snap.ValidationErrors)
	require.Len(t, snap.Data.Projects, 2)
	require.Len(t, snap.Data.Statuses, 1)
	require.Len(t, snap.Data.Statuses[0].Updates, 1)
	require.NotEmpty(t, snap.AttemptID)

	require.NotNil(t, snap.LastNotification)
	require.Equal(t, "Connected", snap.LastNotification.Title)
	require.Empty(t, snap.LastNotification.Errors)

	require.Equal(t, []dashboard.Credentials{testCreds}, sink.got)
	require.Len(t, acts.entries, 1)
	require.Equal(t, activity.TypeConnected, acts.entries[0].ActivityType)
	require.Equal(t, snap.AttemptID, acts.entries[0].AttemptID)
	require.Equal(t, snap.LastNotification.ID, acts.entries[0].NotificationID)
	remote.AssertExpectations(t)
}

func TestService_InvalidTokenFallsBackToDemoData(t *testing.T) {
	remote := &mocks.Remote{}
	remote.On("VerifyToken", mock.Anything, testCreds.Token).
		Return(dashboard.NewRemoteError(dashboard.ErrInvalidCredential, "", "unauthorized", nil))
	svc, _, acts := newService(remote)

	snap := svc.Configure(context.Background(), testCreds)

	require.Equal(t, connection.StateDegraded, snap.State)
	require.True(t, snap.IsConfigured())
	require.True(t, snap.IsUsingFallbackData())
	require.Equal(t, []string{"API token: invalid credential"}, snap.ValidationErrors)

	ids := map[string]string{}
	for _, p := range snap.Data.Projects {
		ids[p.ID] = p.Name
	}
	require.Equal(t, "Project Alpha", ids["1"])
	require.Equal(t, "Project Beta", ids["2"])
	require.Len(t, snap.Data.Projects, len(dashboard.DemoProjects()))

	require.NotNil(t, snap.LastNotification)
	require.Equal(t, string(activity.LevelWarning), snap.LastNotification.Level)
	require.Equal(t, snap.ValidationErrors, snap.LastNotification.Errors)

	require.Len(t, acts.entries, 1)
	require.Equal(t, activity.TypeFallbackActivated, acts.entries[0].ActivityType)
	require.Equal(t, []string{"API token: invalid credential"}, acts.entries[0].Details)

	remote.AssertNotCalled(t, "ProbeDataset", mock.Anything, mock.Anything, mock.Anything)
	remote.AssertNotCalled(t, "QueryProjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_FetchFailureFallsBackToDemoData(t *testing.T) {
	remote := &mocks.Remote{}
	remote.On("VerifyToken", mock.Anything, testCreds.Token).Return(nil)
	remote.On("ProbeDataset", mock.Anything, testCreds.Token, mock.Anything).Return(nil)
	remote.On("QueryProjects", mock.Anything, testCreds.Token, "projects-db").Return(liveProjects(), nil)
	remote.On("QueryStatuses", mock.Anything, testCreds.Token, "status-db").
		Return(nil, dashboard.NewRemoteError(dashboard.ErrTimeout, "status-db", "", nil))
	remote.On("QueryUpdates", mock.Anything, testCreds.Token, "updates-db").
		Return([]dashboard.ProjectUpdate{}, nil).Maybe()
	svc, _, _ := newService(remote)

	snap := svc.Configure(context.Background(), testCreds)

	require.Equal(t, connection.StateDegraded, snap.State)
	require.Equal(t, []string{"Data fetch: request timed out"}, snap.ValidationErrors)
	require.Equal(t, dashboard.DemoProjects(), snap.Data.Projects)
}

func TestService_RefetchIsIdempotent(t *testing.T) {
	remote := &mocks.Remote{}
	expectHealthyRemote(remote)
	svc, _, acts := newService(remote)
	ctx := context.Background()

	svc.Configure(ctx, testCreds)
	require.NoError(t, svc.Refetch(ctx))
	first := svc.Data()
	require.NoError(t, svc.Refetch(ctx))
	second := svc.Data()

	require.Equal(t, first, second)
	require.Equal(t, connection.StateReady, svc.Snapshot().State)
	require.Len(t, acts.entries, 3)
	require.Equal(t, activity.TypeRefetched, acts.entries[2].ActivityType)
}

func TestService_RefetchFailureKeepsData(t *testing.T) {
	remote := &mocks.Remote{}
	remote.On("VerifyToken", mock.Anything, testCreds.Token).Return(nil)
	remote.On("ProbeDataset", mock.Anything, testCreds.Token, mock.Anything).Return(nil)
	remote.On("QueryProjects", mock.Anything, testCreds.Token, "projects-db").Return(liveProjects(), nil).Once()
	remote.On("QueryProjects", mock.Anything, testCreds.Token, "projects-db").
		Return(nil, dashboard.NewRemoteError(dashboard.ErrNetworkUnavailable, "", "", errors.New("dial tcp")))
	remote.On("QueryStatuses", mock.Anything, testCreds.Token, "status-db").Return([]dashboard.ProjectStatus{}, nil)
	remote.On("QueryUpdates", mock.Anything, testCreds.Token, "updates-db").Return([]dashboard.ProjectUpdate{}, nil)
	svc, _, acts := newService(remote)
	ctx := context.Background()

	svc.Configure(ctx, testCreds)
	before := svc.Data()

	err := svc.Refetch(ctx)
	require.ErrorIs(t, err, dashboard.ErrNetworkUnavailable)

	snap := svc.Snapshot()
	require.Equal(t, connection.StateReady, snap.State)
	require.Equal(t, before, snap.Data)
	require.Equal(t, "Refresh failed", snap.LastNotification.Title)
	require.Equal(t, activity.TypeRefetchFailed, acts.entries[len(acts.entries)-1].ActivityType)
}

func TestService_RefetchRequiresReady(t *testing.T) {
	remote := &mocks.Remote{}
	svc, _, _ := newService(remote)

	err := svc.Refetch(context.Background())
	require.ErrorIs(t, err, connection.ErrNotReady)

	svc.Configure(context.Background(), dashboard.Credentials{})
	require.Equal(t, connection.StateDegraded, svc.Snapshot().State)

	err = svc.Refetch(context.Background())
	require.ErrorIs(t, err, connection.ErrNotReady)
	remote.AssertNotCalled(t, "QueryProjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ReconfigureFromDegraded(t *testing.T) {
	remote := &mocks.Remote{}
	remote.On("VerifyToken", mock.Anything, "bad").
		Return(dashboard.NewRemoteError(dashboard.ErrInvalidCredential, "", "", nil))
	expectHealthyRemote(remote)
	svc, sink, _ := newService(remote)
	ctx := context.Background()

	bad := testCreds
	bad.Token = "bad"
	require.Equal(t, connection.StateDegraded, svc.Configure(ctx, bad).State)

	snap := svc.Configure(ctx, testCreds)
	require.Equal(t, connection.StateReady, snap.State)
	require.Empty(t, snap.ValidationErrors)
	require.Equal(t, liveProjects(), snap.Data.Projects)
	require.Len(t, sink.got, 2)
}

func TestService_ValidateCredentialsLeavesStateAlone(t *testing.T) {
	remote := &mocks.Remote{}
	svc, _, _ := newService(remote)

	errs := svc.ValidateCredentials(context.Background(), dashboard.Credentials{})
	require.Equal(t, []string{"API token is required"}, errs)

	snap := svc.Snapshot()
	require.Equal(t, connection.StateUnconfigured, snap.State)
	require.Equal(t, errs, snap.ValidationErrors)
	require.False(t, snap.ValidationInProgress)
}

func TestService_SnapshotIsACopy(t *testing.T) {
	remote := &mocks.Remote{}
	expectHealthyRemote(remote)
	svc, _, _ := newService(remote)

	snap := svc.Configure(context.Background(), testCreds)
	snap.Data.Projects[0].Name = "mutated"

	require.Equal(t, "Live One", svc.Data().Projects[0].Name)
}
