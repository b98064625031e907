package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/board"
	"github.com/rpggio/ragboard/internal/domain/connection"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
	"github.com/stretchr/testify/require"
)

type connStub struct {
	snap       connection.Snapshot
	validation []string
	refetchErr error
	configured []dashboard.Credentials
}

func (c *connStub) Snapshot() connection.Snapshot { return c.snap }

func (c *connStub) Configure(_ context.Context, creds dashboard.Credentials) connection.Snapshot {
	c.configured = append(c.configured, creds)
	return c.snap
}

func (c *connStub) ValidateCredentials(context.Context, dashboard.Credentials) []string {
	return c.validation
}

func (c *connStub) Refetch(context.Context) error { return c.refetchErr }

type activityStub struct {
	entries []activity.ActivityEntry
	err     error
}

func (a activityStub) GetRecentActivity(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return a.entries, a.err
}

func degradedSnapshot() connection.Snapshot {
	return connection.Snapshot{
		State:            connection.StateDegraded,
		AttemptID:        "attempt-1",
		Credentials:      dashboard.Credentials{Token: "secret", ProjectsDatabaseID: "p"},
		Data:             dashboard.DemoDataset(),
		ValidationErrors: []string{"API token: invalid credential"},
		UpdatedAt:        time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestService_State(t *testing.T) {
	svc := board.NewService(&connStub{snap: degradedSnapshot()}, nil, nil)

	state := svc.State()
	require.Equal(t, connection.StateDegraded, state.State)
	require.True(t, state.IsConfigured)
	require.True(t, state.IsUsingFallbackData)
	require.False(t, state.IsConfiguring)
	require.Equal(t, "p", state.ProjectsDatabaseID)
	require.Equal(t, []string{"API token: invalid credential"}, state.ValidationErrors)
	require.NotNil(t, state.UpdatedAt)
}

func TestService_StateUnconfigured(t *testing.T) {
	svc := board.NewService(&connStub{snap: connection.Snapshot{State: connection.StateUnconfigured}}, nil, nil)

	state := svc.State()
	require.False(t, state.IsConfigured)
	require.NotNil(t, state.ValidationErrors)
	require.Nil(t, state.UpdatedAt)
}

func TestService_Validate(t *testing.T) {
	conn := &connStub{validation: []string{}}
	svc := board.NewService(conn, nil, nil)
	require.True(t, svc.Validate(context.Background(), dashboard.Credentials{}).Valid)

	conn.validation = []string{"API token is required"}
	result := svc.Validate(context.Background(), dashboard.Credentials{})
	require.False(t, result.Valid)
	require.Equal(t, conn.validation, result.Errors)
}

func TestService_DashboardAndProjects(t *testing.T) {
	svc := board.NewService(&connStub{snap: degradedSnapshot()}, nil, nil)

	view := svc.Dashboard()
	require.Len(t, view.Projects, 8)
	require.Equal(t, 8, view.Overview.TotalProjects)

	q, err := dashboard.NewProjectQuery("", "red", "", "danger", nil)
	require.NoError(t, err)
	projects := svc.Projects(q)
	require.Len(t, projects, 2)
	require.Equal(t, "Project Gamma", projects[0].Name)
}

func TestService_Project(t *testing.T) {
	snap := degradedSnapshot()
	snap.Data.Statuses = []dashboard.ProjectStatus{{
		ID:        "s1",
		ProjectID: "2",
		Updates:   []dashboard.ProjectUpdate{{ID: "u1", ProjectStatusID: "s1"}},
	}}
	svc := board.NewService(&connStub{snap: snap}, nil, nil)

	detail, err := svc.Project("2")
	require.NoError(t, err)
	require.Equal(t, "Project Beta", detail.Project.Name)
	require.NotNil(t, detail.Status)
	require.Len(t, detail.Status.Updates, 1)

	detail, err = svc.Project("1")
	require.NoError(t, err)
	require.Nil(t, detail.Status)

	_, err = svc.Project("nope")
	require.ErrorIs(t, err, board.ErrProjectNotFound)
}

func TestService_Metrics(t *testing.T) {
	svc := board.NewService(&connStub{snap: degradedSnapshot()}, nil, nil)

	metrics := svc.Metrics()
	require.Equal(t, 2, metrics.CriticalIssues)
	require.Len(t, metrics.ByOwner, 8)
	require.Equal(t, "Alex", metrics.ByOwner[0].Owner)
	require.Equal(t, 1, metrics.ByOwner[0].Amber)
	require.Equal(t, 3, metrics.ByDepartment["Engineering"])
}

func TestService_Refetch(t *testing.T) {
	conn := &connStub{snap: connection.Snapshot{State: connection.StateUnconfigured}, refetchErr: connection.ErrNotReady}
	svc := board.NewService(conn, nil, nil)

	state, err := svc.Refetch(context.Background())
	require.ErrorIs(t, err, connection.ErrNotReady)
	require.Equal(t, connection.StateUnconfigured, state.State)
}

func TestService_RecentActivity(t *testing.T) {
	ctx := context.Background()

	entries, err := board.NewService(&connStub{}, nil, nil).RecentActivity(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.NotNil(t, entries)

	stub := activityStub{entries: []activity.ActivityEntry{{NotificationID: "n1"}}}
	entries, err = board.NewService(&connStub{}, stub, nil).RecentActivity(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	boom := errors.New("db closed")
	_, err = board.NewService(&connStub{}, activityStub{err: boom}, nil).RecentActivity(ctx, activity.ListActivityOptions{})
	require.ErrorIs(t, err, boom)
}
