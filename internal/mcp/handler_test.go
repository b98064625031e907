package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/board"
	"github.com/rpggio/ragboard/internal/domain/connection"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
	"github.com/rpggio/ragboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type activityStub struct {
	listFn func(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

func (a activityStub) GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return a.listFn(ctx, opts)
}

func newBoard(remote *mocks.Remote, acts board.ActivityReader) *board.Service {
	conn := connection.NewService(
		dashboard.NewValidator(remote, nil),
		dashboard.NewFetcher(remote, nil),
		nil, nil, nil,
	)
	return board.NewService(conn, acts, nil)
}

func degradedBoard(t *testing.T) *board.Service {
	t.Helper()
	remote := &mocks.Remote{}
	remote.On("VerifyToken", mock.Anything, "bad").
		Return(dashboard.NewRemoteError(dashboard.ErrInvalidCredential, "", "", nil))
	b := newBoard(remote, nil)
	b.Configure(context.Background(), dashboard.Credentials{Token: "bad"})
	return b
}

func TestHandler_ConfigureAndRead(t *testing.T) {
	ctx := context.Background()
	remote := &mocks.Remote{}
	remote.On("VerifyToken", mock.Anything, "bad").
		Return(dashboard.NewRemoteError(dashboard.ErrInvalidCredential, "", "", nil))
	h := NewHandler(newBoard(remote, nil), nil)

	out, err := h.Configure(ctx, CredentialsParams{Token: "bad", ProjectsDatabaseID: "p", StatusDatabaseID: "s", UpdatesDatabaseID: "u"})
	require.NoError(t, err)
	state := out.(board.StateView)
	require.True(t, state.IsUsingFallbackData)
	require.Equal(t, []string{"API token: invalid credential"}, state.ValidationErrors)

	out, err = h.ListProjects(ctx, ListProjectsParams{RAGStatus: "red", SortBy: "danger"})
	require.NoError(t, err)
	list := out.(ListProjectsResponse)
	require.Equal(t, 2, list.Count)
	require.Equal(t, "Project Gamma", list.Projects[0].Name)

	out, err = h.GetProject(ctx, GetProjectParams{ID: "2"})
	require.NoError(t, err)
	require.Equal(t, "Project Beta", out.(*board.ProjectDetail).Project.Name)

	out, err = h.GetMetrics(ctx, EmptyParams{})
	require.NoError(t, err)
	require.Equal(t, 8, out.(board.MetricsView).TotalProjects)
}

func TestHandler_Errors(t *testing.T) {
	ctx := context.Background()
	h := NewHandler(degradedBoard(t), nil)

	_, err := h.ListProjects(ctx, ListProjectsParams{Period: "decade"})
	require.Equal(t, "INVALID_QUERY", MapError(err).Code)

	_, err = h.GetProject(ctx, GetProjectParams{ID: "missing"})
	require.Equal(t, "PROJECT_NOT_FOUND", MapError(err).Code)

	_, err = h.GetProject(ctx, GetProjectParams{})
	require.Equal(t, "INVALID_INPUT", MapError(err).Code)

	_, err = h.Refetch(ctx, EmptyParams{})
	require.ErrorIs(t, err, connection.ErrNotReady)
	require.Equal(t, "NOT_READY", MapError(err).Code)

	_, err = h.GetRecentActivity(ctx, GetRecentActivityParams{Limit: -1})
	require.Equal(t, "INVALID_INPUT", MapError(err).Code)
}

func TestHandler_GetRecentActivity(t *testing.T) {
	ctx := context.Background()
	var got activity.ListActivityOptions
	acts := activityStub{listFn: func(_ context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
		got = opts
		return []activity.ActivityEntry{{NotificationID: "n1", ActivityType: activity.TypeConnected}}, nil
	}}
	h := NewHandler(newBoard(&mocks.Remote{}, acts), nil)

	out, err := h.GetRecentActivity(ctx, GetRecentActivityParams{Type: "connected", Limit: 5})
	require.NoError(t, err)
	require.Len(t, out.(RecentActivityResponse).Entries, 1)
	require.Equal(t, 5, got.Limit)
	require.NotNil(t, got.ActivityType)
	require.Equal(t, activity.TypeConnected, *got.ActivityType)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))

	remote := dashboard.NewRemoteError(dashboard.ErrTimeout, "", "", nil)
	apiErr := MapError(remote)
	require.Equal(t, "REMOTE_ERROR", apiErr.Code)
	require.Equal(t, "Data fetch: request timed out", apiErr.Message)

	require.Equal(t, "INTERNAL", MapError(errors.New("boom")).Code)
}

func connectClient(t *testing.T, b Board) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(Config{Board: b, TransportMode: "stdio"})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func toolText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServer_ToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	cs := connectClient(t, degradedBoard(t))

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{
		"configure", "validate_credentials", "get_connection_state", "get_dashboard",
		"list_projects", "get_project", "get_metrics", "refetch", "get_recent_activity",
	} {
		require.True(t, names[name], "missing tool %s", name)
	}

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "list_projects",
		Arguments: map[string]any{"search": "alpha"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	var list ListProjectsResponse
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &list))
	require.Equal(t, 1, list.Count)
	require.Equal(t, "1", list.Projects[0].ID)

	res, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{Name: "refetch", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.True(t, res.IsError)
	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &apiErr))
	require.Equal(t, "NOT_READY", apiErr.Code)

	res, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{Name: "get_connection_state", Arguments: map[string]any{}})
	require.NoError(t, err)
	var state board.StateView
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &state))
	require.Equal(t, connection.StateDegraded, state.State)
}

func TestServer_DocResources(t *testing.T) {
	ctx := context.Background()
	cs := connectClient(t, degradedBoard(t))

	res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "ragboard://docs/index"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "Demonstration data")
}

func TestFormatPayloadRedactsToken(t *testing.T) {
	out := formatPayload(map[string]any{
		"name":      "configure",
		"arguments": map[string]any{"token": "secret_abc", "projects_database_id": "p"},
	})
	require.NotContains(t, out, "secret_abc")
	require.Contains(t, out, "[redacted]")
	require.Contains(t, out, `"projects_database_id":"p"`)
}

type resolverStub map[string]string

func (r resolverStub) ResolveOwner(_ context.Context, token string) (string, error) {
	owner, ok := r[token]
	if !ok {
		return "", errors.New("unknown key")
	}
	return owner, nil
}

func TestAuthMiddleware(t *testing.T) {
	ctx := context.Background()
	var seen string
	next := func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
		seen = getOwner(ctx)
		return &sdkmcp.CallToolResult{}, nil
	}
	handler := authMiddleware(resolverStub{"k1": "alice"})(next)

	withHeader := func(auth string) *sdkmcp.CallToolRequest {
		header := http.Header{}
		if auth != "" {
			header.Set("Authorization", auth)
		}
		return &sdkmcp.CallToolRequest{Extra: &sdkmcp.RequestExtra{Header: header}}
	}

	_, err := handler(ctx, "tools/call", withHeader("bearer k1"))
	require.NoError(t, err)
	require.Equal(t, "alice", seen)

	_, err = handler(ctx, "tools/call", withHeader(""))
	require.ErrorContains(t, err, "missing bearer token")

	_, err = handler(ctx, "tools/call", withHeader("Bearer nope"))
	require.ErrorContains(t, err, "unauthorized")

	seen = ""
	_, err = handler(ctx, "initialize", &sdkmcp.InitializeRequest{})
	require.NoError(t, err)
	require.Empty(t, seen)
}
