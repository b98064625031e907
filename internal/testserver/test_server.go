package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/board"
	"github.com/rpggio/ragboard/internal/domain/connection"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
	"github.com/rpggio/ragboard/internal/mcp"
	"github.com/rpggio/ragboard/internal/notion"
	"github.com/rpggio/ragboard/internal/repository"
	"github.com/rpggio/ragboard/internal/sqlite"
	"github.com/rpggio/ragboard/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	Notion *FakeNotion
	DB     *sqlite.DB
	Board  *board.Service
	Token  string
	Owner  string
}

// New starts the HTTP and MCP surfaces backed by an in-memory database and
// a fake Notion workspace. token is registered as an API key for owner.
func New(t *testing.T, token, owner string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	apiKeys := sqlite.NewAPIKeyRepository(db)
	resolver := transport.NewKeyResolver(apiKeys)

	fake := NewFakeNotion(t)
	client := notion.NewClient(notion.Options{BaseURL: fake.URL(), Timeout: 5 * time.Second})
	source := notion.NewSource(client, nil)

	conn := connection.NewService(
		dashboard.NewValidator(source, nil),
		dashboard.NewFetcher(source, nil),
		client,
		activitySvc,
		nil,
	)
	b := board.NewService(conn, activitySvc, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Board:         b,
		Resolver:      resolver,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)

	server := httptest.NewServer(transport.NewServer(transport.Options{
		Board: b,
		MCP:   mcpHandler,
		Auth:  transport.AuthMiddleware(resolver),
	}))

	ts := &TestServer{
		Server: server,
		Notion: fake,
		DB:     db,
		Board:  b,
		Token:  token,
		Owner:  owner,
	}

	require.NoError(t, ts.AddAPIKey(token, owner))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, owner string) error {
	return sqlite.NewAPIKeyRepository(ts.DB).Add(context.Background(), repository.APIKey{
		KeyHash:   transport.HashKey(token),
		Owner:     owner,
		CreatedAt: time.Now(),
	})
}
