package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/board"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

// Board defines the dashboard operations needed by MCP.
type Board interface {
	State() board.StateView
	Configure(ctx context.Context, creds dashboard.Credentials) board.StateView
	Validate(ctx context.Context, creds dashboard.Credentials) board.ValidationResult
	Refetch(ctx context.Context) (board.StateView, error)
	Dashboard() board.DashboardView
	Projects(q dashboard.ProjectQuery) []dashboard.Project
	Project(id string) (*board.ProjectDetail, error)
	Metrics() board.MetricsView
	RecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Config contains server configuration.
type Config struct {
	Board         Board
	Resolver      OwnerResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "ragboard",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only and never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(defaultOwner))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Board, cfg.Logger))

	return server
}
