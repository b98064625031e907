package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ragboard/internal/config"
	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/board"
	"github.com/rpggio/ragboard/internal/domain/connection"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
	"github.com/rpggio/ragboard/internal/mcp"
	"github.com/rpggio/ragboard/internal/notion"
	"github.com/rpggio/ragboard/internal/sqlite"
	"github.com/rpggio/ragboard/internal/transport"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		logFile, err := openCappedLogFile(cfg.Log.Path, maxLogSizeBytes, keepLogSizeBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer logFile.Close()
			logWriter = logFile
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	resolver := transport.NewKeyResolver(sqlite.NewAPIKeyRepository(db))

	client := notion.NewClient(notion.Options{
		BaseURL: cfg.Notion.BaseURL,
		Version: cfg.Notion.Version,
		Timeout: cfg.Notion.Timeout,
		Logger:  logger,
	})
	source := notion.NewSource(client, logger)

	conn := connection.NewService(
		dashboard.NewValidator(source, logger),
		dashboard.NewFetcher(source, logger),
		client,
		activitySvc,
		logger,
	)
	boardSvc := board.NewService(conn, activitySvc, logger)

	if cfg.Notion.HasCredentials() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*cfg.Notion.Timeout)
		state := boardSvc.Configure(ctx, cfg.Notion.Credentials())
		cancel()
		logger.Info("configured from environment", "state", state.State, "errors", len(state.ValidationErrors))
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Board:         boardSvc,
		Resolver:      resolver,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	var auth func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(resolver)
	}
	runHTTPMode(logger, mcpServer, transport.Options{
		Board:  boardSvc,
		Auth:   auth,
		Logger: logger,
	}, cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, opts transport.Options, host string, port int) {
	opts.MCP = sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "auth", opts.Auth != nil)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
