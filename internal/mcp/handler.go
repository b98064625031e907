package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

// Handler implements the MCP tools on top of a Board.
type Handler struct {
	board  Board
	logger *slog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(b Board, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{board: b, logger: logger}
}

func (h *Handler) Configure(ctx context.Context, req CredentialsParams) (any, error) {
	state := h.board.Configure(ctx, req.credentials())
	h.logger.Info("configured via mcp", "owner", getOwner(ctx), "state", state.State)
	return state, nil
}

func (h *Handler) ValidateCredentials(ctx context.Context, req CredentialsParams) (any, error) {
	return h.board.Validate(ctx, req.credentials()), nil
}

func (h *Handler) GetConnectionState(_ context.Context, _ EmptyParams) (any, error) {
	return h.board.State(), nil
}

func (h *Handler) GetDashboard(_ context.Context, _ EmptyParams) (any, error) {
	return h.board.Dashboard(), nil
}

func (h *Handler) ListProjects(_ context.Context, req ListProjectsParams) (any, error) {
	query, err := dashboard.NewProjectQuery(req.Search, req.RAGStatus, req.Period, req.SortBy, req.Departments)
	if err != nil {
		return nil, err
	}
	projects := h.board.Projects(query)
	return ListProjectsResponse{Count: len(projects), Projects: projects}, nil
}

func (h *Handler) GetProject(_ context.Context, req GetProjectParams) (any, error) {
	if req.ID == "" {
		return nil, &APIError{Code: "INVALID_INPUT", Message: "id is required"}
	}
	return h.board.Project(req.ID)
}

func (h *Handler) GetMetrics(_ context.Context, _ EmptyParams) (any, error) {
	return h.board.Metrics(), nil
}

func (h *Handler) Refetch(ctx context.Context, _ EmptyParams) (any, error) {
	state, err := h.board.Refetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("refetch: %w", err)
	}
	return state, nil
}

func (h *Handler) GetRecentActivity(ctx context.Context, req GetRecentActivityParams) (any, error) {
	if req.Limit < 0 || req.Offset < 0 {
		return nil, &APIError{Code: "INVALID_INPUT", Message: "limit and offset must be non-negative"}
	}
	opts := activity.ListActivityOptions{
		AttemptID: req.AttemptID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if req.Type != "" {
		typ := activity.ActivityType(req.Type)
		opts.ActivityType = &typ
	}
	entries, err := h.board.RecentActivity(ctx, opts)
	if err != nil {
		return nil, err
	}
	return RecentActivityResponse{Entries: entries}, nil
}
