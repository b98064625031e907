package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/ragboard/internal/domain/board"
	"github.com/rpggio/ragboard/internal/domain/connection"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

// APIError represents an MCP tool error payload.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, connection.ErrNotReady):
		return &APIError{Code: "NOT_READY", Message: err.Error(), RecoveryHint: "Call configure with valid credentials first"}
	case errors.Is(err, connection.ErrSuperseded):
		return &APIError{Code: "SUPERSEDED", Message: err.Error(), RecoveryHint: "Read get_connection_state for the newer configuration"}
	case errors.Is(err, board.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: err.Error(), RecoveryHint: "Use list_projects to find IDs"}
	case errors.Is(err, dashboard.ErrInvalidQuery):
		return &APIError{Code: "INVALID_QUERY", Message: err.Error()}
	case errors.Is(err, dashboard.ErrInvalidCredential),
		errors.Is(err, dashboard.ErrDatasetNotFound),
		errors.Is(err, dashboard.ErrTimeout),
		errors.Is(err, dashboard.ErrNetworkUnavailable),
		errors.Is(err, dashboard.ErrRemoteAPI):
		return &APIError{Code: "REMOTE_ERROR", Message: dashboard.Describe("Data fetch", err), RecoveryHint: "Previously loaded data is still served"}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}

// errorResult reports a tool failure in-band so the model can read it.
func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	data, marshalErr := json.Marshal(apiErr)
	if marshalErr != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}

func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}
