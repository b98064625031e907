package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, h *Handler) {
	addTool(server, &sdkmcp.Tool{
		Name:        "configure",
		Description: "Set workspace credentials, validate them and load the dashboard. Falls back to demonstration data when anything fails.",
	}, h.Configure)
	addTool(server, &sdkmcp.Tool{
		Name:        "validate_credentials",
		Description: "Check credentials against the workspace without applying them. Returns one message per failed check.",
	}, h.ValidateCredentials)
	addTool(server, &sdkmcp.Tool{
		Name:        "get_connection_state",
		Description: "Current connection state, validation errors and the last notification",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, h.GetConnectionState)
	addTool(server, &sdkmcp.Tool{
		Name:        "get_dashboard",
		Description: "Connection state, summary counts and every loaded project",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, h.GetDashboard)
	addTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "Search, filter and sort the loaded projects",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, h.ListProjects)
	addTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "One project with its status record and weekly updates",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, h.GetProject)
	addTool(server, &sdkmcp.Tool{
		Name:        "get_metrics",
		Description: "RAG distribution, average danger score and per-owner and per-department breakdowns",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, h.GetMetrics)
	addTool(server, &sdkmcp.Tool{
		Name:        "refetch",
		Description: "Reload the live data with the current credentials. Only available while connected; previous data is kept on failure.",
	}, h.Refetch)
	addTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Connection and refresh notifications, newest first",
		Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
	}, h.GetRecentActivity)
}

func addTool[In any](server *sdkmcp.Server, tool *sdkmcp.Tool, fn func(context.Context, In) (any, error)) {
	sdkmcp.AddTool(server, tool, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		out, err := fn(ctx, in)
		if err != nil {
			return errorResult(err), nil, nil
		}
		result, err := jsonResult(out)
		return result, nil, err
	})
}
