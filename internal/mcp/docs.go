package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `ragboard serves a Red/Amber/Green project health dashboard read from three workspace databases (projects, project status, weekly updates).

Connection states:
- unconfigured: no credentials yet; the dataset is empty.
- configuring: an attempt is validating credentials and fetching.
- ready: live data is loaded.
- degraded: the last attempt failed; eight demonstration projects are served and validation_errors says why.

Workflow:
1) get_connection_state to see where things stand.
2) If unconfigured or degraded, validate_credentials then configure.
3) Read with get_dashboard, list_projects, get_project and get_metrics.
4) refetch reloads live data and only works in the ready state.
5) get_recent_activity lists the notifications raised by attempts and refreshes.

Docs:
- ragboard://docs/index
- ragboard://docs/data-model
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "ragboard://docs/index",
		Name:        "docs_index",
		Title:       "ragboard docs index",
		Description: "What the tools do and when demonstration data is served.",
		Content: `# ragboard

## Tools

- ` + "`configure`" + ` applies credentials. The token is checked first; if it is rejected the three databases are not probed. Otherwise every database is probed and all failures are reported together.
- ` + "`validate_credentials`" + ` runs the same checks without changing state.
- ` + "`refetch`" + ` reloads the three databases with the credentials of the current connection. On failure the previous data stays.

## Demonstration data

Any failed check or fetch switches the server to the degraded state with a fixed set of eight projects (Project Alpha, id "1", through Project Theta, id "8"). ` + "`is_using_fallback_data`" + ` is true while they are shown. Configure again to leave this state; there is no automatic retry.

## Limits

Only the first page (up to 100 rows) of each database is read.
`,
	},
	{
		URI:         "ragboard://docs/data-model",
		Name:        "docs_data_model",
		Title:       "ragboard data model",
		Description: "Fields of projects, status records and weekly updates, and their defaults.",
		Content: `# Data model

## Project

` + "`id`, `code`, `name`, `description`, `owners`, `departments`, `start_date`, `end_date`, `rag_status` (red|amber|green), `danger_score`, `last_updated`, `recent_trend`, `status_update`, `health_metrics`" + `

Unknown RAG labels read as green. A missing status date falls back to the page edit time. ` + "`health_metrics`" + ` is omitted when the page carries no score properties.

## Status record

One per project (` + "`project_id`" + `), with danger category and score, manager, tech lead, week contexts and ` + "`updates`" + `.

## Weekly update

Linked to a status record by ` + "`project_status_id`" + `. Updates that point at no known status record are dropped. Within a status record updates keep the order in which the workspace returned them.

## Overview

` + "`critical_issues`" + ` counts red projects, ` + "`at_risk`" + ` amber, ` + "`healthy_projects`" + ` green. ` + "`recent_updates`" + ` counts projects updated in the last 24 hours.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
