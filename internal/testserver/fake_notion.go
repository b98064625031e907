package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// Credentials accepted by FakeNotion.
const (
	NotionToken      = "secret_test"
	ProjectsDatabase = "projects-db"
	StatusDatabase   = "status-db"
	UpdatesDatabase  = "updates-db"
)

// FakeNotion serves the subset of the Notion API the dashboard reads, with
// two projects, one status record and two weekly updates.
type FakeNotion struct {
	server  *httptest.Server
	queries atomic.Int64
	// FailQueries makes every database query return a 500.
	FailQueries atomic.Bool
}

func NewFakeNotion(t *testing.T) *FakeNotion {
	t.Helper()
	f := &FakeNotion{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", f.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{"object":"user","id":"bot-1","type":"bot","name":"ragboard"}`)
	}))
	mux.HandleFunc("GET /databases/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := databasePages[id]; !ok {
			writeNotFound(w, id)
			return
		}
		writeBody(w, http.StatusOK, `{"object":"database","id":"`+id+`","title":[{"plain_text":"`+id+`"}]}`)
	}))
	mux.HandleFunc("POST /databases/{id}/query", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.queries.Add(1)
		id := r.PathValue("id")
		pages, ok := databasePages[id]
		if !ok {
			writeNotFound(w, id)
			return
		}
		if f.FailQueries.Load() {
			writeBody(w, http.StatusInternalServerError, `{"object":"error","status":500,"code":"internal_server_error","message":"unavailable"}`)
			return
		}
		writeBody(w, http.StatusOK, `{"object":"list","results":[`+strings.Join(pages, ",")+`],"next_cursor":null,"has_more":false}`)
	}))
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeNotion) URL() string {
	return f.server.URL
}

// Queries reports how many database queries were served.
func (f *FakeNotion) Queries() int {
	return int(f.queries.Load())
}

// Credentials returns configure arguments FakeNotion accepts.
func Credentials() map[string]any {
	return map[string]any{
		"token":                NotionToken,
		"projects_database_id": ProjectsDatabase,
		"status_database_id":   StatusDatabase,
		"updates_database_id":  UpdatesDatabase,
	}
}

func (f *FakeNotion) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+NotionToken {
			writeBody(w, http.StatusUnauthorized, `{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`)
			return
		}
		next(w, r)
	}
}

func writeNotFound(w http.ResponseWriter, id string) {
	msg, _ := json.Marshal("Could not find database with ID: " + id)
	writeBody(w, http.StatusNotFound, `{"object":"error","status":404,"code":"object_not_found","message":`+string(msg)+`}`)
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

var databasePages = map[string][]string{
	ProjectsDatabase: {
		`{
  "object": "page", "id": "proj-apollo", "last_edited_time": "2024-03-19T10:00:00.000Z",
  "properties": {
    "Project_Code": {"type": "rich_text", "rich_text": [{"plain_text": "AP-1"}]},
    "Project_Name": {"type": "title", "title": [{"plain_text": "Apollo"}]},
    "Status_Reporters": {"type": "people", "people": [{"id": "u1", "name": "Jade"}]},
    "Group": {"type": "formula", "formula": {"type": "string", "string": "Engineering"}},
    "RAG_Status": {"type": "rollup", "rollup": {"type": "array", "array": [{"type": "select", "select": {"name": "Red"}}]}},
    "RAG_Danger_Score": {"type": "rollup", "rollup": {"type": "array", "array": [{"type": "formula", "formula": {"type": "number", "number": 9}}]}},
    "RAG_Status_Date": {"type": "rollup", "rollup": {"type": "array", "array": [{"type": "date", "date": {"start": "2024-03-18"}}]}}
  }
}`,
		`{
  "object": "page", "id": "proj-borealis", "last_edited_time": "2024-03-12T10:00:00.000Z",
  "properties": {
    "Project_Code": {"type": "rich_text", "rich_text": [{"plain_text": "BO-2"}]},
    "Project_Name": {"type": "title", "title": [{"plain_text": "Borealis"}]},
    "Status_Reporters": {"type": "people", "people": [{"id": "u2", "name": "Alex"}]},
    "Group": {"type": "formula", "formula": {"type": "string", "string": "Operations"}},
    "RAG_Status": {"type": "rollup", "rollup": {"type": "array", "array": [{"type": "select", "select": {"name": "Green"}}]}},
    "RAG_Danger_Score": {"type": "rollup", "rollup": {"type": "array", "array": [{"type": "formula", "formula": {"type": "number", "number": 2}}]}}
  }
}`,
	},
	StatusDatabase: {
		`{
  "object": "page", "id": "status-apollo", "last_edited_time": "2024-03-19T10:00:00.000Z",
  "properties": {
    "Project": {"type": "relation", "relation": [{"id": "proj-apollo"}]},
    "RAG_Danger_Category": {"type": "formula", "formula": {"type": "string", "string": "Critical"}},
    "RAG_Danger_Score": {"type": "formula", "formula": {"type": "number", "number": 9}}
  }
}`,
	},
	UpdatesDatabase: {
		`{
  "object": "page", "id": "update-1", "last_edited_time": "2024-03-18T10:00:00.000Z",
  "properties": {
    "Date": {"type": "date", "date": {"start": "2024-03-18"}},
    "RAG_Status": {"type": "select", "select": {"name": "Red"}},
    "Status_Context": {"type": "rich_text", "rich_text": [{"plain_text": "Vendor outage"}]},
    "Project_status": {"type": "relation", "relation": [{"id": "status-apollo"}]}
  }
}`,
		`{
  "object": "page", "id": "update-orphan", "last_edited_time": "2024-03-18T10:00:00.000Z",
  "properties": {
    "Date": {"type": "date", "date": {"start": "2024-03-18"}},
    "Project_status": {"type": "relation", "relation": [{"id": "status-missing"}]}
  }
}`,
	},
}
