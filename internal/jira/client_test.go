package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/clintrovert/scopesync/pkg/types"
)

type fakeJira struct {
	router      chi.Router
	lastIssue   map[string]interface{}
	lastSprint  map[string]interface{}
	assigned    map[string][]string
	authHeaders []string
}

func newFakeJira(t *testing.T) (*fakeJira, *Client) {
	t.Helper()

	f := &fakeJira{router: chi.NewRouter(), assigned: map[string][]string{}}
	f.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
			next.ServeHTTP(w, r)
		})
	})

	f.router.Get("/rest/api/3/project/{key}/statuses", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "key") != "ABC" {
			http.Error(w, `{"errorMessages":["No project could be found"]}`, http.StatusNotFound)
			return
		}
		writeJSON(w, []map[string]interface{}{
			{"name": "Epic", "subtask": false},
			{"name": "Story", "subtask": false},
			{"name": "Subtask", "subtask": true},
		})
	})
	f.router.Post("/rest/api/3/issue", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastIssue))
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]string{"id": "10001", "key": "ABC-1"})
	})
	f.router.Get("/rest/agile/1.0/board", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("projectKeyOrId") != "ABC" {
			writeJSON(w, map[string]interface{}{"values": []interface{}{}})
			return
		}
		writeJSON(w, map[string]interface{}{"values": []map[string]interface{}{{"id": 7, "name": "ABC board"}}})
	})
	f.router.Post("/rest/agile/1.0/sprint", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastSprint))
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]interface{}{"id": 42})
	})
	f.router.Post("/rest/agile/1.0/sprint/{id}/issue", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Issues []string `json:"issues"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		id := chi.URLParam(r, "id")
		f.assigned[id] = append(f.assigned[id], body.Issues...)
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(f.router)
	t.Cleanup(server.Close)

	client, err := NewClient(types.JiraCredentials{
		URL:        server.URL,
		Email:      "po@example.com",
		APIToken:   "secret",
		ProjectKey: "ABC",
	}, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)

	return f, client
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_RequiresCompleteCredentials(t *testing.T) {
	_, err := NewClient(types.JiraCredentials{URL: "https://example.atlassian.net"}, 0, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestListIssueTypes(t *testing.T) {
	f, client := newFakeJira(t)

	names, err := client.ListIssueTypes(context.Background(), "ABC")
	require.NoError(t, err)
	assert.Equal(t, []string{"epic", "story", "subtask"}, names)

	require.NotEmpty(t, f.authHeaders)
	// base64("po@example.com:secret")
	assert.Equal(t, "Basic cG9AZXhhbXBsZS5jb206c2VjcmV0", f.authHeaders[0])
}

func TestListIssueTypes_NotFoundIsValidationError(t *testing.T) {
	_, client := newFakeJira(t)

	_, err := client.ListIssueTypes(context.Background(), "NOPE")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, http.StatusNotFound, verr.StatusCode)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnavailable(err))
}

func TestCreateIssue_SendsDocumentDescription(t *testing.T) {
	f, client := newFakeJira(t)

	issue, err := client.CreateIssue(context.Background(), "ABC", "Login screen", "body text", "Story")
	require.NoError(t, err)
	assert.Equal(t, types.RemoteIssue{Key: "ABC-1", ID: "10001"}, issue)

	fields := f.lastIssue["fields"].(map[string]interface{})
	assert.Equal(t, "Login screen", fields["summary"])
	assert.Equal(t, map[string]interface{}{"key": "ABC"}, fields["project"])
	assert.Equal(t, map[string]interface{}{"name": "Story"}, fields["issuetype"])

	desc := fields["description"].(map[string]interface{})
	assert.Equal(t, "doc", desc["type"])
	assert.EqualValues(t, 1, desc["version"])
	paragraph := desc["content"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "paragraph", paragraph["type"])
	text := paragraph["content"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "body text", text["text"])
}

func TestGetBoardID(t *testing.T) {
	_, client := newFakeJira(t)

	id, ok, err := client.GetBoardID(context.Background(), "ABC")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, id)

	_, ok, err = client.GetBoardID(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateSprintAndAssign(t *testing.T) {
	f, client := newFakeJira(t)

	id, err := client.CreateSprint(context.Background(), 7, "Sprint 1", "2025-09-01T00:00:00.000Z", "2025-09-15T00:00:00.000Z", "MVP")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, "Sprint 1", f.lastSprint["name"])
	assert.EqualValues(t, 7, f.lastSprint["originBoardId"])
	assert.Equal(t, "MVP", f.lastSprint["goal"])

	require.NoError(t, client.AssignIssueToSprint(context.Background(), 42, "ABC-1"))
	assert.Equal(t, []string{"ABC-1"}, f.assigned["42"])
}

func TestUnreachableHostIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(types.JiraCredentials{URL: url, Email: "a", APIToken: "b"}, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = client.ListIssueTypes(context.Background(), "ABC")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}
