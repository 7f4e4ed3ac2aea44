package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/clintrovert/scopesync/internal/po"
	"github.com/clintrovert/scopesync/internal/project"
	"github.com/clintrovert/scopesync/internal/temporal"
	"github.com/clintrovert/scopesync/internal/temporal/workflows"
	"github.com/clintrovert/scopesync/pkg/types"
)

type credentialMap map[string]types.JiraCredentials

func (m credentialMap) Credentials(_ context.Context, id string) (types.JiraCredentials, error) {
	creds, ok := m[id]
	if !ok {
		return types.JiraCredentials{}, fmt.Errorf("project %q: %w", id, project.ErrNotFound)
	}
	return creds, nil
}

type okSynthesizer struct{}

func (okSynthesizer) Synthesize(_ context.Context, creds types.JiraCredentials, model types.Analysis) types.SyncReport {
	if !creds.Complete() {
		return types.SyncReport{Success: false, Message: "credenciais do Jira não configuradas para este projeto"}
	}
	return types.SyncReport{Success: true, Message: "ok", Data: &types.SyncCounts{Stories: len(model.UserStories)}}
}

// knownJobs answers for a single workflow id
type knownJobs struct{ id string }

func (k knownJobs) StartSynthesis(context.Context, workflows.SynthesisInput) (string, error) {
	return k.id, nil
}

func (k knownJobs) GetStatus(_ context.Context, id string) (types.JobStatus, error) {
	if id != k.id {
		return types.JobStatus{}, fmt.Errorf("%s: %w", id, temporal.ErrWorkflowNotFound)
	}
	return types.JobStatus{WorkflowID: id, Status: "running"}, nil
}

func (k knownJobs) CancelWorkflow(_ context.Context, id string) error {
	if id != k.id {
		return fmt.Errorf("%s: %w", id, temporal.ErrWorkflowNotFound)
	}
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	return newTestServerWithJobs(t, nil)
}

func newTestServerWithJobs(t *testing.T, jobs po.JobRunner) *httptest.Server {
	t.Helper()
	creds := credentialMap{
		"p-1":     {URL: "https://x", Email: "e", APIToken: "t", ProjectKey: "ABC"},
		"p-empty": {},
	}
	readers := func(types.JiraCredentials) (po.DashboardReader, error) { return nil, fmt.Errorf("unused") }
	service := po.NewService(creds, okSynthesizer{}, readers, jobs, zaptest.NewLogger(t))

	router := chi.NewRouter()
	router.Route("/api/v1", NewHandler(service, zaptest.NewLogger(t)).RegisterRoutes)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

const doc = "STORIES:\nAUTH-1|Login|desc|ac|EPIC-1|SPRINT-1|8h|5|High|01/09/2025|05/09/2025|NONE\n"

func TestProcessAnalysis(t *testing.T) {
	server := newTestServer(t)

	resp, body := post(t, server.URL+"/api/v1/po/process-analysis", ProcessAnalysisRequest{AnalysisText: doc, ProjectID: "p-1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]interface{}{"epics": 0.0, "sprints": 0.0, "stories": 1.0}, body["data"])
}

func TestProcessAnalysis_MissingCredentialsIsReported(t *testing.T) {
	server := newTestServer(t)

	resp, body := post(t, server.URL+"/api/v1/po/process-analysis", ProcessAnalysisRequest{AnalysisText: doc, ProjectID: "p-empty"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestProcessAnalysis_Validation(t *testing.T) {
	server := newTestServer(t)

	resp, _ := post(t, server.URL+"/api/v1/po/process-analysis", ProcessAnalysisRequest{AnalysisText: doc})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, server.URL+"/api/v1/po/process-analysis", ProcessAnalysisRequest{AnalysisText: doc, ProjectID: "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestParseAnalysis(t *testing.T) {
	server := newTestServer(t)

	resp, body := post(t, server.URL+"/api/v1/po/parse-analysis", ParseAnalysisRequest{AnalysisText: doc})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	stories := body["userStories"].([]interface{})
	require.Len(t, stories, 1)
	assert.Equal(t, "AUTH-1", stories[0].(map[string]interface{})["id"])
}

func TestJiraStatus(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/po/projects/p-1/jira-status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var status po.CredentialStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, po.CredentialStatus{HasCredentials: true, ProjectKey: "ABC"}, status)
}

func TestAsyncDisabled(t *testing.T) {
	server := newTestServer(t)

	resp, _ := post(t, server.URL+"/api/v1/po/process-analysis/async", ProcessAnalysisRequest{AnalysisText: doc, ProjectID: "p-1"})
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	jobResp, err := http.Get(server.URL + "/api/v1/po/jobs/abc")
	require.NoError(t, err)
	jobResp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, jobResp.StatusCode)
}

func TestCancelJob(t *testing.T) {
	server := newTestServerWithJobs(t, knownJobs{id: "synthesis-1"})

	cancel := func(id string) int {
		req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/po/jobs/"+id, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, cancel("synthesis-1"))
	assert.Equal(t, http.StatusNotFound, cancel("missing"))
}
