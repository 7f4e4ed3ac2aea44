package po

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/clintrovert/scopesync/internal/analysis"
	"github.com/clintrovert/scopesync/internal/jira"
	"github.com/clintrovert/scopesync/internal/project"
	"github.com/clintrovert/scopesync/internal/synth"
	"github.com/clintrovert/scopesync/internal/temporal/workflows"
	"github.com/clintrovert/scopesync/pkg/types"
)

var fullCreds = types.JiraCredentials{URL: "https://x", Email: "e", APIToken: "t", ProjectKey: "ABC"}

type credentialMap map[string]types.JiraCredentials

func (m credentialMap) Credentials(_ context.Context, id string) (types.JiraCredentials, error) {
	creds, ok := m[id]
	if !ok {
		return types.JiraCredentials{}, fmt.Errorf("project %q: %w", id, project.ErrNotFound)
	}
	return creds, nil
}

type fakeSynthesizer struct {
	calls int
	model types.Analysis
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, _ types.JiraCredentials, model types.Analysis) types.SyncReport {
	f.calls++
	f.model = model
	return types.SyncReport{Success: true, Data: &types.SyncCounts{Stories: len(model.UserStories)}}
}

type fakeJobs struct {
	started []workflows.SynthesisInput
}

func (f *fakeJobs) StartSynthesis(_ context.Context, input workflows.SynthesisInput) (string, error) {
	f.started = append(f.started, input)
	return "synthesis-1", nil
}

func (f *fakeJobs) GetStatus(_ context.Context, id string) (types.JobStatus, error) {
	return types.JobStatus{WorkflowID: id, Status: "running"}, nil
}

func (f *fakeJobs) CancelWorkflow(context.Context, string) error {
	return nil
}

type fakeReader struct {
	projectErr error
	boardErr   error
	issues     []types.TrackerIssue
	sprints    []types.TrackerSprint
}

func (f *fakeReader) GetProject(_ context.Context, key string) (types.TrackerProject, error) {
	return types.TrackerProject{Key: key, Name: "Portal"}, f.projectErr
}

func (f *fakeReader) GetBoardID(context.Context, string) (int, bool, error) {
	return 3, f.boardErr == nil, f.boardErr
}

func (f *fakeReader) GetSprints(context.Context, int) ([]types.TrackerSprint, error) {
	return f.sprints, nil
}

func (f *fakeReader) SearchIssues(context.Context, string) ([]types.TrackerIssue, error) {
	return f.issues, nil
}

func newTestService(t *testing.T, reader *fakeReader, jobs JobRunner) (*Service, *fakeSynthesizer) {
	t.Helper()
	synthesizer := &fakeSynthesizer{}
	readers := func(types.JiraCredentials) (DashboardReader, error) { return reader, nil }
	noKey := fullCreds
	noKey.ProjectKey = ""
	creds := credentialMap{"p-1": fullCreds, "p-empty": {}, "p-nokey": noKey}
	s := NewService(creds, synthesizer, readers, jobs, zaptest.NewLogger(t))
	s.now = func() time.Time { return time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC) }
	return s, synthesizer
}

const doc = "STORIES:\nAUTH-1|Login|desc|ac|EPIC-1|SPRINT-1|8h|5|High|01/09/2025|05/09/2025|NONE\n"

func TestProcessAnalysis(t *testing.T) {
	s, synthesizer := newTestService(t, &fakeReader{}, nil)

	report, err := s.ProcessAnalysis(context.Background(), doc, "p-1")
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, 1, synthesizer.calls)
	require.Len(t, synthesizer.model.UserStories, 1)
	assert.Equal(t, "AUTH-1", synthesizer.model.UserStories[0].ID)
}

func TestProcessAnalysis_UnknownProject(t *testing.T) {
	s, synthesizer := newTestService(t, &fakeReader{}, nil)

	_, err := s.ProcessAnalysis(context.Background(), doc, "missing")
	assert.True(t, errors.Is(err, project.ErrNotFound))
	assert.Zero(t, synthesizer.calls)
}

func TestCredentialStatus(t *testing.T) {
	s, _ := newTestService(t, &fakeReader{}, nil)

	status, err := s.CredentialStatus(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, CredentialStatus{HasCredentials: true, ProjectKey: "ABC"}, status)

	status, err = s.CredentialStatus(context.Background(), "p-empty")
	require.NoError(t, err)
	assert.False(t, status.HasCredentials)
	assert.Equal(t, synth.ErrMissingCredentials.Error(), status.Message)

	status, err = s.CredentialStatus(context.Background(), "p-nokey")
	require.NoError(t, err)
	assert.False(t, status.HasCredentials)
	assert.Equal(t, synth.ErrMissingProjectKey.Error(), status.Message)
}

func TestStartAsync(t *testing.T) {
	s, _ := newTestService(t, &fakeReader{}, nil)
	_, err := s.StartAsync(context.Background(), doc, "p-1")
	assert.ErrorIs(t, err, ErrAsyncDisabled)

	jobs := &fakeJobs{}
	s, synthesizer := newTestService(t, &fakeReader{}, jobs)
	id, err := s.StartAsync(context.Background(), doc, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "synthesis-1", id)
	require.Len(t, jobs.started, 1)
	assert.Equal(t, "p-1", jobs.started[0].ProjectID)
	assert.Len(t, jobs.started[0].Analysis.UserStories, 1)
	assert.Zero(t, synthesizer.calls)

	status, err := s.JobStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "running", status.Status)
}

func TestDashboard(t *testing.T) {
	resolved := time.Date(2025, 9, 25, 0, 0, 0, 0, time.UTC)
	reader := &fakeReader{
		sprints: []types.TrackerSprint{{Name: "Sprint 1", State: "closed"}},
		issues: []types.TrackerIssue{
			{Key: "ABC-1", Status: "Done", StoryPoints: 5, Sprint: "Sprint 1",
				Created: resolved.AddDate(0, 0, -2), Updated: resolved, Resolved: &resolved},
			{Key: "ABC-2", Status: "To Do", Created: resolved, Updated: resolved},
		},
	}
	s, _ := newTestService(t, reader, nil)

	d, err := s.Dashboard(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Portal", d.Project.Name)
	assert.Len(t, d.Sprints, 1)
	assert.Equal(t, 2, d.Metrics.TotalIssues)
	assert.Equal(t, 50, d.Metrics.CompletionRate)
	assert.Equal(t, 5, d.Metrics.AverageVelocity)
	assert.Equal(t, 1, d.Metrics.RecentCompletedIssues)
}

func TestDashboard_BoardFailureKeepsGoing(t *testing.T) {
	s, _ := newTestService(t, &fakeReader{boardErr: errors.New("agile api disabled")}, nil)

	d, err := s.Dashboard(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Empty(t, d.Sprints)
	assert.NotNil(t, d.Issues)
}

func TestDashboard_Errors(t *testing.T) {
	s, _ := newTestService(t, &fakeReader{}, nil)
	_, err := s.Dashboard(context.Background(), "p-empty")
	assert.ErrorIs(t, err, synth.ErrMissingCredentials)

	unauthorized := &jira.ValidationError{Op: "get project", StatusCode: 401, Err: errors.New("denied")}
	s, _ = newTestService(t, &fakeReader{projectErr: unauthorized}, nil)
	_, err = s.Dashboard(context.Background(), "p-1")
	var readErr *TrackerReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "Credenciais do Jira inválidas", readErr.Message)

	unreachable := &jira.UnavailableError{Op: "get project", Err: errors.New("dial tcp: no such host")}
	s, _ = newTestService(t, &fakeReader{projectErr: unreachable}, nil)
	_, err = s.Dashboard(context.Background(), "p-1")
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "Não foi possível conectar com o Jira. Verifique a URL", readErr.Message)
}

func TestParse_ReturnsParseErrorType(t *testing.T) {
	s, _ := newTestService(t, &fakeReader{}, nil)
	res, err := s.Parse(doc)
	require.NoError(t, err)
	assert.Len(t, res.UserStories, 1)

	var parseErr *analysis.ParseError
	assert.False(t, errors.As(err, &parseErr))
}
