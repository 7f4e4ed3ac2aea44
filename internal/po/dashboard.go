package po

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/jira"
	"github.com/clintrovert/scopesync/internal/metrics"
	"github.com/clintrovert/scopesync/internal/synth"
	"github.com/clintrovert/scopesync/pkg/types"
)

// DashboardReader is the read side of the tracker
type DashboardReader interface {
	GetProject(ctx context.Context, projectKey string) (types.TrackerProject, error)
	GetBoardID(ctx context.Context, projectKey string) (int, bool, error)
	GetSprints(ctx context.Context, boardID int) ([]types.TrackerSprint, error)
	SearchIssues(ctx context.Context, projectKey string) ([]types.TrackerIssue, error)
}

// ReaderFactory builds a reader bound to one set of credentials
type ReaderFactory func(creds types.JiraCredentials) (DashboardReader, error)

// Dashboard is the tracker state of a project with its derived metrics
type Dashboard struct {
	Project types.TrackerProject  `json:"project"`
	Sprints []types.TrackerSprint `json:"sprints"`
	Issues  []types.TrackerIssue  `json:"issues"`
	Metrics metrics.Metrics       `json:"metrics"`
}

// TrackerReadError carries a user-facing explanation of a failed read
type TrackerReadError struct {
	Message string
	Err     error
}

func (e *TrackerReadError) Error() string {
	return e.Message
}

func (e *TrackerReadError) Unwrap() error {
	return e.Err
}

// Dashboard reads the project, its sprints and issues from the tracker
func (s *Service) Dashboard(ctx context.Context, projectID string) (*Dashboard, error) {
	creds, err := s.projects.Credentials(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if err := synth.CheckCredentials(creds); err != nil {
		return nil, err
	}

	reader, err := s.readers(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	logger := s.logger.With(zap.String("project_key", creds.ProjectKey))
	logger.Info("fetching jira dashboard")

	proj, err := reader.GetProject(ctx, creds.ProjectKey)
	if err != nil {
		return nil, readError(logger, err)
	}

	sprints := []types.TrackerSprint{}
	boardID, hasBoard, err := reader.GetBoardID(ctx, creds.ProjectKey)
	switch {
	case err != nil:
		logger.Warn("failed to look up board, continuing without sprints", zap.Error(err))
	case !hasBoard:
		logger.Warn("project has no board, continuing without sprints")
	default:
		if sprints, err = reader.GetSprints(ctx, boardID); err != nil {
			logger.Warn("failed to list sprints, continuing without sprints", zap.Error(err))
			sprints = []types.TrackerSprint{}
		}
	}

	issues, err := reader.SearchIssues(ctx, creds.ProjectKey)
	if err != nil {
		return nil, readError(logger, err)
	}
	if issues == nil {
		issues = []types.TrackerIssue{}
	}

	return &Dashboard{
		Project: proj,
		Sprints: sprints,
		Issues:  issues,
		Metrics: metrics.Compute(issues, sprints, s.now()),
	}, nil
}

func readError(logger *zap.Logger, err error) error {
	logger.Error("failed to fetch jira data", zap.Error(err))

	switch {
	case jira.IsUnauthorized(err):
		return &TrackerReadError{Message: "Credenciais do Jira inválidas", Err: err}
	case jira.IsNotFound(err):
		return &TrackerReadError{Message: "Projeto não encontrado no Jira", Err: err}
	case jira.IsUnavailable(err):
		return &TrackerReadError{Message: "Não foi possível conectar com o Jira. Verifique a URL", Err: err}
	default:
		return &TrackerReadError{Message: fmt.Sprintf("Erro ao buscar dados do Jira: %v", err), Err: err}
	}
}

// JiraReaders returns a factory producing go-jira backed readers
func JiraReaders(factory func(types.JiraCredentials) (*jira.Client, error)) ReaderFactory {
	return func(creds types.JiraCredentials) (DashboardReader, error) {
		client, err := factory(creds)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
