// Package synth re-projects an extracted analysis onto the remote tracker:
// epics first, then sprints on the project board, then stories, each story
// being assigned to a sprint as soon as it exists remotely.
package synth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/jira"
	"github.com/clintrovert/scopesync/pkg/types"
)

// ErrMissingCredentials is reported when the target has no usable tracker credentials
var ErrMissingCredentials = errors.New("credenciais do Jira não configuradas para este projeto")

// ErrMissingProjectKey is reported when the credentials are complete but no
// Jira project key is configured. It matches ErrMissingCredentials.
var ErrMissingProjectKey = fmt.Errorf("%w: chave do projeto Jira não informada", ErrMissingCredentials)

// CheckCredentials reports what, if anything, keeps creds from being used
func CheckCredentials(creds types.JiraCredentials) error {
	if !creds.Complete() {
		return ErrMissingCredentials
	}
	if creds.ProjectKey == "" {
		return ErrMissingProjectKey
	}
	return nil
}

// Tracker is the subset of the remote tracker used during synthesis
type Tracker interface {
	ListIssueTypes(ctx context.Context, projectKey string) ([]string, error)
	CreateIssue(ctx context.Context, projectKey, summary, description, issueType string) (types.RemoteIssue, error)
	GetBoardID(ctx context.Context, projectKey string) (int, bool, error)
	CreateSprint(ctx context.Context, boardID int, name, startDate, endDate, goal string) (int, error)
	AssignIssueToSprint(ctx context.Context, sprintID int, issueKey string) error
}

// TrackerFactory builds a tracker bound to one set of credentials
type TrackerFactory func(creds types.JiraCredentials) (Tracker, error)

// JiraFactory returns a factory producing go-jira backed trackers
func JiraFactory(timeout time.Duration, logger *zap.Logger) TrackerFactory {
	return func(creds types.JiraCredentials) (Tracker, error) {
		return jira.NewClient(creds, timeout, logger)
	}
}
