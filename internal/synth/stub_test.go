package synth

import (
	"context"
	"errors"
	"fmt"

	"github.com/clintrovert/scopesync/pkg/types"
)

type createdIssue struct {
	Summary     string
	Description string
	IssueType   string
}

type createdSprint struct {
	BoardID int
	Name    string
	Start   string
	End     string
	Goal    string
}

// stubTracker records every call and fails the ones its hooks ask for.
// Like the HTTP client, it refuses calls on a cancelled context.
type stubTracker struct {
	issueTypes    []string
	issueTypesErr error
	boardID       int
	hasBoard      bool
	boardErr      error

	failIssue  func(summary string) bool
	failSprint func(name string) bool

	calls       int
	issues      []createdIssue
	sprints     []createdSprint
	assignments map[int][]string
}

func newStubTracker() *stubTracker {
	return &stubTracker{
		issueTypes:  []string{"epic", "story", "task", "subtask"},
		boardID:     1,
		hasBoard:    true,
		assignments: map[int][]string{},
	}
}

func (s *stubTracker) factory() TrackerFactory {
	return func(types.JiraCredentials) (Tracker, error) { return s, nil }
}

func (s *stubTracker) ListIssueTypes(context.Context, string) ([]string, error) {
	s.calls++
	return s.issueTypes, s.issueTypesErr
}

func (s *stubTracker) CreateIssue(ctx context.Context, _ string, summary, description, issueType string) (types.RemoteIssue, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return types.RemoteIssue{}, err
	}
	if s.failIssue != nil && s.failIssue(summary) {
		return types.RemoteIssue{}, errors.New("remote rejected issue")
	}
	s.issues = append(s.issues, createdIssue{Summary: summary, Description: description, IssueType: issueType})
	n := len(s.issues)
	return types.RemoteIssue{Key: fmt.Sprintf("ABC-%d", n), ID: fmt.Sprintf("100%d", n)}, nil
}

func (s *stubTracker) GetBoardID(ctx context.Context, _ string) (int, bool, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	return s.boardID, s.hasBoard, s.boardErr
}

func (s *stubTracker) CreateSprint(ctx context.Context, boardID int, name, start, end, goal string) (int, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.failSprint != nil && s.failSprint(name) {
		return 0, errors.New("remote rejected sprint")
	}
	s.sprints = append(s.sprints, createdSprint{BoardID: boardID, Name: name, Start: start, End: end, Goal: goal})
	return 10 + len(s.sprints), nil
}

func (s *stubTracker) AssignIssueToSprint(ctx context.Context, sprintID int, issueKey string) error {
	s.calls++
	if err := ctx.Err(); err != nil {
		return err
	}
	s.assignments[sprintID] = append(s.assignments[sprintID], issueKey)
	return nil
}
