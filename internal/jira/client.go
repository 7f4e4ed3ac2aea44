package jira

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/pkg/types"
)

// DefaultTimeout bounds every call made to Jira
const DefaultTimeout = 30 * time.Second

// Client wraps Jira API client functionality
type Client struct {
	client *jira.Client
	logger *zap.Logger
}

// NewClient creates a new Jira client authenticated with the given credentials
func NewClient(creds types.JiraCredentials, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("jira credentials are incomplete")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	tp := jira.BasicAuthTransport{
		Username: creds.Email,
		Password: creds.APIToken,
	}
	httpClient := tp.Client()
	httpClient.Timeout = timeout

	client, err := jira.NewClient(httpClient, strings.TrimRight(creds.URL, "/")+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

type projectIssueType struct {
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

// ListIssueTypes returns the lower-cased issue type names available in a project
func (c *Client) ListIssueTypes(ctx context.Context, projectKey string) ([]string, error) {
	var issueTypes []projectIssueType
	path := fmt.Sprintf("rest/api/3/project/%s/statuses", projectKey)
	if err := c.do(ctx, "list issue types", http.MethodGet, path, nil, &issueTypes); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(issueTypes))
	for _, it := range issueTypes {
		names = append(names, strings.ToLower(it.Name))
	}
	return names, nil
}

type createIssueRequest struct {
	Fields createIssueFields `json:"fields"`
}

type createIssueFields struct {
	Project     keyRef      `json:"project"`
	Summary     string      `json:"summary"`
	Description adfDocument `json:"description"`
	IssueType   nameRef     `json:"issuetype"`
}

type keyRef struct {
	Key string `json:"key"`
}

type nameRef struct {
	Name string `json:"name"`
}

type createIssueResponse struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// CreateIssue creates an issue whose description is sent as a single paragraph document
func (c *Client) CreateIssue(ctx context.Context, projectKey, summary, description, issueType string) (types.RemoteIssue, error) {
	body := createIssueRequest{Fields: createIssueFields{
		Project:     keyRef{Key: projectKey},
		Summary:     summary,
		Description: newADFDocument(description),
		IssueType:   nameRef{Name: issueType},
	}}

	var created createIssueResponse
	if err := c.do(ctx, "create issue", http.MethodPost, "rest/api/3/issue", body, &created); err != nil {
		return types.RemoteIssue{}, err
	}

	c.logger.Debug("created jira issue",
		zap.String("key", created.Key),
		zap.String("type", issueType),
	)
	return types.RemoteIssue{Key: created.Key, ID: created.ID}, nil
}

// GetBoardID returns the first board of a project. The boolean is false
// when the project has no board.
func (c *Client) GetBoardID(ctx context.Context, projectKey string) (int, bool, error) {
	boards, resp, err := c.client.Board.GetAllBoardsWithContext(ctx, &jira.BoardListOptions{
		ProjectKeyOrID: projectKey,
	})
	if err := classify("get board", resp, err); err != nil {
		return 0, false, err
	}
	if boards == nil || len(boards.Values) == 0 {
		return 0, false, nil
	}
	return boards.Values[0].ID, true, nil
}

type createSprintRequest struct {
	Name          string `json:"name"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Goal          string `json:"goal"`
	OriginBoardID int    `json:"originBoardId"`
}

type createSprintResponse struct {
	ID int `json:"id"`
}

// CreateSprint creates a sprint on a board and returns its id
func (c *Client) CreateSprint(ctx context.Context, boardID int, name, startDate, endDate, goal string) (int, error) {
	body := createSprintRequest{
		Name:          name,
		StartDate:     startDate,
		EndDate:       endDate,
		Goal:          goal,
		OriginBoardID: boardID,
	}

	var created createSprintResponse
	if err := c.do(ctx, "create sprint", http.MethodPost, "rest/agile/1.0/sprint", body, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// AssignIssueToSprint moves an issue into a sprint
func (c *Client) AssignIssueToSprint(ctx context.Context, sprintID int, issueKey string) error {
	resp, err := c.client.Sprint.MoveIssuesToSprintWithContext(ctx, sprintID, []string{issueKey})
	if resp != nil && resp.Body != nil && err == nil {
		resp.Body.Close()
	}
	return classify("assign issue to sprint", resp, err)
}

// do sends a JSON request and decodes the response into v
func (c *Client) do(ctx context.Context, op, method, path string, body, v interface{}) error {
	req, err := c.client.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}

	resp, err := c.client.Do(req, v)
	if err := classify(op, resp, err); err != nil {
		return err
	}
	if v == nil && resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return nil
}

type adfDocument struct {
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

func newADFDocument(text string) adfDocument {
	return adfDocument{
		Type:    "doc",
		Version: 1,
		Content: []adfNode{{
			Type:    "paragraph",
			Content: []adfNode{{Type: "text", Text: text}},
		}},
	}
}
