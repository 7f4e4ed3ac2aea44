package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/pkg/types"
)

const (
	// SprintPageSize is the number of sprints read for a board
	SprintPageSize = 50
	// IssuePageSize is the number of issues requested per search page
	IssuePageSize = 100
	// MaxIssues caps the number of issues read for one dashboard
	MaxIssues = 1000

	storyPointsField = "customfield_10016"
	sprintField      = "customfield_10020"
)

// jiraTimeLayout is the timestamp format Jira uses for issue fields
const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

// GetProject returns the key and name of a project
func (c *Client) GetProject(ctx context.Context, projectKey string) (types.TrackerProject, error) {
	project, resp, err := c.client.Project.GetWithContext(ctx, projectKey)
	if err := classify("get project", resp, err); err != nil {
		return types.TrackerProject{}, err
	}
	return types.TrackerProject{Key: project.Key, Name: project.Name}, nil
}

type sprintPage struct {
	Values []sprintPayload `json:"values"`
}

type sprintPayload struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	State        string     `json:"state"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	CompleteDate *time.Time `json:"completeDate"`
	Goal         string     `json:"goal"`
}

// GetSprints returns the sprints of a board
func (c *Client) GetSprints(ctx context.Context, boardID int) ([]types.TrackerSprint, error) {
	path := fmt.Sprintf("rest/agile/1.0/board/%d/sprint?maxResults=%d", boardID, SprintPageSize)

	var page sprintPage
	if err := c.do(ctx, "list sprints", http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}

	sprints := make([]types.TrackerSprint, 0, len(page.Values))
	for _, s := range page.Values {
		sprints = append(sprints, types.TrackerSprint{
			ID:           s.ID,
			Name:         s.Name,
			State:        s.State,
			StartDate:    s.StartDate,
			EndDate:      s.EndDate,
			CompleteDate: s.CompleteDate,
			Goal:         s.Goal,
		})
	}
	return sprints, nil
}

type searchPage struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	Issues     []issuePayload `json:"issues"`
}

type issuePayload struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Summary        string          `json:"summary"`
	Status         *nameRef        `json:"status"`
	IssueType      *nameRef        `json:"issuetype"`
	Assignee       *assignee       `json:"assignee"`
	Created        string          `json:"created"`
	Updated        string          `json:"updated"`
	ResolutionDate string          `json:"resolutiondate"`
	StoryPoints    *float64        `json:"customfield_10016"`
	Sprints        json.RawMessage `json:"customfield_10020"`
}

type assignee struct {
	DisplayName string `json:"displayName"`
}

type sprintRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

var legacySprintName = regexp.MustCompile(`name=([^,\]]+)`)

// latestSprintName reads the most recent sprint out of the sprint field,
// which holds objects on current Jira Cloud and serialized strings on
// older servers.
func latestSprintName(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var refs []sprintRef
	if err := json.Unmarshal(raw, &refs); err == nil {
		if n := len(refs); n > 0 {
			return refs[n-1].Name
		}
		return ""
	}

	var legacy []string
	if err := json.Unmarshal(raw, &legacy); err == nil && len(legacy) > 0 {
		if m := legacySprintName.FindStringSubmatch(legacy[len(legacy)-1]); m != nil {
			return m[1]
		}
	}
	return ""
}

// SearchIssues pages through the issues of a project, stopping at MaxIssues
func (c *Client) SearchIssues(ctx context.Context, projectKey string) ([]types.TrackerIssue, error) {
	jql := fmt.Sprintf("project = %s ORDER BY created DESC", projectKey)
	fields := strings.Join([]string{
		"summary", "status", "issuetype", "assignee", "created", "updated",
		"resolutiondate", storyPointsField, sprintField,
	}, ",")

	var issues []types.TrackerIssue
	for startAt := 0; startAt < MaxIssues; {
		params := url.Values{}
		params.Set("jql", jql)
		params.Set("fields", fields)
		params.Set("startAt", strconv.Itoa(startAt))
		params.Set("maxResults", strconv.Itoa(IssuePageSize))

		var page searchPage
		if err := c.do(ctx, "search issues", http.MethodGet, "rest/api/3/search?"+params.Encode(), nil, &page); err != nil {
			return nil, err
		}

		for _, p := range page.Issues {
			issue, err := toTrackerIssue(p)
			if err != nil {
				c.logger.Warn("failed to convert jira issue", zap.Error(err), zap.String("issue", p.Key))
				continue
			}
			issues = append(issues, issue)
		}

		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}

	if len(issues) > MaxIssues {
		issues = issues[:MaxIssues]
	}
	return issues, nil
}

func toTrackerIssue(p issuePayload) (types.TrackerIssue, error) {
	issue := types.TrackerIssue{
		ID:      p.ID,
		Key:     p.Key,
		Summary: p.Fields.Summary,
	}
	if p.Fields.Status != nil {
		issue.Status = p.Fields.Status.Name
	}
	if p.Fields.IssueType != nil {
		issue.IssueType = p.Fields.IssueType.Name
	}
	if p.Fields.Assignee != nil {
		issue.Assignee = p.Fields.Assignee.DisplayName
	}
	if p.Fields.StoryPoints != nil {
		issue.StoryPoints = *p.Fields.StoryPoints
	}
	issue.Sprint = latestSprintName(p.Fields.Sprints)

	var err error
	if issue.Created, err = parseTime(p.Fields.Created); err != nil {
		return types.TrackerIssue{}, fmt.Errorf("failed to parse created date: %w", err)
	}
	if issue.Updated, err = parseTime(p.Fields.Updated); err != nil {
		return types.TrackerIssue{}, fmt.Errorf("failed to parse updated date: %w", err)
	}
	if p.Fields.ResolutionDate != "" {
		resolved, err := parseTime(p.Fields.ResolutionDate)
		if err != nil {
			return types.TrackerIssue{}, fmt.Errorf("failed to parse resolution date: %w", err)
		}
		issue.Resolved = &resolved
	}
	return issue, nil
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(jiraTimeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
