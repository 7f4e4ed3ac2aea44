package metrics

import (
	"math"
	"time"

	"github.com/clintrovert/scopesync/pkg/types"
)

const (
	velocityWindow      = 6
	recentCompletedDays = 28
	reworkActiveDays    = 7
	reworkStaleDays     = 14
)

var (
	storyTypes = []string{"Story", "História", "User Story"}
	bugTypes   = []string{"Bug", "Defeito", "Error"}
	taskTypes  = []string{"Task", "Tarefa", "Subtask"}
	epicTypes  = []string{"Epic", "Épico"}
)

// StatusDistribution counts issues per category
type StatusDistribution struct {
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Blocked    int `json:"blocked"`
}

// Throughput counts issues per issue type family
type Throughput struct {
	Stories int `json:"stories"`
	Bugs    int `json:"bugs"`
	Tasks   int `json:"tasks"`
	Epics   int `json:"epics"`
}

// Metrics is the dashboard summary of a project
type Metrics struct {
	TotalIssues           int                 `json:"totalIssues"`
	CompletedIssues       int                 `json:"completedIssues"`
	InProgressIssues      int                 `json:"inProgressIssues"`
	TodoIssues            int                 `json:"todoIssues"`
	TotalStoryPoints      float64             `json:"totalStoryPoints"`
	CompletedStoryPoints  float64             `json:"completedStoryPoints"`
	AverageVelocity       int                 `json:"averageVelocity"`
	AverageLeadTime       int                 `json:"averageLeadTime"`
	ReworkRate            int                 `json:"reworkRate"`
	RecentCompletedIssues int                 `json:"recentCompletedIssues"`
	CompletionRate        int                 `json:"completionRate"`
	StatusDistribution    StatusDistribution  `json:"statusDistribution"`
	Throughput            Throughput          `json:"throughput"`
	StatusCategories      map[string]Category `json:"statusCategories"`
}

// Compute reduces the classified issue list to dashboard metrics
func Compute(issues []types.TrackerIssue, sprints []types.TrackerSprint, now time.Time) Metrics {
	categories := ClassifyStatuses(issues)
	m := Metrics{
		TotalIssues:      len(issues),
		StatusCategories: categories,
	}

	var leadDays float64
	var resolvedCount, rework int
	for _, issue := range issues {
		category := categories[issue.Status]
		m.TotalStoryPoints += issue.StoryPoints

		switch category {
		case CategoryCompleted:
			m.StatusDistribution.Completed++
			m.CompletedStoryPoints += issue.StoryPoints
			if issue.Resolved != nil && !issue.Resolved.Before(now.AddDate(0, 0, -recentCompletedDays)) {
				m.RecentCompletedIssues++
			}
		case CategoryInProgress:
			m.StatusDistribution.InProgress++
		case CategoryBlocked:
			m.StatusDistribution.Blocked++
		default:
			m.StatusDistribution.Todo++
		}

		if isRework(issue, category) {
			rework++
		}
		if issue.Resolved != nil {
			resolvedCount++
			leadDays += days(issue.Resolved.Sub(issue.Created))
		}

		switch {
		case oneOf(issue.IssueType, storyTypes):
			m.Throughput.Stories++
		case oneOf(issue.IssueType, bugTypes):
			m.Throughput.Bugs++
		case oneOf(issue.IssueType, taskTypes):
			m.Throughput.Tasks++
		case oneOf(issue.IssueType, epicTypes):
			m.Throughput.Epics++
		}
	}

	m.CompletedIssues = m.StatusDistribution.Completed
	m.InProgressIssues = m.StatusDistribution.InProgress
	m.TodoIssues = m.StatusDistribution.Todo
	m.CompletionRate = percent(m.CompletedIssues, m.TotalIssues)
	m.ReworkRate = percent(rework, m.TotalIssues)
	if resolvedCount > 0 {
		m.AverageLeadTime = int(math.Round(leadDays / float64(resolvedCount)))
	}
	m.AverageVelocity = averageVelocity(issues, sprints, categories)

	return m
}

// averageVelocity averages the completed points of the last closed sprints
func averageVelocity(issues []types.TrackerIssue, sprints []types.TrackerSprint, categories map[string]Category) int {
	var closed []types.TrackerSprint
	for _, s := range sprints {
		if s.State == "closed" {
			closed = append(closed, s)
		}
	}
	if len(closed) > velocityWindow {
		closed = closed[len(closed)-velocityWindow:]
	}
	if len(closed) == 0 {
		return 0
	}

	var total float64
	for _, s := range closed {
		for _, issue := range issues {
			if issue.Sprint == s.Name && categories[issue.Status] == CategoryCompleted {
				total += issue.StoryPoints
			}
		}
	}
	return int(math.Round(total / float64(len(closed))))
}

// isRework flags issues that look reopened or stuck
func isRework(issue types.TrackerIssue, category Category) bool {
	age := days(issue.Updated.Sub(issue.Created))
	inProgress := category == CategoryInProgress
	return (age > reworkActiveDays && inProgress) ||
		(age > reworkStaleDays && issue.Resolved == nil) ||
		(issue.Resolved != nil && inProgress)
}

func days(d time.Duration) float64 {
	return d.Hours() / 24
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func oneOf(value string, set []string) bool {
	for _, s := range set {
		if value == s {
			return true
		}
	}
	return false
}
