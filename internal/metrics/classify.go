// Package metrics derives dashboard statistics from issues and sprints read
// back from the tracker.
package metrics

import (
	"strings"

	"github.com/clintrovert/scopesync/pkg/types"
)

// Category is the normalised bucket a tracker status falls into
type Category string

const (
	CategoryCompleted  Category = "completed"
	CategoryInProgress Category = "inProgress"
	CategoryTodo       Category = "todo"
	CategoryBlocked    Category = "blocked"
)

var keywordSets = []struct {
	category Category
	keywords []string
}{
	{CategoryCompleted, []string{"done", "closed", "resolved", "finalizado", "concluído", "concluido"}},
	{CategoryBlocked, []string{"blocked", "bloqueado", "impediment"}},
	{CategoryInProgress, []string{"em progresso", "in progress", "development", "desenvolvimento"}},
	{CategoryTodo, []string{"a fazer", "to do", "open", "aberto", "backlog"}},
}

// ClassifyStatuses maps every status observed in issues to a category.
// Workflow names differ between projects, so statuses are matched by
// keyword. A status no keyword matches counts as completed when any of its
// issues has a resolution date, otherwise as todo.
func ClassifyStatuses(issues []types.TrackerIssue) map[string]Category {
	resolved := map[string]bool{}
	for _, issue := range issues {
		if _, ok := resolved[issue.Status]; !ok {
			resolved[issue.Status] = false
		}
		if issue.Resolved != nil {
			resolved[issue.Status] = true
		}
	}

	categories := make(map[string]Category, len(resolved))
	for status, anyResolved := range resolved {
		if c, ok := matchKeywords(status); ok {
			categories[status] = c
			continue
		}
		if anyResolved {
			categories[status] = CategoryCompleted
		} else {
			categories[status] = CategoryTodo
		}
	}
	return categories
}

func matchKeywords(status string) (Category, bool) {
	lower := strings.ToLower(status)
	for _, set := range keywordSets {
		for _, k := range set.keywords {
			if strings.Contains(lower, k) {
				return set.category, true
			}
		}
	}
	return "", false
}
