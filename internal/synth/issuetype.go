package synth

import "strings"

const (
	fallbackEpicType  = "Epic"
	fallbackStoryType = "Task"
)

// IssueTypeMatch is the outcome of an issue type search
type IssueTypeMatch struct {
	Name  string
	Found bool
}

// NameOr returns the matched name, or fallback when nothing matched
func (m IssueTypeMatch) NameOr(fallback string) string {
	if m.Found {
		return m.Name
	}
	return fallback
}

// ResolveEpicType picks the issue type used for epics: an epic type, else
// a task type, else anything that cannot require a parent.
func ResolveEpicType(available []string) IssueTypeMatch {
	return searchIssueType(available, "epic", "épico")
}

// ResolveStoryType picks the issue type used for stories. A pick that still
// looks like a sub-task is replaced by a plain task type, or "Task".
func ResolveStoryType(available []string) IssueTypeMatch {
	match := searchIssueType(available, "story", "história", "historia")
	if match.Found && !isSubtask(match.Name) {
		return match
	}

	for _, name := range available {
		if containsAny(name, "task", "tarefa") && !isSubtask(name) {
			return IssueTypeMatch{Name: name, Found: true}
		}
	}
	return IssueTypeMatch{Name: fallbackStoryType, Found: true}
}

func searchIssueType(available []string, preferred ...string) IssueTypeMatch {
	for _, name := range available {
		if containsAny(name, preferred...) {
			return IssueTypeMatch{Name: name, Found: true}
		}
	}
	for _, name := range available {
		if containsAny(name, "task", "tarefa") && !isSubtask(name) {
			return IssueTypeMatch{Name: name, Found: true}
		}
	}
	for _, name := range available {
		if !isSubtask(name) {
			return IssueTypeMatch{Name: name, Found: true}
		}
	}
	return IssueTypeMatch{}
}

func isSubtask(name string) bool {
	return containsAny(name, "subtask", "sub-task", "subtarefa", "sub-tarefa")
}

func containsAny(name string, needles ...string) bool {
	name = strings.ToLower(name)
	for _, n := range needles {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}
