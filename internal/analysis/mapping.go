package analysis

import (
	"strings"

	"github.com/clintrovert/scopesync/pkg/types"
)

// ComplexityPoints maps a complexity label to story points. Unknown labels
// fall back to DefaultStoryPoints.
func ComplexityPoints(label string) int {
	switch normalizeLabel(label) {
	case "baixa":
		return 3
	case "média", "media":
		return 5
	case "alta":
		return 8
	case "muito alta":
		return 13
	default:
		return DefaultStoryPoints
	}
}

// ComplexityPriority maps a complexity label to a story priority
func ComplexityPriority(label string) types.Priority {
	switch normalizeLabel(label) {
	case "alta", "muito alta":
		return types.PriorityHigh
	case "média", "media":
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

// HoursPoints converts an hour estimate to the nearest story point bucket
func HoursPoints(hours int) int {
	switch {
	case hours <= 4:
		return 3
	case hours <= 8:
		return 5
	case hours <= 16:
		return 8
	default:
		return 13
	}
}

// explicitPriority reads a priority written out in the document, in either
// language. Anything unrecognised is Medium.
func explicitPriority(label string) types.Priority {
	switch normalizeLabel(label) {
	case "high", "alta":
		return types.PriorityHigh
	case "low", "baixa":
		return types.PriorityLow
	default:
		return types.PriorityMedium
	}
}

func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// dependencies splits a dependency list, treating the "none" markers as empty
func dependencies(value string) []string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "none", "nenhuma", "nenhum", "—", "-", "n/a":
		return []string{}
	}

	deps := []string{}
	for _, dep := range strings.Split(value, ",") {
		if dep = strings.TrimSpace(dep); dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// storyDescription assembles the labelled description block. The "what to
// do" block is only included when present.
func storyDescription(base, todo, acceptance string) string {
	if strings.TrimSpace(acceptance) == "" {
		acceptance = PendingAcceptanceCriteria
	}

	var b strings.Builder
	b.WriteString("📋 DESCRIÇÃO\n")
	b.WriteString(strings.TrimSpace(base))
	b.WriteString("\n\n")
	if todo = strings.TrimSpace(todo); todo != "" {
		b.WriteString("🎯 O QUE FAZER\n")
		b.WriteString(todo)
		b.WriteString("\n\n")
	}
	b.WriteString("📝 CRITÉRIOS DE ACEITE\n")
	b.WriteString(strings.TrimSpace(acceptance))
	b.WriteString("\n")
	return b.String()
}

func acceptanceOrPending(value string) string {
	if strings.TrimSpace(value) == "" {
		return PendingAcceptanceCriteria
	}
	return strings.TrimSpace(value)
}
