// Package analysis extracts epics, sprints and user stories from the
// free-text analysis documents produced by the scope summarizer.
//
// Extraction is a pure function over the document: nothing is logged and no
// state survives between calls. Decisions taken along the way (which tier
// matched, how many items it produced) are returned as diagnostics so the
// caller can log them with its own logger.
package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clintrovert/scopesync/pkg/types"
)

const (
	// DefaultProjectName is used when the document has no PROJETO marker
	DefaultProjectName = "Projeto Sem Nome"
	// DefaultStoryPoints is used when a story carries no usable estimate
	DefaultStoryPoints = 5
	// PendingAcceptanceCriteria stands in for a missing acceptance criteria block
	PendingAcceptanceCriteria = "A definir conforme análise detalhada"
	// DefinitionOfDone is attached to every extracted story
	DefinitionOfDone = "Código revisado, testado e deployado"
)

var projectNamePattern = regexp.MustCompile(`PROJETO[ \t\r]*\n([^\n]+)`)

// Diagnostic records a decision taken during extraction
type Diagnostic struct {
	Stage   string `json:"stage"`
	Tier    string `json:"tier,omitempty"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// Result is the outcome of parsing one analysis document
type Result struct {
	types.Analysis
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// ParseError is returned when extraction fails unexpectedly. It never
// carries document content, only its length.
type ParseError struct {
	DocumentLength int
	cause          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse analysis document (%d chars)", e.DocumentLength)
}

func (e *ParseError) Unwrap() error {
	return e.cause
}

// Parse extracts the intermediate model from an analysis document. Finding
// nothing is not an error: the returned model is simply empty.
func Parse(text string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ParseError{DocumentLength: len(text), cause: fmt.Errorf("extraction panic: %v", r)}
		}
	}()

	text = strings.ReplaceAll(text, "\r\n", "\n")

	var diags []Diagnostic
	epics, d := resolveFirst("epics", text, epicTiers)
	diags = append(diags, d...)
	sprints, d := resolveFirst("sprints", text, sprintTiers)
	diags = append(diags, d...)
	stories, d := resolveStories(text)
	diags = append(diags, d...)

	linkMembership(epics, sprints, stories)

	return &Result{
		Analysis: types.Analysis{
			ProjectName: projectName(text),
			Epics:       epics,
			Sprints:     sprints,
			UserStories: stories,
		},
		Diagnostics: diags,
	}, nil
}

func projectName(text string) string {
	m := projectNamePattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultProjectName
	}
	if name := strings.TrimSpace(m[1]); name != "" {
		return name
	}
	return DefaultProjectName
}

// tier is one extraction strategy for a single kind of item
type tier[T any] struct {
	name    string
	extract func(text string) []T
}

// resolveFirst runs tiers in order and keeps the output of the first one
// that yields at least one item. Later tiers are never invoked.
func resolveFirst[T any](stage, text string, tiers []tier[T]) ([]T, []Diagnostic) {
	for _, t := range tiers {
		items := t.extract(text)
		if len(items) > 0 {
			return items, []Diagnostic{{
				Stage:   stage,
				Tier:    t.name,
				Count:   len(items),
				Message: fmt.Sprintf("%s tier produced %d %s", t.name, len(items), stage),
			}}
		}
	}
	return []T{}, []Diagnostic{{Stage: stage, Message: "no " + stage + " found in any known format"}}
}

// linkMembership reconciles the two directions of membership. Links
// carried by structured stories fill the epic and sprint lists, and sprint
// member lists from prose documents become the story's sprint link.
func linkMembership(epics []types.Epic, sprints []types.Sprint, stories []types.UserStory) {
	for i := range stories {
		story := &stories[i]
		if story.EpicLink != "" {
			for j := range epics {
				if epics[j].ID != "" && strings.EqualFold(epics[j].ID, story.EpicLink) {
					epics[j].RelatedStoryIDs = appendUnique(epics[j].RelatedStoryIDs, story.ID)
				}
			}
		}
		if story.SprintLink != "" {
			for j := range sprints {
				if sprints[j].ID != "" && strings.EqualFold(sprints[j].ID, story.SprintLink) {
					sprints[j].MemberStoryIDs = appendUnique(sprints[j].MemberStoryIDs, story.ID)
				}
			}
			continue
		}
		for _, sprint := range sprints {
			if sprint.ID != "" && contains(sprint.MemberStoryIDs, story.ID) {
				story.SprintLink = sprint.ID
				break
			}
		}
	}
}

func contains(list []string, id string) bool {
	for _, existing := range list {
		if existing == id {
			return true
		}
	}
	return false
}

func appendUnique(list []string, id string) []string {
	if contains(list, id) {
		return list
	}
	return append(list, id)
}
