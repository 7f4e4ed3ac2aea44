package synth

import (
	"regexp"
	"strconv"

	"github.com/clintrovert/scopesync/pkg/types"
)

// Strategy names the rule that placed a story in a sprint
type Strategy string

const (
	StrategyExplicit     Strategy = "explicit-reference"
	StrategyDateRange    Strategy = "date-range"
	StrategyProportional Strategy = "proportional"
	StrategyFirstSprint  Strategy = "first-sprint"
	StrategyNone         Strategy = "none"
)

// Assignment is the sprint chosen for a story, as an index into the
// created sprint sequence.
type Assignment struct {
	Index    int
	Strategy Strategy
}

var sprintReference = regexp.MustCompile(`(?i)SPRINT-(\d+)`)

// ResolveSprint decides which sprint a story belongs to. The first rule
// that applies wins: explicit SPRINT-n reference, then date containment,
// then proportional distribution over the story list, then the first sprint.
func ResolveSprint(story types.UserStory, index, total int, sprints []types.Sprint) Assignment {
	if len(sprints) == 0 {
		return Assignment{Index: -1, Strategy: StrategyNone}
	}

	if m := sprintReference.FindStringSubmatch(story.SprintLink); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= len(sprints) {
			return Assignment{Index: n - 1, Strategy: StrategyExplicit}
		}
	}

	if start, ok := ParseLooseDate(story.StartDate); ok {
		for i, sprint := range sprints {
			from, okFrom := ParseLooseDate(sprint.StartDate)
			to, okTo := ParseLooseDate(sprint.EndDate)
			if okFrom && okTo && !start.Before(from) && !start.After(to) {
				return Assignment{Index: i, Strategy: StrategyDateRange}
			}
		}
	}

	if total > 0 && index >= 0 {
		chunk := (total + len(sprints) - 1) / len(sprints)
		i := index / chunk
		if i > len(sprints)-1 {
			i = len(sprints) - 1
		}
		return Assignment{Index: i, Strategy: StrategyProportional}
	}

	return Assignment{Index: 0, Strategy: StrategyFirstSprint}
}
