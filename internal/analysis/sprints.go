package analysis

import (
	"regexp"
	"strings"

	"github.com/clintrovert/scopesync/pkg/types"
)

var (
	traditionalSprint = regexp.MustCompile(
		`Sprint (\d+) - ([^(\n]+)\s*\(([^)]+)\)\s*Objetivo da Sprint: ([^\n]+)\s*Horas totais: (\d+)h\s*Story Points estimados: (\d+) pts`)
	storyToken = regexp.MustCompile(`[A-Z]+-\d+`)
)

var sprintTiers = []tier[types.Sprint]{
	{name: "structured", extract: structuredSprints},
	{name: "traditional", extract: traditionalSprints},
}

// structuredSprints reads "id|name|objective|start|end|hours|points" lines
func structuredSprints(text string) []types.Sprint {
	section, ok := extractSection(text, "SPRINTS:")
	if !ok {
		return nil
	}

	var sprints []types.Sprint
	for _, line := range nonEmptyLines(section) {
		if !strings.Contains(line, "|") {
			continue
		}
		f := splitFields(line)
		if len(f) < 7 {
			continue
		}
		sprints = append(sprints, types.Sprint{
			ID:             f[0],
			Name:           f[1],
			Objective:      f[2],
			StartDate:      f[3],
			EndDate:        f[4],
			HoursTotal:     intOr(f[5], 0),
			StoryPoints:    intOr(f[6], 0),
			MemberStoryIDs: []string{},
		})
	}
	return sprints
}

// traditionalSprints reads prose sprint blocks. Story ids mentioned between
// one sprint header and the next belong to that sprint.
func traditionalSprints(text string) []types.Sprint {
	matches := traditionalSprint.FindAllStringSubmatchIndex(text, -1)

	var sprints []types.Sprint
	for i, loc := range matches {
		group := func(n int) string {
			return strings.TrimSpace(text[loc[2*n]:loc[2*n+1]])
		}

		start, end := group(3), ""
		if parts := strings.SplitN(group(3), " a ", 2); len(parts) == 2 {
			start, end = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}

		blockEnd := len(text)
		if i+1 < len(matches) {
			blockEnd = matches[i+1][0]
		}
		members := []string{}
		for _, id := range storyToken.FindAllString(text[loc[0]:blockEnd], -1) {
			members = appendUnique(members, id)
		}

		sprints = append(sprints, types.Sprint{
			ID:             "SPRINT-" + group(1),
			Name:           group(2),
			Objective:      group(4),
			StartDate:      start,
			EndDate:        end,
			HoursTotal:     intOr(group(5), 0),
			StoryPoints:    intOr(group(6), 0),
			MemberStoryIDs: members,
		})
	}
	return sprints
}
