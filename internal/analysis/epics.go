package analysis

import (
	"regexp"
	"strings"

	"github.com/clintrovert/scopesync/pkg/types"
)

var traditionalEpic = regexp.MustCompile(
	`\d+\. ([^-\n]+) - ([^-]+) - (\d+) story points\s*Stories relacionadas: ([^\n]+)`)

var epicTiers = []tier[types.Epic]{
	{name: "structured", extract: structuredEpics},
	{name: "traditional", extract: traditionalEpics},
}

// structuredEpics reads "id|name|description|points" lines from the ÉPICOS section
func structuredEpics(text string) []types.Epic {
	section, ok := extractSection(text, "ÉPICOS:")
	if !ok {
		return nil
	}

	var epics []types.Epic
	for _, line := range nonEmptyLines(section) {
		if !strings.Contains(line, "|") {
			continue
		}
		f := splitFields(line)
		if len(f) < 4 {
			continue
		}
		epics = append(epics, types.Epic{
			ID:              f[0],
			Name:            f[1],
			Description:     f[2],
			StoryPoints:     intOr(f[3], 0),
			RelatedStoryIDs: []string{},
		})
	}
	return epics
}

func traditionalEpics(text string) []types.Epic {
	var epics []types.Epic
	for _, m := range traditionalEpic.FindAllStringSubmatch(text, -1) {
		related := []string{}
		for _, id := range strings.Split(m[4], ",") {
			if id = strings.TrimSpace(id); id != "" {
				related = appendUnique(related, id)
			}
		}
		epics = append(epics, types.Epic{
			Name:            strings.TrimSpace(m[1]),
			Description:     strings.TrimSpace(m[2]),
			StoryPoints:     intOr(m[3], 0),
			RelatedStoryIDs: related,
		})
	}
	return epics
}
