package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/clintrovert/scopesync/pkg/types"
)

var (
	numberedRequirement = regexp.MustCompile(`(?m)^[ \t]*(\d+) - ([A-Z]+-\d+) [–-] ([^\n]+)`)
	traditionalStory    = regexp.MustCompile(`(?m)^[ \t]*N - ([A-Z]+-\d+) [–-] ([^\n]+)`)
	bulletStory         = regexp.MustCompile(
		`(?i)•[ \t]*([A-Z]+-?\d+)[ \t]*[-–][ \t]*([^|\n]+)(?:[ \t]*\|[ \t]*(\d+)h)?(?:[ \t]*\|[ \t]*(\d+)[ \t]*pts)?(?:[ \t]*\|[ \t]*Priority:[ \t]*(Alta|Média|Baixa|High|Medium|Low))?`)
	userVoiceStory = regexp.MustCompile(
		`(?i)•[ \t]*Story:[ \t]*Como[ \t]+([^,\n]+),[ \t]*quero[ \t]+([^,\n]+),[ \t]*para[ \t]+([^\n]+)`)
	genericStory = regexp.MustCompile(
		`(?m)^[ \t]*(?:[-*•][ \t]*)?([A-Z]{2,6}[-_]?\d{1,4})[ \t]*[-–:][ \t]*([^\n|]+)(?:[ \t]*\|[ \t]*([^\n]+))?`)
	catchAllStory = regexp.MustCompile(`(?m)^[ \t]*([A-Z]{2,6}[-_]?\d{1,4})(?:[ \t]*[-–:.][ \t]*)?([^\n]+)`)

	storyIDToken    = regexp.MustCompile(`(?i)^([A-Z]+-?\d+)`)
	hoursToken      = regexp.MustCompile(`(\d+)[ \t]*h\b`)
	pointsToken     = regexp.MustCompile(`(?i)(\d+)[ \t]*pts?\b`)
	priorityToken   = regexp.MustCompile(`(?i)\b(alta|média|baixa|high|medium|low)\b`)
	digitsOnly      = regexp.MustCompile(`^[\d\s.,]+$`)
	sectionWordLead = regexp.MustCompile(`(?i)^(sprint|epic|projeto)`)
)

// storyTier is one story extraction strategy. Fallback tiers only run when
// every regular tier came back empty.
type storyTier struct {
	name     string
	fallback bool
	extract  func(text string) []types.UserStory
}

var storyTiers = []storyTier{
	{name: "structured", extract: structuredStories},
	{name: "numbered", extract: numberedStories},
	{name: "traditional", extract: traditionalStories},
	{name: "bullet", extract: bulletStories},
	{name: "user-voice", extract: userVoiceStories},
	{name: "generic", fallback: true, extract: genericStories},
	{name: "catch-all", fallback: true, extract: catchAllStories},
}

// resolveStories unions every regular tier in order, keeping the first
// occurrence of each story id. Fallback tiers run in order only while
// nothing has been found.
func resolveStories(text string) ([]types.UserStory, []Diagnostic) {
	seen := map[string]bool{}
	stories := []types.UserStory{}
	var diags []Diagnostic

	run := func(t storyTier) {
		found := t.extract(text)
		added := 0
		for _, s := range found {
			if s.ID == "" || seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			stories = append(stories, s)
			added++
		}
		if len(found) > 0 {
			diags = append(diags, Diagnostic{
				Stage:   "stories",
				Tier:    t.name,
				Count:   added,
				Message: fmt.Sprintf("%s tier matched %d stories, %d new", t.name, len(found), added),
			})
		}
	}

	for _, t := range storyTiers {
		if t.fallback {
			continue
		}
		run(t)
	}
	for _, t := range storyTiers {
		if !t.fallback || len(stories) > 0 {
			continue
		}
		run(t)
	}

	if len(stories) == 0 {
		diags = append(diags, Diagnostic{Stage: "stories", Message: "no stories found in any known format"})
	}
	return stories, diags
}

// structuredStories reads the 12-field pipe lines of the STORIES section:
// id|title|description|acceptance|epic|sprint|hours|points|priority|start|end|dependencies
func structuredStories(text string) []types.UserStory {
	section, ok := extractSection(text, "STORIES:")
	if !ok {
		return nil
	}

	var stories []types.UserStory
	for _, line := range nonEmptyLines(section) {
		if strings.HasPrefix(strings.ToUpper(line), "EXEMPLO") || !strings.Contains(line, "|") {
			continue
		}
		f := splitFields(line)
		if len(f) < 12 {
			continue
		}
		stories = append(stories, types.UserStory{
			ID:                 f[0],
			Title:              f[1],
			Description:        storyDescription(f[2], "", f[3]),
			AcceptanceCriteria: acceptanceOrPending(f[3]),
			DefinitionOfDone:   DefinitionOfDone,
			EpicLink:           f[4],
			SprintLink:         f[5],
			Hours:              intOr(f[6], 0),
			StoryPoints:        intOr(f[7], DefaultStoryPoints),
			Priority:           explicitPriority(f[8]),
			StartDate:          f[9],
			EndDate:            f[10],
			Dependencies:       dependencies(f[11]),
		})
	}
	return stories
}

// numberedStories reads "<n> - <ID> – <title>" requirement blocks. A block
// only counts as a story when it carries an estimate.
func numberedStories(text string) []types.UserStory {
	return proseStories(blocks(text, numberedRequirement), 1, 2)
}

// traditionalStories reads the older "N - <ID> – <title>" blocks
func traditionalStories(text string) []types.UserStory {
	return proseStories(blocks(text, traditionalStory), 0, 1)
}

func proseStories(found []block, idGroup, titleGroup int) []types.UserStory {
	var stories []types.UserStory
	for _, b := range found {
		fields := labelled{block: b.body}
		estimate, ok := fields.value("Estimativa")
		if !ok {
			continue
		}

		title := strings.TrimSpace(b.groups[titleGroup])
		base, ok := fields.multiline("Descrição")
		if !ok || base == "" {
			base = title
		}
		todo, _ := fields.multiline("O que fazer")
		acceptance, _ := fields.multiline("Critérios de aceite")
		start, _ := fields.value("Data início")
		end, _ := fields.value("Data fim")
		deps, _ := fields.value("Dependências")

		points, priority := DefaultStoryPoints, types.PriorityMedium
		if complexity, ok := fields.value("Complexidade"); ok {
			points, priority = ComplexityPoints(complexity), ComplexityPriority(complexity)
		}

		stories = append(stories, types.UserStory{
			ID:                 b.groups[idGroup],
			Title:              title,
			Description:        storyDescription(base, todo, acceptance),
			StoryPoints:        points,
			Priority:           priority,
			AcceptanceCriteria: acceptanceOrPending(acceptance),
			DefinitionOfDone:   DefinitionOfDone,
			Dependencies:       dependencies(deps),
			Hours:              intOr(estimate, 0),
			StartDate:          start,
			EndDate:            end,
		})
	}
	return stories
}

// bulletStories reads "• <ID> - <title> | <h>h | <k> pts | Priority: <p>" lines
func bulletStories(text string) []types.UserStory {
	var stories []types.UserStory
	for _, m := range bulletStory.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[2])
		hours := intOr(m[3], 0)

		points := DefaultStoryPoints
		switch {
		case m[4] != "":
			points = intOr(m[4], DefaultStoryPoints)
		case m[3] != "":
			points = HoursPoints(hours)
		}

		priority := types.PriorityMedium
		if m[5] != "" {
			priority = explicitPriority(m[5])
		}

		stories = append(stories, types.UserStory{
			ID:                 strings.ToUpper(m[1]),
			Title:              title,
			Description:        storyDescription(title, "", ""),
			StoryPoints:        points,
			Priority:           priority,
			AcceptanceCriteria: PendingAcceptanceCriteria,
			DefinitionOfDone:   DefinitionOfDone,
			Dependencies:       []string{},
			Hours:              hours,
		})
	}
	return stories
}

// userVoiceStories reads "• Story: Como <role>, quero <goal>, para <benefit>"
// blocks followed by ID, Story Points and Priority lines.
func userVoiceStories(text string) []types.UserStory {
	var stories []types.UserStory
	for _, b := range blocks(text, userVoiceStory) {
		fields := labelled{block: b.body}

		rawID, ok := fields.value("ID")
		if !ok {
			continue
		}
		idMatch := storyIDToken.FindStringSubmatch(rawID)
		if idMatch == nil {
			continue
		}
		rawPoints, ok := fields.value("Story Points")
		if !ok {
			continue
		}
		rawPriority, ok := fields.value("Priority")
		if !ok {
			continue
		}

		role, goal, benefit := strings.TrimSpace(b.groups[0]), strings.TrimSpace(b.groups[1]), strings.TrimSpace(b.groups[2])
		title := fmt.Sprintf("Como %s, quero %s", role, goal)
		base := fmt.Sprintf("%s, para %s", title, benefit)
		todo, _ := fields.multiline("O que fazer")
		acceptance, _ := fields.multiline("Acceptance Criteria")
		estimate, _ := fields.value("Estimativa")
		start, _ := fields.value("Data início")
		end, _ := fields.value("Data fim")

		stories = append(stories, types.UserStory{
			ID:                 strings.ToUpper(idMatch[1]),
			Title:              title,
			Description:        storyDescription(base, todo, acceptance),
			StoryPoints:        intOr(rawPoints, DefaultStoryPoints),
			Priority:           explicitPriority(rawPriority),
			AcceptanceCriteria: acceptanceOrPending(acceptance),
			DefinitionOfDone:   DefinitionOfDone,
			Dependencies:       []string{},
			Hours:              intOr(estimate, 0),
			StartDate:          start,
			EndDate:            end,
		})
	}
	return stories
}

// genericStories accepts "<KEY-n> - <title> | <extras>" lines, reading
// hours, points and priority out of the extras when present.
func genericStories(text string) []types.UserStory {
	var stories []types.UserStory
	for _, m := range genericStory.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}
		extras := m[3]

		hours := 0
		h := hoursToken.FindStringSubmatch(extras)
		if h != nil {
			hours = intOr(h[1], 0)
		}
		points := DefaultStoryPoints
		if p := pointsToken.FindStringSubmatch(extras); p != nil {
			points = intOr(p[1], DefaultStoryPoints)
		} else if h != nil {
			points = HoursPoints(hours)
		}
		priority := types.PriorityMedium
		if p := priorityToken.FindStringSubmatch(extras); p != nil {
			priority = explicitPriority(p[1])
		}

		stories = append(stories, fallbackStory(m[1], title, hours, points, priority))
	}
	return stories
}

// catchAllStories accepts any line opening with a project-key token and
// carrying at least ten characters of title.
func catchAllStories(text string) []types.UserStory {
	var stories []types.UserStory
	for _, m := range catchAllStory.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[2])
		if utf8.RuneCountInString(title) < 10 || digitsOnly.MatchString(title) || sectionWordLead.MatchString(title) {
			continue
		}
		stories = append(stories, fallbackStory(m[1], title, 0, DefaultStoryPoints, types.PriorityMedium))
	}
	return stories
}

func fallbackStory(id, title string, hours, points int, priority types.Priority) types.UserStory {
	return types.UserStory{
		ID:                 id,
		Title:              title,
		Description:        storyDescription(title, "", ""),
		StoryPoints:        points,
		Priority:           priority,
		AcceptanceCriteria: PendingAcceptanceCriteria,
		DefinitionOfDone:   DefinitionOfDone,
		Dependencies:       []string{},
		Hours:              hours,
	}
}
