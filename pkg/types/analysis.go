package types

// Priority is the planning priority of a user story
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Analysis is the intermediate model extracted from an analysis document
type Analysis struct {
	ProjectName string      `json:"projectName"`
	Epics       []Epic      `json:"epics"`
	Sprints     []Sprint    `json:"sprints"`
	UserStories []UserStory `json:"userStories"`
}

// Epic represents a group of related stories
type Epic struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	StoryPoints     int      `json:"storyPoints"`
	RelatedStoryIDs []string `json:"relatedStoryIds"`
	RemoteKey       string   `json:"remoteKey,omitempty"`
	RemoteID        string   `json:"remoteId,omitempty"`
}

// WithRemote returns a copy of the epic carrying the identifiers assigned by the tracker
func (e Epic) WithRemote(key, id string) Epic {
	e.RelatedStoryIDs = append([]string(nil), e.RelatedStoryIDs...)
	e.RemoteKey = key
	e.RemoteID = id
	return e
}

// Sprint represents a time-boxed container of stories
type Sprint struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Objective      string   `json:"objective"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	HoursTotal     int      `json:"hoursTotal"`
	StoryPoints    int      `json:"storyPoints"`
	MemberStoryIDs []string `json:"memberStoryIds"`
	RemoteID       int      `json:"remoteId,omitempty"`
}

// WithRemote returns a copy of the sprint carrying the tracker sprint id
func (s Sprint) WithRemote(id int) Sprint {
	s.MemberStoryIDs = append([]string(nil), s.MemberStoryIDs...)
	s.RemoteID = id
	return s
}

// UserStory represents the smallest planned unit of work
type UserStory struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	StoryPoints        int      `json:"storyPoints"`
	Priority           Priority `json:"priority"`
	AcceptanceCriteria string   `json:"acceptanceCriteria"`
	DefinitionOfDone   string   `json:"definitionOfDone"`
	Dependencies       []string `json:"dependencies"`
	Hours              int      `json:"hours,omitempty"`
	StartDate          string   `json:"startDate,omitempty"`
	EndDate            string   `json:"endDate,omitempty"`
	EpicLink           string   `json:"epicLink,omitempty"`
	SprintLink         string   `json:"sprintLink,omitempty"`
	RemoteKey          string   `json:"remoteKey,omitempty"`
	RemoteID           string   `json:"remoteId,omitempty"`
}

// WithRemote returns a copy of the story carrying the identifiers assigned by the tracker
func (u UserStory) WithRemote(key, id string) UserStory {
	u.Dependencies = append([]string(nil), u.Dependencies...)
	u.RemoteKey = key
	u.RemoteID = id
	return u
}
