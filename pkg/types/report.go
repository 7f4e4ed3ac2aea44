package types

import "time"

// SyncCounts contains how many items of each kind were created remotely
type SyncCounts struct {
	Epics   int `json:"epics"`
	Sprints int `json:"sprints"`
	Stories int `json:"stories"`
}

// SyncReport is the outcome of synthesizing an analysis onto the tracker
type SyncReport struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	Data     *SyncCounts `json:"data,omitempty"`
	Epics    []Epic      `json:"-"`
	Sprints  []Sprint    `json:"-"`
	Stories  []UserStory `json:"-"`
	Finished time.Time   `json:"-"`
}

// RemoteIssue identifies an issue created on the tracker
type RemoteIssue struct {
	Key string `json:"key"`
	ID  string `json:"id"`
}

// TrackerIssue is an issue read back from the tracker
type TrackerIssue struct {
	ID          string     `json:"id"`
	Key         string     `json:"key"`
	Summary     string     `json:"summary"`
	Status      string     `json:"status"`
	IssueType   string     `json:"issueType"`
	StoryPoints float64    `json:"storyPoints"`
	Assignee    string     `json:"assignee,omitempty"`
	Created     time.Time  `json:"created"`
	Updated     time.Time  `json:"updated"`
	Resolved    *time.Time `json:"resolved,omitempty"`
	Sprint      string     `json:"sprint,omitempty"`
}

// TrackerSprint is a sprint read back from the tracker
type TrackerSprint struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	State        string     `json:"state"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	CompleteDate *time.Time `json:"completeDate,omitempty"`
	Goal         string     `json:"goal,omitempty"`
}

// TrackerProject identifies a project on the tracker
type TrackerProject struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// JobStatus is the state of an asynchronous synthesis
type JobStatus struct {
	WorkflowID string      `json:"workflowId"`
	Status     string      `json:"status"`
	Report     *SyncReport `json:"report,omitempty"`
}
