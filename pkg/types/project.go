package types

import "time"

// JiraCredentials holds the per-project connection settings for the remote tracker
type JiraCredentials struct {
	URL        string `json:"url" yaml:"base_url"`
	Email      string `json:"email" yaml:"email"`
	APIToken   string `json:"-" yaml:"api_token"`
	ProjectKey string `json:"projectKey" yaml:"project_key"`
}

// Complete reports whether the credentials carry everything needed to authenticate
func (c JiraCredentials) Complete() bool {
	return c.URL != "" && c.Email != "" && c.APIToken != ""
}

// Project is a local project with its optional tracker configuration
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Jira        JiraCredentials `json:"jira"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// HasJiraConfig reports whether the project can be synchronised with the tracker
func (p Project) HasJiraConfig() bool {
	return p.Jira.Complete() && p.Jira.ProjectKey != ""
}
