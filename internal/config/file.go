package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/clintrovert/scopesync/internal/jira"
	"github.com/clintrovert/scopesync/pkg/types"
)

// FileConfig is the configuration of the command-line tool
type FileConfig struct {
	Jira     JiraConfig     `yaml:"jira"`
	Database DatabaseConfig `yaml:"database"`
}

// JiraConfig holds default tracker credentials
type JiraConfig struct {
	BaseURL    string `yaml:"base_url"`
	Email      string `yaml:"email"`
	APIToken   string `yaml:"api_token"`
	ProjectKey string `yaml:"project_key"`
	Timeout    int    `yaml:"timeout_seconds"`
}

// DatabaseConfig locates the project store
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoadFile loads configuration from a YAML file
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "scopesync.db"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks that a partially filled jira block is complete
func (c *FileConfig) Validate() error {
	j := c.Jira
	if j == (JiraConfig{}) {
		return nil
	}
	if j.BaseURL == "" {
		return fmt.Errorf("JIRA base URL is required")
	}
	if j.Email == "" {
		return fmt.Errorf("JIRA email is required")
	}
	if j.APIToken == "" {
		return fmt.Errorf("JIRA API token is required")
	}
	if j.ProjectKey == "" {
		return fmt.Errorf("JIRA project key is required")
	}
	if j.Timeout < 0 {
		return fmt.Errorf("JIRA timeout must not be negative")
	}
	return nil
}

// Credentials converts the jira block to tracker credentials
func (j JiraConfig) Credentials() types.JiraCredentials {
	return types.JiraCredentials{
		URL:        j.BaseURL,
		Email:      j.Email,
		APIToken:   j.APIToken,
		ProjectKey: j.ProjectKey,
	}
}

// TimeoutOrDefault returns the configured timeout
func (j JiraConfig) TimeoutOrDefault() time.Duration {
	if j.Timeout <= 0 {
		return jira.DefaultTimeout
	}
	return time.Duration(j.Timeout) * time.Second
}
