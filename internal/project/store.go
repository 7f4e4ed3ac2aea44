// Package project persists local projects and the tracker credentials
// configured for each of them.
package project

import (
	"context"
	"errors"

	"github.com/clintrovert/scopesync/pkg/types"
)

// ErrNotFound is returned when a project does not exist
var ErrNotFound = errors.New("project not found")

// Store persists projects
type Store interface {
	Save(ctx context.Context, p *types.Project) error
	Get(ctx context.Context, id string) (*types.Project, error)
	List(ctx context.Context) ([]types.Project, error)
	Close() error
}

// CredentialSource resolves the tracker credentials of a project
type CredentialSource interface {
	Credentials(ctx context.Context, projectID string) (types.JiraCredentials, error)
}
