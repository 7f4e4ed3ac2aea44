package activities

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/project"
	"github.com/clintrovert/scopesync/pkg/types"
)

// Synthesizer creates tracker structure for an analysis
type Synthesizer interface {
	Synthesize(ctx context.Context, creds types.JiraCredentials, model types.Analysis) types.SyncReport
}

// SynthesisActivities runs synthesis on behalf of a workflow
type SynthesisActivities struct {
	projects    project.CredentialSource
	synthesizer Synthesizer
	logger      *zap.Logger
}

// NewSynthesisActivities creates a new synthesis activities handler
func NewSynthesisActivities(projects project.CredentialSource, synthesizer Synthesizer, logger *zap.Logger) *SynthesisActivities {
	return &SynthesisActivities{
		projects:    projects,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// SynthesizeActivity resolves the project credentials and creates the
// analysis structure on the tracker. An unknown project is not retried.
func (a *SynthesisActivities) SynthesizeActivity(ctx context.Context, req SynthesisRequest) (types.SyncReport, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("synthesizing analysis",
		"project_id", req.ProjectID,
		"epics", len(req.Analysis.Epics),
		"sprints", len(req.Analysis.Sprints),
		"stories", len(req.Analysis.UserStories),
	)

	creds, err := a.projects.Credentials(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return types.SyncReport{}, temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("project %s not found", req.ProjectID), "ProjectNotFound", err)
		}
		return types.SyncReport{}, fmt.Errorf("failed to load credentials: %w", err)
	}

	report := a.synthesizer.Synthesize(ctx, creds, req.Analysis)
	if !report.Success {
		a.logger.Warn("synthesis did not complete",
			zap.String("project_id", req.ProjectID),
			zap.String("message", report.Message),
		)
	}
	return report, nil
}
