// Package po implements the product-owner operations: turning an analysis
// document into tracker structure, previewing the extraction, and reading
// a project's dashboard back from the tracker.
package po

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/analysis"
	"github.com/clintrovert/scopesync/internal/project"
	"github.com/clintrovert/scopesync/internal/synth"
	"github.com/clintrovert/scopesync/internal/temporal/workflows"
	"github.com/clintrovert/scopesync/pkg/types"
)

// ErrAsyncDisabled is returned when no job runner is configured
var ErrAsyncDisabled = errors.New("asynchronous synthesis is not configured")

// Synthesizer creates tracker structure for an analysis
type Synthesizer interface {
	Synthesize(ctx context.Context, creds types.JiraCredentials, model types.Analysis) types.SyncReport
}

// JobRunner runs synthesis in the background
type JobRunner interface {
	StartSynthesis(ctx context.Context, input workflows.SynthesisInput) (string, error)
	GetStatus(ctx context.Context, workflowID string) (types.JobStatus, error)
	CancelWorkflow(ctx context.Context, workflowID string) error
}

// CredentialStatus tells whether a project can be synchronised
type CredentialStatus struct {
	HasCredentials bool   `json:"hasCredentials"`
	ProjectKey     string `json:"projectKey,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Service coordinates parsing, synthesis and dashboard reads
type Service struct {
	projects    project.CredentialSource
	synthesizer Synthesizer
	readers     ReaderFactory
	jobs        JobRunner
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new service. jobs may be nil, which disables
// asynchronous synthesis.
func NewService(
	projects project.CredentialSource,
	synthesizer Synthesizer,
	readers ReaderFactory,
	jobs JobRunner,
	logger *zap.Logger,
) *Service {
	return &Service{
		projects:    projects,
		synthesizer: synthesizer,
		readers:     readers,
		jobs:        jobs,
		logger:      logger,
		now:         time.Now,
	}
}

// ProcessAnalysis parses a document and creates its structure on the
// project's tracker. Parse failures and unknown projects are returned as
// errors; everything else is reported in the SyncReport.
func (s *Service) ProcessAnalysis(ctx context.Context, text, projectID string) (types.SyncReport, error) {
	s.logger.Info("processing analysis",
		zap.String("project_id", projectID),
		zap.Int("document_length", len(text)),
	)

	parsed, err := s.Parse(text)
	if err != nil {
		return types.SyncReport{}, err
	}

	creds, err := s.projects.Credentials(ctx, projectID)
	if err != nil {
		return types.SyncReport{}, fmt.Errorf("failed to load credentials: %w", err)
	}

	report := s.synthesizer.Synthesize(ctx, creds, parsed.Analysis)
	if !report.Success {
		s.logger.Warn("synthesis did not complete",
			zap.String("project_id", projectID),
			zap.String("message", report.Message),
		)
	}
	return report, nil
}

// Parse extracts the analysis model without touching the tracker
func (s *Service) Parse(text string) (*analysis.Result, error) {
	parsed, err := analysis.Parse(text)
	if err != nil {
		s.logger.Error("failed to parse analysis", zap.Int("document_length", len(text)), zap.Error(err))
		return nil, err
	}

	for _, d := range parsed.Diagnostics {
		s.logger.Debug("extraction",
			zap.String("stage", d.Stage),
			zap.String("tier", d.Tier),
			zap.Int("count", d.Count),
			zap.String("message", d.Message),
		)
	}
	s.logger.Info("analysis parsed",
		zap.String("project_name", parsed.ProjectName),
		zap.Int("epics", len(parsed.Epics)),
		zap.Int("sprints", len(parsed.Sprints)),
		zap.Int("stories", len(parsed.UserStories)),
	)
	return parsed, nil
}

// CredentialStatus reports whether a project has usable tracker credentials
func (s *Service) CredentialStatus(ctx context.Context, projectID string) (CredentialStatus, error) {
	creds, err := s.projects.Credentials(ctx, projectID)
	if err != nil {
		return CredentialStatus{}, fmt.Errorf("failed to load credentials: %w", err)
	}
	status := CredentialStatus{HasCredentials: true, ProjectKey: creds.ProjectKey}
	if err := synth.CheckCredentials(creds); err != nil {
		status.HasCredentials = false
		status.Message = err.Error()
	}
	return status, nil
}

// StartAsync parses a document and hands its synthesis to the job runner.
// Credentials are resolved by the worker, so they never enter workflow history.
func (s *Service) StartAsync(ctx context.Context, text, projectID string) (string, error) {
	if s.jobs == nil {
		return "", ErrAsyncDisabled
	}

	parsed, err := s.Parse(text)
	if err != nil {
		return "", err
	}
	if _, err := s.projects.Credentials(ctx, projectID); err != nil {
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}

	id, err := s.jobs.StartSynthesis(ctx, workflows.SynthesisInput{
		ProjectID: projectID,
		Analysis:  parsed.Analysis,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start synthesis: %w", err)
	}

	s.logger.Info("started synthesis job",
		zap.String("project_id", projectID),
		zap.String("workflow_id", id),
	)
	return id, nil
}

// JobStatus returns the state of an asynchronous synthesis
func (s *Service) JobStatus(ctx context.Context, workflowID string) (types.JobStatus, error) {
	if s.jobs == nil {
		return types.JobStatus{}, ErrAsyncDisabled
	}
	return s.jobs.GetStatus(ctx, workflowID)
}

// CancelJob cancels a running asynchronous synthesis
func (s *Service) CancelJob(ctx context.Context, workflowID string) error {
	if s.jobs == nil {
		return ErrAsyncDisabled
	}
	if err := s.jobs.CancelWorkflow(ctx, workflowID); err != nil {
		return fmt.Errorf("failed to cancel workflow: %w", err)
	}
	s.logger.Info("cancelled synthesis job", zap.String("workflow_id", workflowID))
	return nil
}
