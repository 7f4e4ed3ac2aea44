package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/clintrovert/scopesync/internal/activities"
	"github.com/clintrovert/scopesync/pkg/types"
)

// SynthesisTimeout bounds a whole synthesis run
const SynthesisTimeout = 30 * time.Minute

// SynthesisWorkflow creates the structure of an analysis on the tracker.
// Remote creation is not idempotent, so the activity runs at most once.
func SynthesisWorkflow(ctx workflow.Context, input SynthesisInput) (types.SyncReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting synthesis workflow", "project_id", input.ProjectID)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: SynthesisTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var a *activities.SynthesisActivities
	var report types.SyncReport
	err := workflow.ExecuteActivity(ctx, a.SynthesizeActivity, activities.SynthesisRequest{
		ProjectID: input.ProjectID,
		Analysis:  input.Analysis,
	}).Get(ctx, &report)
	if err != nil {
		logger.Error("synthesis failed", "project_id", input.ProjectID, "error", err)
		return types.SyncReport{}, err
	}

	logger.Info("synthesis workflow finished",
		"project_id", input.ProjectID,
		"success", report.Success,
		"message", report.Message,
	)
	return report, nil
}
