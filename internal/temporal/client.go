package temporal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/temporal/workflows"
	"github.com/clintrovert/scopesync/pkg/types"
)

// ErrWorkflowNotFound is returned when a workflow id is unknown
var ErrWorkflowNotFound = errors.New("workflow not found")

// Client wraps Temporal client functionality
type Client struct {
	temporalClient client.Client
	logger         *zap.Logger
	taskQueue      string
}

// NewClient creates a new Temporal client
func NewClient(address, namespace, taskQueue string, logger *zap.Logger) (*Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  address,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal client: %w", err)
	}

	return &Client{
		temporalClient: c,
		logger:         logger,
		taskQueue:      taskQueue,
	}, nil
}

// StartSynthesis starts a new synthesis workflow
func (c *Client) StartSynthesis(ctx context.Context, input workflows.SynthesisInput) (string, error) {
	workflowID := fmt.Sprintf("synthesis-%s-%s", input.ProjectID, uuid.NewString())

	workflowOptions := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: c.taskQueue,
	}

	we, err := c.temporalClient.ExecuteWorkflow(ctx, workflowOptions, workflows.SynthesisWorkflow, input)
	if err != nil {
		return "", fmt.Errorf("failed to start workflow: %w", err)
	}

	c.logger.Info("started workflow",
		zap.String("workflow_id", we.GetID()),
		zap.String("run_id", we.GetRunID()),
		zap.String("project_id", input.ProjectID),
	)

	return we.GetID(), nil
}

// GetStatus retrieves the status of a synthesis workflow, with its report
// once it has completed
func (c *Client) GetStatus(ctx context.Context, workflowID string) (types.JobStatus, error) {
	resp, err := c.temporalClient.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return types.JobStatus{}, workflowError(workflowID, "failed to describe workflow", err)
	}

	status := resp.GetWorkflowExecutionInfo().GetStatus()
	job := types.JobStatus{
		WorkflowID: workflowID,
		Status:     statusName(status),
	}

	if status == enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED {
		var report types.SyncReport
		if err := c.temporalClient.GetWorkflow(ctx, workflowID, "").Get(ctx, &report); err != nil {
			c.logger.Warn("failed to read workflow result",
				zap.String("workflow_id", workflowID),
				zap.Error(err),
			)
		} else {
			job.Report = &report
		}
	}

	return job, nil
}

func statusName(status enumspb.WorkflowExecutionStatus) string {
	switch status {
	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING:
		return "running"
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		return "completed"
	case enumspb.WORKFLOW_EXECUTION_STATUS_FAILED:
		return "failed"
	case enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED:
		return "canceled"
	case enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED:
		return "terminated"
	case enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		return "timed_out"
	default:
		return "unknown"
	}
}

// CancelWorkflow cancels a running workflow
func (c *Client) CancelWorkflow(ctx context.Context, workflowID string) error {
	if err := c.temporalClient.CancelWorkflow(ctx, workflowID, ""); err != nil {
		return workflowError(workflowID, "failed to cancel workflow", err)
	}
	return nil
}

// workflowError maps Temporal's not-found error to ErrWorkflowNotFound
func workflowError(workflowID, msg string, err error) error {
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s: %w", workflowID, ErrWorkflowNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Close closes the Temporal client
func (c *Client) Close() {
	c.temporalClient.Close()
}
