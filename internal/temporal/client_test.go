package temporal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/mocks"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T) (*Client, *mocks.Client) {
	t.Helper()
	m := &mocks.Client{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return &Client{temporalClient: m, logger: zaptest.NewLogger(t), taskQueue: "synthesis-queue"}, m
}

func TestCancelWorkflow(t *testing.T) {
	c, m := newTestClient(t)
	m.On("CancelWorkflow", mock.Anything, "synthesis-p-1", "").Return(nil).Once()

	assert.NoError(t, c.CancelWorkflow(context.Background(), "synthesis-p-1"))
}

func TestCancelWorkflow_UnknownID(t *testing.T) {
	c, m := newTestClient(t)
	m.On("CancelWorkflow", mock.Anything, "missing", "").
		Return(serviceerror.NewNotFound("workflow not found")).Once()

	err := c.CancelWorkflow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestCancelWorkflow_OtherError(t *testing.T) {
	c, m := newTestClient(t)
	m.On("CancelWorkflow", mock.Anything, "synthesis-p-1", "").
		Return(errors.New("connection refused")).Once()

	err := c.CancelWorkflow(context.Background(), "synthesis-p-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrWorkflowNotFound)
}

func TestGetStatus_UnknownID(t *testing.T) {
	c, m := newTestClient(t)
	m.On("DescribeWorkflowExecution", mock.Anything, "missing", "").
		Return(nil, serviceerror.NewNotFound("workflow not found")).Once()

	_, err := c.GetStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}
