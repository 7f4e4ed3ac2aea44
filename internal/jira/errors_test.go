package jira

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	jira "github.com/andygrunwald/go-jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

func errorResponse(status int, body *trackedBody) *jira.Response {
	return &jira.Response{Response: &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
	}}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		unauthorized bool
		notFound     bool
		unavailable  bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, unauthorized: true},
		{name: "forbidden", status: http.StatusForbidden, unauthorized: true},
		{name: "not found", status: http.StatusNotFound, notFound: true},
		{name: "bad request", status: http.StatusBadRequest},
		{name: "server error", status: http.StatusBadGateway, unavailable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &trackedBody{Reader: strings.NewReader(`{"errorMessages":["nope"]}`)}
			err := classify("create issue", errorResponse(tt.status, body), errors.New("request failed"))

			require.Error(t, err)
			assert.Equal(t, tt.unauthorized, IsUnauthorized(err))
			assert.Equal(t, tt.notFound, IsNotFound(err))
			assert.Equal(t, tt.unavailable, IsUnavailable(err))
			assert.True(t, body.closed, "error response body must be closed")
		})
	}
}

func TestClassify_Transport(t *testing.T) {
	err := classify("get board", nil, errors.New("dial tcp: no such host"))
	assert.True(t, IsUnavailable(err))
	assert.Contains(t, err.Error(), "jira unreachable during get board")

	assert.NoError(t, classify("get board", nil, nil))
}
