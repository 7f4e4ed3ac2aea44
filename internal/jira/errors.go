package jira

import (
	"errors"
	"fmt"
	"net/http"

	jira "github.com/andygrunwald/go-jira"
)

// ValidationError is returned when Jira rejects a request with a 4xx status
type ValidationError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("jira rejected %s with status %d: %v", e.Op, e.StatusCode, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UnavailableError is returned when Jira cannot be reached or answers with a 5xx status
type UnavailableError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("jira unreachable during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("jira unavailable during %s with status %d: %v", e.Op, e.StatusCode, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a rejection of the configured credentials
func IsUnauthorized(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && (verr.StatusCode == http.StatusUnauthorized || verr.StatusCode == http.StatusForbidden)
}

// IsNotFound reports whether err is a 404 from Jira
func IsNotFound(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.StatusCode == http.StatusNotFound
}

// IsUnavailable reports whether err is a transport failure or a Jira outage
func IsUnavailable(err error) bool {
	var uerr *UnavailableError
	return errors.As(err, &uerr)
}

// classify turns a go-jira call result into one of the typed errors. The
// response body, when still unread, is folded into the error message and
// closed.
func classify(op string, resp *jira.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp == nil || resp.Response == nil {
		return &UnavailableError{Op: op, Err: err}
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	var jerr *jira.Error
	if !errors.As(err, &jerr) {
		err = jira.NewJiraError(resp, err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &ValidationError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return &UnavailableError{Op: op, StatusCode: resp.StatusCode, Err: err}
}
