package usecases

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrFetchFailed     = errors.New("fetch failed")
	ErrWriteFailed     = errors.New("write failed")
	ErrNotSubmittable  = errors.New("form is not submittable")
	ErrSubmitInFlight  = errors.New("submission already in flight")
	ErrSaveInFlight    = errors.New("save already in flight")
	ErrDraftForm       = errors.New("form has not been persisted")
	ErrAlreadyActive   = errors.New("live view already active")
	ErrStreamClosed    = errors.New("stream closed")
	ErrMalformedPush   = errors.New("malformed push payload")
	ErrForeignSnapshot = errors.New("snapshot belongs to another form")
)

// FetchError is a failed read: transport error or non-2xx status.
type FetchError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, describe(e.StatusCode, e.Message, e.Err))
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// WriteError is a failed or rejected write (form save, response submit).
type WriteError struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, describe(e.StatusCode, e.Detail, e.Err))
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailed
}

func describe(status int, detail string, err error) string {
	parts := make([]string, 0, 3)
	if status != 0 {
		parts = append(parts, fmt.Sprintf("%d %s", status, http.StatusText(status)))
	}
	if detail != "" {
		parts = append(parts, detail)
	}
	if err != nil {
		parts = append(parts, err.Error())
	}
	if len(parts) == 0 {
		return "unknown error"
	}
	return strings.Join(parts, ": ")
}
