// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"errors"
	"fmt"

	"github.com/pdiddy/research-lookup/internal/httputil"
	"github.com/pdiddy/research-lookup/pkg/types"
)

// BackendError wraps a transport, status, or decoding failure from one
// backend. Its message is the underlying error's message.
type BackendError struct {
	Backend types.BackendID

	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	Err error
}

func (e *BackendError) Error() string {
	if e == nil {
		return "backend error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s backend error (status=%d)", e.Backend, e.Status)
}

func (e *BackendError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapError converts err into a *BackendError for backend, recovering the
// HTTP status when the failure was a non-2xx response.
func wrapError(backend types.BackendID, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be
	}
	out := &BackendError{Backend: backend, Err: err}
	var se *httputil.StatusError
	if errors.As(err, &se) {
		out.Status = se.StatusCode
	}
	return out
}
