// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package qapi

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend answers 401. The
// client has already cleared the persisted session by the time the
// caller sees this; the condition is fatal to the current session
// and never retryable; the caller must re-authenticate.
var ErrUnauthorized = errors.New("qapi: authentication rejected")

// APIError is a non-2xx, non-401 response from the backend. Callers
// extract it with errors.As when they need the status code:
//
//	var apiErr *qapi.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == 409 { ... }
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Detail is the server-supplied human-readable message, or the
	// raw response body when the server sent no structured detail.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("qapi: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("qapi: server returned %d: %s", e.StatusCode, e.Detail)
}

// IsStatus reports whether err is an *APIError with the given HTTP
// status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}
