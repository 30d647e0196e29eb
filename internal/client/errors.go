// ABOUTME: Typed error kinds for the LexiBridge API client
// ABOUTME: Lets callers distinguish auth, validation, upload, analysis, timeout, and transport failures

package client

import "fmt"

// AuthError indicates bad credentials or a missing/expired token.
// A 401 from any authenticated endpoint produces one of these after the
// session has been invalidated.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication failed"
}

// ValidationError indicates a client-side constraint violation. It is raised
// before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UploadError indicates the server rejected the upload or returned a
// malformed upload response.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// AnalysisError indicates the AI call failed or returned no usable content.
type AnalysisError struct {
	Message string
}

func (e *AnalysisError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "analysis failed"
}

// TimeoutError indicates an AI call exceeded its deadline. It is distinct
// from AnalysisError so the caller can offer a retry affordance.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out", e.Op)
}

// NetworkError indicates a transport-level failure (connection refused,
// DNS, offline).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot reach backend at %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
