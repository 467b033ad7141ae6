// ABOUTME: Sentinel errors for email drafting
// ABOUTME: Callers map them to unavailable or timeout responses
package drafts

import "errors"

var (
	// ErrNotConfigured indicates no API key was provided for the text-generation service.
	ErrNotConfigured = errors.New("email drafting is not configured")

	// ErrUnavailable indicates the text-generation service could not be reached or refused the request.
	ErrUnavailable = errors.New("text generation service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("text generation request timed out")

	// ErrInvalidOutput indicates the service answered without any usable text.
	ErrInvalidOutput = errors.New("text generation returned no usable output")
)
