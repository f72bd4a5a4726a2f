package llm

import (
	"context"
	"errors"
	"fmt"
)

// Summarizer produces a summary of plain text. An empty string with a nil
// error means the provider answered successfully but returned no content.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// ErrMissingCredential is returned when no API credential is configured.
var ErrMissingCredential = errors.New("summarizer credential is not configured")

// APIError describes a failed call to the summarization provider.
// Status is the upstream HTTP status, or 0 when no response was received.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("summarizer request failed: %s", e.Message)
	}
	return fmt.Sprintf("summarizer http status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Unconfigured is used when no credential is set; it fails without any network call.
type Unconfigured struct{}

// Summarize returns ErrMissingCredential.
func (Unconfigured) Summarize(context.Context, string) (string, error) {
	return "", ErrMissingCredential
}
