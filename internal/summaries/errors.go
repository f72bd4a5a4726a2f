package summaries

import "errors"

var (
	// ErrNoTextContent is returned when extraction yields only whitespace.
	ErrNoTextContent = errors.New("no text content found in document")
	// ErrMisconfiguredCredential is returned when the summarizer has no API credential.
	ErrMisconfiguredCredential = errors.New("summarizer credential is not configured")
	// ErrSummarizationAPI wraps any failure of the upstream summarization call.
	ErrSummarizationAPI = errors.New("summarization api error")
)
