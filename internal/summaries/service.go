package summaries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docsum-backend/internal/documents"
	"docsum-backend/internal/llm"
	"docsum-backend/internal/shared/metrics"
	"docsum-backend/internal/shared/telemetry"
)

// Source records where a persisted summary came from.
type Source string

const (
	SourceAI         Source = "ai"
	SourceExtractive Source = "extractive"
)

// Result is a freshly generated and persisted summary.
type Result struct {
	Summary  string
	Source   Source
	Document documents.Document
}

// Service generates summaries. Document bytes are read through documents.Service.
type Service struct {
	Docs *documents.Service
	LLM  llm.Summarizer
}

// Generate extracts the document text, asks the summarizer for a summary and
// stores it, replacing any previous summary. The extractive fallback is used
// only when the summarizer succeeds with empty content; every summarizer error
// is returned.
func (s *Service) Generate(ctx context.Context, id string) (Result, error) {
	start := time.Now()
	res, err := s.generate(ctx, id)
	metrics.SummaryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SummaryFailures.WithLabelValues(failureReason(err)).Inc()
		return Result{}, err
	}
	metrics.SummariesGenerated.WithLabelValues(string(res.Source)).Inc()
	return res, nil
}

func (s *Service) generate(ctx context.Context, id string) (Result, error) {
	doc, text, err := s.Docs.ExtractText(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrNoTextContent
	}

	summarizer := s.LLM
	if summarizer == nil {
		summarizer = llm.Unconfigured{}
	}
	summary, err := summarizer.Summarize(ctx, Truncate(text))
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			return Result{}, fmt.Errorf("%w: %w", ErrMisconfiguredCredential, err)
		}
		telemetry.Error("summaries.api_error", map[string]any{
			"document_id": doc.ID,
			"error":       err,
		})
		return Result{}, fmt.Errorf("%w: %w", ErrSummarizationAPI, err)
	}

	source := SourceAI
	if strings.TrimSpace(summary) == "" {
		summary = ExtractiveSummary(text)
		source = SourceExtractive
		telemetry.Warn("summaries.fallback", map[string]any{
			"document_id": doc.ID,
		})
	}

	updated, err := s.Docs.UpdateSummary(ctx, doc.ID, summary)
	if err != nil {
		return Result{}, err
	}
	if updated.Summary != nil {
		summary = *updated.Summary
	}
	return Result{Summary: summary, Source: source, Document: updated}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoTextContent):
		return "no_text_content"
	case errors.Is(err, ErrMisconfiguredCredential):
		return "misconfigured_credential"
	case errors.Is(err, ErrSummarizationAPI):
		return "api_error"
	case errors.Is(err, documents.ErrStorageRead):
		return "storage_read"
	case errors.Is(err, documents.ErrMetadataWrite):
		return "metadata_write"
	default:
		return "other"
	}
}
