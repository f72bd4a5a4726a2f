package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"docsum-backend/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

type retrying struct {
	base  Summarizer
	delay time.Duration
}

// WithRetry retries a transient failure of base once after delay.
// A non-positive delay selects the default of 300ms.
func WithRetry(base Summarizer, delay time.Duration) Summarizer {
	if base == nil {
		return nil
	}
	if delay <= 0 {
		delay = retryBaseDelay
	}
	return retrying{base: base, delay: delay}
}

func (r retrying) Summarize(ctx context.Context, text string) (string, error) {
	summary, err := r.base.Summarize(ctx, text)
	if err == nil || !shouldRetry(err) {
		return summary, err
	}

	telemetry.Warn("llm.retry", map[string]any{
		"attempt": 1,
		"error":   err,
	})
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return "", err
	}

	return r.base.Summarize(ctx, text)
}

func shouldRetry(err error) bool {
	if err == nil || errors.Is(err, ErrMissingCredential) || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}
