package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"docsum-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if opts.APIKey == "" {
		opts.APIKey = "test-token"
	}
	opts.APIURL = srv.URL
	client, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestSummarizeSendsPromptAndReturnsContent(t *testing.T) {
	var got chatRequest
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A short summary. "}}],"usage":{"prompt_tokens":10,"completion_tokens":4,"total_tokens":14}}`))
	}, Options{})

	summary, err := client.Summarize(context.Background(), "Document body.")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary != "A short summary." {
		t.Fatalf("unexpected summary %q", summary)
	}
	if auth != "Bearer test-token" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got.Model != DefaultModel || got.MaxTokens != 500 {
		t.Fatalf("unexpected request model=%q max_tokens=%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if got.Messages[1].Content != "Please summarize the following document:\n\nDocument body." {
		t.Fatalf("unexpected user turn %q", got.Messages[1].Content)
	}
	if !strings.HasPrefix(got.Messages[0].Content, "You are a helpful assistant that creates concise, accurate summaries of documents.") {
		t.Fatalf("unexpected system prompt %q", got.Messages[0].Content)
	}
}

func TestSummarizeEmptyContentIsNotAnError(t *testing.T) {
	for _, body := range []string{
		`{"choices":[{"message":{"role":"assistant","content":""}}]}`,
		`{"choices":[]}`,
	} {
		body := body
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}, Options{})
		summary, err := client.Summarize(context.Background(), "text")
		if err != nil {
			t.Fatalf("body %s: unexpected error %v", body, err)
		}
		if summary != "" {
			t.Fatalf("body %s: expected empty summary, got %q", body, summary)
		}
	}
}

func TestSummarizeNon2xxReturnsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Bad credentials","type":"invalid_request_error"}}`))
	}, Options{})

	_, err := client.Summarize(context.Background(), "text")
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Bad credentials" {
		t.Fatalf("unexpected APIError %+v", apiErr)
	}
}

func TestSummarizeNonJSONErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}, Options{})

	_, err := client.Summarize(context.Background(), "text")
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream exploded" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSummarizeTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Options{Timeout: 50 * time.Millisecond})
	defer close(release)

	_, err := client.Summarize(context.Background(), "text")
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 0 || !strings.Contains(apiErr.Message, "timeout") {
		t.Fatalf("unexpected APIError %+v", apiErr)
	}
}

func TestSummarizeWaitsOnLimiter(t *testing.T) {
	var calls int32
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}, Options{Limiter: limiter})

	if _, err := client.Summarize(context.Background(), "text"); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Summarize(ctx, "text")
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected limiter APIError, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected limiter to block second upstream call, got %d calls", calls)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Options{APIKey: "  "}); !errors.Is(err, llm.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
