package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"docsum-backend/internal/llm"
	"docsum-backend/internal/shared/telemetry"
)

const (
	// DefaultAPIURL is the GitHub Models chat completions endpoint.
	DefaultAPIURL = "https://models.github.ai/inference/chat/completions"
	DefaultModel  = "gpt-4.1"

	defaultTimeout  = 60 * time.Second
	maxTokens       = 500
	maxErrorMessage = 512

	systemPrompt = "You are a helpful assistant that creates concise, accurate summaries of documents. " +
		"Provide a clear, well-structured summary that captures the main points and key information."
	userPromptPrefix = "Please summarize the following document:\n\n"
)

// Options configures a Client.
type Options struct {
	APIKey     string
	APIURL     string
	Model      string
	Timeout    time.Duration
	Limiter    *rate.Limiter
	HTTPClient *http.Client
}

// Client implements llm.Summarizer against an OpenAI-compatible chat completions API.
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewClient constructs a client. It fails with llm.ErrMissingCredential when no key is given.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, llm.ErrMissingCredential
	}
	if strings.TrimSpace(opts.APIURL) == "" {
		opts.APIURL = DefaultAPIURL
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		apiURL:     opts.APIURL,
		model:      opts.Model,
		limiter:    opts.Limiter,
		httpClient: httpClient,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Summarize sends text as the user turn and returns the first choice's content.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &llm.APIError{Message: "rate limiter: " + err.Error(), Err: err}
		}
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptPrefix + text},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "Client.Timeout") {
			msg = "request timeout: " + msg
		}
		return "", &llm.APIError{Message: msg, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.APIError{Status: resp.StatusCode, Message: "read response: " + err.Error(), Err: err}
	}

	var parsed chatResponse
	parseErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if parseErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", &llm.APIError{Status: resp.StatusCode, Message: truncateMessage(msg)}
	}
	if parseErr != nil {
		return "", &llm.APIError{Status: resp.StatusCode, Message: "invalid response body", Err: parseErr}
	}
	if parsed.Error != nil {
		return "", &llm.APIError{Status: resp.StatusCode, Message: truncateMessage(parsed.Error.Message)}
	}

	logUsage(c.model, parsed, time.Since(start))
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func truncateMessage(msg string) string {
	if msg == "" {
		return "empty error response"
	}
	if len(msg) > maxErrorMessage {
		return msg[:maxErrorMessage] + "..."
	}
	return msg
}

func logUsage(model string, parsed chatResponse, took time.Duration) {
	fields := map[string]any{
		"model":       model,
		"duration_ms": took.Milliseconds(),
		"choices":     len(parsed.Choices),
	}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
		fields["total_tokens"] = parsed.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Summarizer = (*Client)(nil)

