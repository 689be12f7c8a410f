package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"bfhl/internal/config"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 1 << 20

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenRouter implements Answerer against an OpenAI-compatible chat completions endpoint.
// It is safe for concurrent use by multiple goroutines.
type OpenRouter struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
}

var _ Answerer = (*OpenRouter)(nil)

// NewOpenRouter creates a client from configuration. A missing API key is not an error here;
// every Answer call reports ErrNotConfigured instead so the rest of the API keeps serving.
func NewOpenRouter(cfg config.AIConfig) *OpenRouter {
	return &OpenRouter{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
}

// Answer sends prompt as a single user message and returns the first choice's content.
func (o *OpenRouter) Answer(ctx context.Context, prompt string) (string, error) {
	if o.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	var out chatResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrUpstream, out.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, decodeErr)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrUpstream)
	}
	return out.Choices[0].Message.Content, nil
}
