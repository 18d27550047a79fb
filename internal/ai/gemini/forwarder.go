// Package gemini relays content-generation requests to Google's Gemini API.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"bidcheck/internal/config"
	"bidcheck/internal/port"
)

const (
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.0-flash"
	maxRespBytes = 32 << 20
)

// Forwarder implements port.GenerationForwarder. The request body is sent
// as received; only the server-held API key is added.
type Forwarder struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewForwarder creates a Gemini forwarder from configuration.
func NewForwarder(cfg *config.GeminiConfig) *Forwarder {
	return newForwarder(cfg, "")
}

// NewForwarderWithEndpoint creates a forwarder pointing at a custom endpoint (for testing).
func NewForwarderWithEndpoint(cfg *config.GeminiConfig, endpoint string) *Forwarder {
	return newForwarder(cfg, endpoint)
}

func newForwarder(cfg *config.GeminiConfig, endpoint string) *Forwarder {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	base := cfg.BaseURL
	if base == "" {
		base = apiBaseURL
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", base, model)
	}
	return &Forwarder{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

var (
	_ port.GenerationForwarder = (*Forwarder)(nil)
	_ port.ThrottledError      = (*UpstreamError)(nil)
)

// Model returns the model requests are sent to.
func (f *Forwarder) Model() string {
	return f.model
}

// Forward posts body to the generateContent endpoint and returns the
// provider's response. Non-2xx answers are returned as *UpstreamError.
func (f *Forwarder) Forward(ctx context.Context, body []byte) (*port.ForwardResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxRespBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			RetryAfter: parseRetryAfterHeader(resp.Header.Get("Retry-After")),
		}
	}

	return &port.ForwardResult{StatusCode: resp.StatusCode, Body: respBody}, nil
}
