// Package completion implements the Completion Adapter (spec §4.4):
// prompt-to-text for short explanatory rationales. Output is advisory only
// and never feeds back into ranking.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
)

// Options bounds a single completion call.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Completer is the capability every provider implements.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
	ModelName() string
	Available(ctx context.Context) bool
	Close() error
}

// HTTPCompleter calls a remote completion provider over HTTP.
type HTTPCompleter struct {
	baseURL string
	model   string
	client  *http.Client
}

// HTTPCompleterConfig configures an HTTPCompleter.
type HTTPCompleterConfig struct {
	BaseURL string
	Model   string
}

// NewHTTPCompleter constructs a provider-agnostic HTTP completer.
func NewHTTPCompleter(cfg HTTPCompleterConfig) *HTTPCompleter {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPCompleter{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Transport: transport},
	}
}

type completeRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type completeResponse struct {
	Text string `json:"text"`
}

func (h *HTTPCompleter) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	body, err := json.Marshal(completeRequest{
		Model:       h.model,
		Prompt:      prompt,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", domainerrors.Internal("marshal completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return "", domainerrors.Internal("build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", domainerrors.DependencyUnavailable("completion", "completion request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfterMS(resp.Header.Get("Retry-After"))
		return "", domainerrors.Throttled("completion", "provider rate limited", retryAfter)
	case resp.StatusCode >= 500:
		return "", domainerrors.DependencyUnavailable("completion", fmt.Sprintf("provider returned %d", resp.StatusCode), nil)
	case resp.StatusCode >= 400:
		return "", domainerrors.ConfigInvalid(fmt.Sprintf("completion provider rejected request: %d", resp.StatusCode), nil)
	}

	var parsed completeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domainerrors.DependencyUnavailable("completion", "decode completion response", err)
	}
	return parsed.Text, nil
}

func (h *HTTPCompleter) ModelName() string { return h.model }

func (h *HTTPCompleter) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

func (h *HTTPCompleter) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

func parseRetryAfterMS(header string) int64 {
	if header == "" {
		return 0
	}
	if secs, err := time.ParseDuration(header + "s"); err == nil {
		return secs.Milliseconds()
	}
	return 0
}

// CannedFallback is substituted whenever the completion adapter fails
// terminally; the orchestrator never fails a request over a rationale
// (spec §4.4).
const CannedFallback = "These creators were selected based on their content alignment and audience fit for this brief."
