package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
)

// HTTPEmbedder calls a remote embedding provider over HTTP, generalized
// from the teacher's Ollama HTTP client: a pooled transport, a per-call
// context deadline, and a health check used by Available.
type HTTPEmbedder struct {
	baseURL     string
	model       string
	dim         int
	concurrency int
	client      *http.Client
}

// HTTPEmbedderConfig configures an HTTPEmbedder.
type HTTPEmbedderConfig struct {
	BaseURL     string
	Model       string
	Dimensions  int
	Concurrency int // default 3, spec §4.3
}

// NewHTTPEmbedder constructs a provider-agnostic HTTP embedder. The remote
// API is expected to accept {"model","input"} and return {"embedding":[...]}
// per request, which is the lowest common denominator across the major
// hosted embedding APIs.
func NewHTTPEmbedder(cfg HTTPEmbedderConfig) *HTTPEmbedder {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 3
	}

	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &HTTPEmbedder{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		dim:         cfg.Dimensions,
		concurrency: concurrency,
		client:      &http.Client{Transport: transport},
	}
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (h *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	body, err := json.Marshal(embedRequest{Model: h.model, Input: text})
	if err != nil {
		return nil, domainerrors.Internal("marshal embed request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, domainerrors.Internal("build embed request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, domainerrors.DependencyUnavailable("embedding", "embed request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfterMS(resp.Header.Get("Retry-After"))
		return nil, domainerrors.Throttled("embedding", "provider rate limited", retryAfter)
	case resp.StatusCode >= 500:
		return nil, domainerrors.DependencyUnavailable("embedding", fmt.Sprintf("provider returned %d", resp.StatusCode), nil)
	case resp.StatusCode >= 400:
		return nil, domainerrors.ConfigInvalid(fmt.Sprintf("embedding provider rejected request: %d", resp.StatusCode), nil)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domainerrors.DependencyUnavailable("embedding", "decode embed response", err)
	}

	if h.dim > 0 && len(parsed.Embedding) != h.dim {
		return nil, domainerrors.ConfigInvalid(
			fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", h.dim, len(parsed.Embedding)), nil)
	}

	return normalizeVector(parsed.Embedding), nil
}

// EmbedBatch fans out Embed calls bounded by h.concurrency (spec §4.3, cap C).
func (h *HTTPEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)

	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			vec, err := h.Embed(gctx, text)
			if err != nil {
				return err
			}
			out[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HTTPEmbedder) Dimensions() int { return h.dim }

func (h *HTTPEmbedder) ModelName() string { return h.model }

func (h *HTTPEmbedder) Available(ctx context.Context) bool {
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

func (h *HTTPEmbedder) Close() error {
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
