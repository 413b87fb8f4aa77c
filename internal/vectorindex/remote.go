package vectorindex

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

// RemoteIndex is the contractually-required HTTP adapter for a production
// ANN service (spec §4.2, §6 "cloud/region" configuration).
type RemoteIndex struct {
	baseURL string
	client  *http.Client
}

// RemoteIndexConfig configures a RemoteIndex.
type RemoteIndexConfig struct {
	BaseURL string
}

// NewRemoteIndex constructs an HTTP-backed vector index client.
func NewRemoteIndex(cfg RemoteIndexConfig) *RemoteIndex {
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &RemoteIndex{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Transport: transport},
	}
}

type ensureIndexRequest struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
}

func (r *RemoteIndex) EnsureIndex(ctx context.Context, name string, dim int) error {
	body, _ := json.Marshal(ensureIndexRequest{Name: name, Dimension: dim, Metric: "cosine"})
	resp, err := r.post(ctx, "/indexes", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// "Already exists" is treated as success (spec §4.2: at-most-once under races).
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusConflict {
		return classifyStatus("vectorIndex", resp)
	}
	return nil
}

type upsertRequest struct {
	Vectors []Vector `json:"vectors"`
}

func (r *RemoteIndex) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	if len(vectors) > maxBatchSize {
		return domainerrors.Validation(fmt.Sprintf("upsert batch of %d exceeds max batch size %d", len(vectors), maxBatchSize))
	}

	body, _ := json.Marshal(upsertRequest{Vectors: vectors})
	resp, err := r.post(ctx, "/vectors:upsert", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return classifyStatus("vectorIndex", resp)
	}
	return nil
}

type queryRequest struct {
	Vector []float32         `json:"vector"`
	TopK   int               `json:"topK"`
	Filter map[string]string `json:"filter,omitempty"`
}

type queryResponse struct {
	Matches []Result `json:"matches"`
}

func (r *RemoteIndex) Query(ctx context.Context, v []float32, topK int, filter map[string]string) ([]Result, error) {
	topK = clampTopK(topK)
	body, _ := json.Marshal(queryRequest{Vector: v, TopK: topK, Filter: filter})

	resp, err := r.post(ctx, "/vectors:query", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, classifyStatus("vectorIndex", resp)
	}

	var parsed queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domainerrors.DependencyUnavailable("vectorIndex", "decode query response", err)
	}
	return parsed.Matches, nil
}

type statsResponse struct {
	VectorCount int `json:"vectorCount"`
	Dimension   int `json:"dimension"`
}

func (r *RemoteIndex) Stats(ctx context.Context) (Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/stats", nil)
	if err != nil {
		return Stats{}, domainerrors.Internal("build stats request", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return Stats{}, domainerrors.DependencyUnavailable("vectorIndex", "stats request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Stats{}, classifyStatus("vectorIndex", resp)
	}

	var parsed statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Stats{}, domainerrors.DependencyUnavailable("vectorIndex", "decode stats response", err)
	}
	return Stats{VectorCount: parsed.VectorCount, Dimension: parsed.Dimension}, nil
}

func (r *RemoteIndex) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func (r *RemoteIndex) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, domainerrors.Internal("build vector index request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, domainerrors.DependencyUnavailable("vectorIndex", "vector index request failed", err)
	}
	return resp, nil
}

func classifyStatus(dependency string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domainerrors.Throttled(dependency, "provider rate limited", 0)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return domainerrors.DependencyUnavailable(dependency, "index initializing", nil)
	case resp.StatusCode >= 500:
		return domainerrors.DependencyUnavailable(dependency, fmt.Sprintf("provider returned %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return domainerrors.ConfigInvalid("dimension or metric mismatch", nil)
	default:
		return domainerrors.ConfigInvalid(fmt.Sprintf("vector index rejected request: %d", resp.StatusCode), nil)
	}
}
