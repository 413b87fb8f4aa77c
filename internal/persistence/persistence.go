// Package persistence implements the optional persistence port (spec §4.7
// step 9, §6): writing match results back to an external brief store.
// Whether to persist is governed entirely by the caller supplying an
// assignmentId; a failure here is logged and never fails the response.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// Port is the single-method persistence capability (spec §9: "persistence
// is a port with a single method").
type Port interface {
	PersistMatches(ctx context.Context, assignmentID string, matches []scoring.Match) error
}

// HTTPPort persists match results via PATCH /assignments/{id}/matches.
type HTTPPort struct {
	baseURL string
	client  *http.Client
}

// HTTPPortConfig configures an HTTPPort.
type HTTPPortConfig struct {
	BaseURL string
}

// NewHTTPPort constructs an HTTP-backed persistence port.
func NewHTTPPort(cfg HTTPPortConfig) *HTTPPort {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPPort{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Transport: transport},
	}
}

type persistRequest struct {
	MatchResults []scoring.Match `json:"matchResults"`
}

func (p *HTTPPort) PersistMatches(ctx context.Context, assignmentID string, matches []scoring.Match) error {
	body, err := json.Marshal(persistRequest{MatchResults: matches})
	if err != nil {
		return domainerrors.Internal("marshal persist request", err)
	}

	url := fmt.Sprintf("%s/assignments/%s/matches", p.baseURL, assignmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return domainerrors.Internal("build persist request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return domainerrors.DependencyUnavailable("persistence", "persist request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domainerrors.DependencyUnavailable("persistence", fmt.Sprintf("persist returned %d", resp.StatusCode), nil)
	}
	return nil
}

func (p *HTTPPort) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// NoopPort discards persistence calls; used when no persistence backend is
// configured.
type NoopPort struct{}

func (NoopPort) PersistMatches(context.Context, string, []scoring.Match) error { return nil }
