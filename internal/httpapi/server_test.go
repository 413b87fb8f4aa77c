package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
	"github.com/drumbeatlabs/creatormatch/internal/health"
	"github.com/drumbeatlabs/creatormatch/internal/orchestrator"
	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

type fakeMatcher struct {
	resp     orchestrator.Response
	err      error
	health   *health.Aggregator
}

func (f *fakeMatcher) Match(ctx context.Context, req orchestrator.Request) (orchestrator.Response, error) {
	return f.resp, f.err
}
func (f *fakeMatcher) Health() *health.Aggregator { return f.health }

func newTestServer(matcher *fakeMatcher) *httptest.Server {
	s := NewServer(":0", matcher, nil)
	mux := http.NewServeMux()
	mux.HandleFunc("/matches", s.handleMatches)
	mux.HandleFunc("/health", s.handleHealth)
	return httptest.NewServer(mux)
}

func TestHandleMatches_ReturnsOrchestratorResponse(t *testing.T) {
	matcher := &fakeMatcher{resp: orchestrator.Response{
		Matches:   []scoring.Match{{Creator: scoring.Creator{ID: "c1"}, MatchScore: 0.8}},
		Reasoning: "good fit",
	}}
	server := newTestServer(matcher)
	defer server.Close()

	body, _ := json.Marshal(matchRequestBody{Assignment: scoring.Assignment{Topic: "t"}})
	resp, err := http.Post(server.URL+"/matches", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out orchestrator.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "good fit", out.Reasoning)
}

func TestHandleMatches_ResponseUsesCamelCaseWireKeys(t *testing.T) {
	matcher := &fakeMatcher{resp: orchestrator.Response{
		Matches: []scoring.Match{{
			Creator:    scoring.Creator{ID: "c1", FollowerCount: 10000},
			MatchScore: 0.8123,
			ScoreBreakdown: scoring.ScoreBreakdown{
				SemanticSimilarity: 0.9,
				NicheAlignment:     2,
			},
		}},
		Reasoning: "good fit",
	}}
	server := newTestServer(matcher)
	defer server.Close()

	body, _ := json.Marshal(matchRequestBody{Assignment: scoring.Assignment{Topic: "t"}})
	resp, err := http.Post(server.URL+"/matches", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))

	matches, ok := raw["matches"].([]any)
	require.True(t, ok, "response must carry a top-level \"matches\" key")
	require.Len(t, matches, 1)

	match, ok := matches[0].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, match, "matchScore")
	assert.Contains(t, match, "scoreBreakdown")
	assert.NotContains(t, match, "MatchScore")
	assert.NotContains(t, match, "ScoreBreakdown")

	breakdown, ok := match["scoreBreakdown"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, breakdown, "nicheAlignment")
	assert.NotContains(t, breakdown, "NicheAlignment")

	creator, ok := match["creator"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, creator, "followerCount")
	assert.NotContains(t, creator, "FollowerCount")
}

func TestHandleMatches_ValidationErrorReturns400(t *testing.T) {
	matcher := &fakeMatcher{err: domainerrors.Validation("assignment failed validation", "topic")}
	server := newTestServer(matcher)
	defer server.Close()

	body, _ := json.Marshal(matchRequestBody{})
	resp, err := http.Post(server.URL+"/matches", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, domainerrors.ErrCodeValidation, out.Code)
	assert.Contains(t, out.Fields, "topic")
}

func TestHandleMatches_DependencyUnavailableReturns503(t *testing.T) {
	matcher := &fakeMatcher{err: domainerrors.DependencyUnavailable("catalog", "catalog empty", nil)}
	server := newTestServer(matcher)
	defer server.Close()

	body, _ := json.Marshal(matchRequestBody{})
	resp, err := http.Post(server.URL+"/matches", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleMatches_MalformedBodyReturns400(t *testing.T) {
	matcher := &fakeMatcher{}
	server := newTestServer(matcher)
	defer server.Close()

	resp, err := http.Post(server.URL+"/matches", "application/json", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleHealth_ReturnsAggregatorSnapshot(t *testing.T) {
	breaker := domainerrors.NewCircuitBreaker("embedding")
	dep := health.NewDependency("embedding", true, breaker)
	matcher := &fakeMatcher{health: health.New(dep)}
	server := newTestServer(matcher)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var snap health.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, health.StatusHealthy, snap.Status)
}

func TestHandleHealth_CriticalStatusReturns503(t *testing.T) {
	breaker := domainerrors.NewCircuitBreaker("embedding", domainerrors.WithMaxFailures(1))
	_ = breaker.Execute(func() error { return domainerrors.DependencyUnavailable("embedding", "down", nil) })
	dep := health.NewDependency("embedding", true, breaker)
	matcher := &fakeMatcher{health: health.New(dep)}
	server := newTestServer(matcher)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
