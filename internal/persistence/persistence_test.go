package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

func TestHTTPPort_PatchesAssignmentMatches(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody persistRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	port := NewHTTPPort(HTTPPortConfig{BaseURL: server.URL})
	matches := []scoring.Match{{Creator: scoring.Creator{ID: "mm"}, MatchScore: 0.9}}

	err := port.PersistMatches(context.Background(), "assignment-1", matches)

	require.NoError(t, err)
	assert.Equal(t, "/assignments/assignment-1/matches", gotPath)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Len(t, gotBody.MatchResults, 1)
}

func TestHTTPPort_ReturnsErrorOnServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	port := NewHTTPPort(HTTPPortConfig{BaseURL: server.URL})
	err := port.PersistMatches(context.Background(), "assignment-1", nil)

	require.Error(t, err)
}

func TestNoopPort_AlwaysSucceeds(t *testing.T) {
	err := NoopPort{}.PersistMatches(context.Background(), "x", nil)
	require.NoError(t, err)
}
