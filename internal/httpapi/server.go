// Package httpapi exposes the Match Orchestrator over HTTP (spec §6):
// POST /matches and GET /health. It mirrors the connection-handling shape of
// the project's original socket server (accept loop, graceful shutdown via
// context, per-request deadline) adapted to net/http.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
	"github.com/drumbeatlabs/creatormatch/internal/health"
	"github.com/drumbeatlabs/creatormatch/internal/orchestrator"
	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// Matcher is the capability the server dispatches POST /matches to.
type Matcher interface {
	Match(ctx context.Context, req orchestrator.Request) (orchestrator.Response, error)
	Health() *health.Aggregator
}

// Server serves the HTTP API on a single listener.
type Server struct {
	addr    string
	matcher Matcher
	logger  *slog.Logger

	httpServer *http.Server

	mu       sync.Mutex
	shutdown bool
}

// NewServer constructs a Server bound to addr (e.g. ":8080").
func NewServer(addr string, matcher Matcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{addr: addr, matcher: matcher, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/matches", s.handleMatches)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 20 * time.Second,
	}
	return s
}

// ListenAndServe starts the server and blocks until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.logger.Info("server listening", slog.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return ctx.Err()
	}
	return err
}

type matchRequestBody struct {
	Assignment   scoring.Assignment `json:"assignment"`
	AssignmentID string             `json:"assignmentId"`
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, domainerrors.New(domainerrors.ErrCodeValidation, "method not allowed", nil))
		return
	}

	var body matchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, domainerrors.Validation("malformed request body", "body"))
		return
	}

	resp, err := s.matcher.Match(r.Context(), orchestrator.Request{
		Assignment:   body.Assignment,
		AssignmentID: body.AssignmentID,
	})
	if err != nil {
		s.logger.Warn("match request failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.matcher.Health().Snapshot(time.Now())
	status := http.StatusOK
	if snap.Status == health.StatusCritical {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, snap)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Dependency string   `json:"dependency,omitempty"`
	Fields     []string `json:"fields,omitempty"`
}

// writeError maps a MatchError onto an HTTP status and a stable error body
// (spec §7). Non-MatchError values are treated as internal errors.
func writeError(w http.ResponseWriter, err error) {
	var me *domainerrors.MatchError
	if !errors.As(err, &me) {
		me = domainerrors.Internal(err.Error(), err)
	}

	status := http.StatusInternalServerError
	switch me.Code {
	case domainerrors.ErrCodeValidation:
		status = http.StatusBadRequest
	case domainerrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case domainerrors.ErrCodeThrottled, domainerrors.ErrCodeDependencyUnavailable, domainerrors.ErrCodeCircuitOpen:
		status = http.StatusServiceUnavailable
		if ms := domainerrors.RetryAfterOf(me); ms > 0 {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", (ms+999)/1000))
		}
	case domainerrors.ErrCodeDeadlineExceeded:
		status = http.StatusGatewayTimeout
	case domainerrors.ErrCodeConfigInvalid, domainerrors.ErrCodeInternal:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, errorBody{
		Code:       me.Code,
		Message:    me.Message,
		Dependency: me.Dependency,
		Fields:     me.Fields,
	})
}
