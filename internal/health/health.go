// Package health implements the Health Aggregator (spec §4.8): it folds
// per-dependency breaker states into an overall healthy/degraded/critical
// status and exposes, for each dependency, its breaker state, last error and
// the uptime fraction over its window of recent outcomes. The individual
// outcomes in that window are not exposed. Grounded on the teacher's
// async.IndexProgress /
// IndexProgressSnapshot mutex-guarded live-state pattern.
package health

import (
	"sync"
	"time"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
	"github.com/drumbeatlabs/creatormatch/internal/telemetry"
)

// Status is the overall system health rollup.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusCritical Status = "critical"
)

// fallbackWindow bounds how long a recent fallback keeps the system
// reporting degraded after the underlying dependency recovers.
const fallbackWindow = 5 * time.Minute

const defaultOutcomeWindow = 50

// Dependency tracks one external collaborator's breaker and recent outcome
// history.
type Dependency struct {
	Name     string
	Critical bool
	Breaker  *domainerrors.CircuitBreaker

	mu        sync.Mutex
	lastError string
	outcomes  *telemetry.CircularBuffer[bool]
}

// NewDependency creates a tracked dependency entry.
func NewDependency(name string, critical bool, breaker *domainerrors.CircuitBreaker) *Dependency {
	return &Dependency{
		Name:     name,
		Critical: critical,
		Breaker:  breaker,
		outcomes: telemetry.NewCircularBuffer[bool](defaultOutcomeWindow),
	}
}

// RecordOutcome records whether the most recent call to this dependency
// succeeded, for the uptime fraction and last-error reporting. The breaker
// itself is updated independently by resilience.Guard.
func (d *Dependency) RecordOutcome(err error) {
	d.outcomes.Add(err == nil)
	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.lastError = err.Error()
	} else {
		d.lastError = ""
	}
}

func (d *Dependency) uptimePct() float64 {
	outcomes := d.outcomes.Items()
	if len(outcomes) == 0 {
		return 1.0
	}
	successes := 0
	for _, ok := range outcomes {
		if ok {
			successes++
		}
	}
	return float64(successes) / float64(len(outcomes))
}

func (d *Dependency) snapshot() DependencySnapshot {
	d.mu.Lock()
	lastErr := d.lastError
	d.mu.Unlock()

	return DependencySnapshot{
		Name:      d.Name,
		State:     d.Breaker.State().String(),
		LastError: lastErr,
		UptimePct: d.uptimePct(),
	}
}

// DependencySnapshot is the read-only view of one dependency's health.
type DependencySnapshot struct {
	Name      string  `json:"name"`
	State     string  `json:"state"`
	LastError string  `json:"lastError,omitempty"`
	UptimePct float64 `json:"uptimePct"`
}

// Snapshot is the overall health response (spec §6: GET /health).
type Snapshot struct {
	Status       Status               `json:"status"`
	Dependencies []DependencySnapshot `json:"dependencies"`
}

// Aggregator folds dependency health into an overall Status.
type Aggregator struct {
	deps []*Dependency

	mu             sync.Mutex
	fallbackUsedAt time.Time
}

// New creates an Aggregator over the given dependencies.
func New(deps ...*Dependency) *Aggregator {
	return &Aggregator{deps: deps}
}

// MarkFallbackUsed records that the orchestrator degraded to rule-only
// ranking on the most recent request (spec §4.8: "fallback mode has been
// exercised recently").
func (a *Aggregator) MarkFallbackUsed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fallbackUsedAt = time.Now()
}

func (a *Aggregator) fallbackRecently(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.fallbackUsedAt.IsZero() && now.Sub(a.fallbackUsedAt) < fallbackWindow
}

// Snapshot computes the current overall status and per-dependency detail.
func (a *Aggregator) Snapshot(now time.Time) Snapshot {
	deps := make([]DependencySnapshot, 0, len(a.deps))
	status := StatusHealthy

	for _, d := range a.deps {
		ds := d.snapshot()
		deps = append(deps, ds)

		if ds.State == domainerrors.StateOpen.String() {
			if d.Critical {
				status = StatusCritical
			} else if status != StatusCritical {
				status = StatusDegraded
			}
		}
	}

	if status == StatusHealthy && a.fallbackRecently(now) {
		status = StatusDegraded
	}

	return Snapshot{Status: status, Dependencies: deps}
}
