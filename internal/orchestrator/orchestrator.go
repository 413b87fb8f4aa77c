package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drumbeatlabs/creatormatch/internal/catalog"
	"github.com/drumbeatlabs/creatormatch/internal/completion"
	"github.com/drumbeatlabs/creatormatch/internal/config"
	"github.com/drumbeatlabs/creatormatch/internal/embedding"
	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
	"github.com/drumbeatlabs/creatormatch/internal/health"
	"github.com/drumbeatlabs/creatormatch/internal/persistence"
	"github.com/drumbeatlabs/creatormatch/internal/resilience"
	"github.com/drumbeatlabs/creatormatch/internal/scoring"
	"github.com/drumbeatlabs/creatormatch/internal/vectorindex"
)

// Orchestrator assembles the match(assignment) pipeline from injected
// adapter handles, each wrapped in its own resilience.Guard, plus the
// catalog cache and an explicit clock (spec §9: dependency injection, no
// singletons in the core).
type Orchestrator struct {
	cfg     *config.Config
	catalog *catalog.Cache
	logger  *slog.Logger
	now     func() time.Time

	embedder    embedding.Embedder
	embedGuard  *resilience.Guard
	vectorIdx   vectorindex.Index
	vectorGuard *resilience.Guard
	completer   completion.Completer
	compGuard   *resilience.Guard
	persister   persistence.Port
	persistGuard *resilience.Guard

	health       *health.Aggregator
	embedDep     *health.Dependency
	vectorDep    *health.Dependency
	compDep      *health.Dependency
	persistDep   *health.Dependency
}

// Dependencies bundles the adapter handles New requires.
type Dependencies struct {
	Catalog     *catalog.Cache
	Embedder    embedding.Embedder
	VectorIndex vectorindex.Index
	Completer   completion.Completer
	Persister   persistence.Port // may be nil; defaults to persistence.NoopPort{}
	Logger      *slog.Logger
}

// New builds an Orchestrator, constructing one circuit breaker and retry
// policy per dependency from cfg.Resilience (spec §4.5).
func New(cfg *config.Config, deps Dependencies) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	persister := deps.Persister
	if persister == nil {
		persister = persistence.NoopPort{}
	}

	breakerOpts := []domainerrors.CircuitBreakerOption{
		domainerrors.WithMaxFailures(cfg.Resilience.BreakerFailureThreshold),
		domainerrors.WithResetTimeout(cfg.Resilience.BreakerResetTimeout),
	}
	retryCfg := domainerrors.RetryConfig{
		MaxAttempts: cfg.Resilience.RetryMaxAttempts,
		BaseDelay:   cfg.Resilience.RetryBaseDelay,
		MaxDelay:    cfg.Resilience.RetryMaxDelay,
		Jitter:      0.2,
	}

	embedGuard := resilience.New("embedding", breakerOpts, retryCfg)
	vectorGuard := resilience.New("vectorIndex", breakerOpts, retryCfg)
	compGuard := resilience.New("completion", breakerOpts, retryCfg)
	persistGuard := resilience.New("persistence", breakerOpts, retryCfg)

	embedDep := health.NewDependency("embedding", true, embedGuard.Breaker())
	vectorDep := health.NewDependency("vectorIndex", true, vectorGuard.Breaker())
	compDep := health.NewDependency("completion", false, compGuard.Breaker())
	persistDep := health.NewDependency("persistence", false, persistGuard.Breaker())

	return &Orchestrator{
		cfg:          cfg,
		catalog:      deps.Catalog,
		logger:       logger,
		now:          time.Now,
		embedder:     deps.Embedder,
		embedGuard:   embedGuard,
		vectorIdx:    deps.VectorIndex,
		vectorGuard:  vectorGuard,
		completer:    deps.Completer,
		compGuard:    compGuard,
		persister:    persister,
		persistGuard: persistGuard,
		health:       health.New(embedDep, vectorDep, compDep, persistDep),
		embedDep:     embedDep,
		vectorDep:    vectorDep,
		compDep:      compDep,
		persistDep:   persistDep,
	}
}

// Health exposes the aggregator for the HTTP health endpoint.
func (o *Orchestrator) Health() *health.Aggregator { return o.health }

// Match runs the full pipeline for one request (spec §4.7 algorithm).
func (o *Orchestrator) Match(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Deadlines.Request)
	defer cancel()

	// Step 1: validate.
	if err := validateAssignment(req.Assignment); err != nil {
		return Response{}, err
	}

	isFallback := false

	// Step 2: compose brief text.
	briefText := composeBriefText(req.Assignment)

	// Step 3: embed.
	var briefVector []float32
	embedCtx, embedCancel := context.WithTimeout(ctx, o.cfg.Deadlines.Embedding)
	vec, err := resilience.RunWithResult(embedCtx, o.embedGuard, func(ctx context.Context) ([]float64, error) {
		return o.embedder.Embed(ctx, briefText)
	})
	embedCancel()
	o.embedDep.RecordOutcome(err)
	if err != nil {
		o.logger.Warn("embedding call failed terminally, degrading to fallback", slog.String("error", err.Error()))
		isFallback = true
	} else {
		briefVector = toFloat32(vec)
	}

	// Step 4: vector query (skipped if step 3 already fell back).
	var queryResults []vectorindex.Result
	if !isFallback {
		queryCtx, queryCancel := context.WithTimeout(ctx, o.cfg.Deadlines.VectorQuery)
		queryResults, err = resilience.RunWithResult(queryCtx, o.vectorGuard, func(ctx context.Context) ([]vectorindex.Result, error) {
			return o.vectorIdx.Query(ctx, briefVector, o.cfg.VectorQueryTopK, nil)
		})
		queryCancel()
		o.vectorDep.RecordOutcome(err)
		if err != nil {
			o.logger.Warn("vector query failed terminally, degrading to fallback", slog.String("error", err.Error()))
			isFallback = true
		}
	}

	if isFallback {
		o.health.MarkFallbackUsed()
	}

	// Critical-path failure plus an unavailable catalog fails the request
	// outright (spec §7 propagation policy).
	if isFallback && o.catalog.Len() == 0 {
		return Response{}, domainerrors.DependencyUnavailable("catalog", "catalog is empty and vector/embedding path degraded", nil)
	}

	// Step 5: build candidates.
	type candidate struct {
		creator       scoring.Creator
		semanticScore float64
	}

	var candidates []candidate
	if isFallback {
		for _, creator := range o.catalog.All() {
			candidates = append(candidates, candidate{creator: creator, semanticScore: 0})
		}
	} else {
		for _, r := range queryResults {
			creator, ok := o.catalog.Get(r.ID)
			if !ok {
				continue // stale vector, id absent from catalog
			}
			candidates = append(candidates, candidate{creator: creator, semanticScore: float64(r.Score)})
		}
	}

	if len(candidates) == 0 {
		return Response{
			Assignment: req.Assignment,
			Matches:    []scoring.Match{},
			Reasoning:  noSuitableCreatorsMessage,
			IsFallback: isFallback,
			Timestamp:  o.now(),
		}, nil
	}

	// Step 6: score concurrently, bounded parallelism P.
	parallelism := o.cfg.ScoringParallelism
	if parallelism > len(candidates) {
		parallelism = len(candidates)
	}
	matches := make([]scoring.Match, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			matches[i] = scoring.Score(req.Assignment, c.creator, c.semanticScore, o.cfg.Weights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Response{}, domainerrors.DeadlineExceededErr("scoring")
	}

	// Step 7: rank and truncate to K.
	ranked := scoring.Rank(matches)
	if len(ranked) > o.cfg.MatchTopK {
		ranked = ranked[:o.cfg.MatchTopK]
	}

	// Step 8: completion rationale, canned fallback on any failure.
	reasoning := o.generateRationale(ctx, req.Assignment, ranked)

	// Step 9: optional persistence.
	if req.AssignmentID != "" {
		o.persistAsync(ctx, req.AssignmentID, ranked)
	}

	return Response{
		Assignment: req.Assignment,
		Matches:    ranked,
		Reasoning:  reasoning,
		IsFallback: isFallback,
		Timestamp:  o.now(),
	}, nil
}

func (o *Orchestrator) generateRationale(ctx context.Context, assignment scoring.Assignment, matches []scoring.Match) string {
	compCtx, cancel := context.WithTimeout(ctx, o.cfg.Deadlines.Completion)
	defer cancel()

	prompt := rationalePrompt(assignment, matches)
	text, err := resilience.RunWithResult(compCtx, o.compGuard, func(ctx context.Context) (string, error) {
		return o.completer.Complete(ctx, prompt, completion.Options{MaxTokens: 200, Temperature: 0.3})
	})
	o.compDep.RecordOutcome(err)
	if err != nil {
		return completion.CannedFallback
	}
	return text
}

func (o *Orchestrator) persistAsync(ctx context.Context, assignmentID string, matches []scoring.Match) {
	persistCtx, cancel := context.WithTimeout(ctx, o.cfg.Deadlines.Persistence)
	defer cancel()

	err := o.persistGuard.Run(persistCtx, func(ctx context.Context) error {
		return o.persister.PersistMatches(ctx, assignmentID, matches)
	})
	o.persistDep.RecordOutcome(err)
	if err != nil {
		o.logger.Warn("persisting match results failed, response still returned",
			slog.String("assignmentId", assignmentID), slog.String("error", err.Error()))
	}
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
