package completion

import (
	"context"

	"github.com/drumbeatlabs/creatormatch/internal/config"
	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
)

// New selects a completer implementation from cfg. An empty AIProvider
// yields a completer that always reports unavailable, so the orchestrator
// falls straight to CannedFallback without attempting network calls.
func New(cfg *config.Config) Completer {
	if cfg.AIProvider == "" || cfg.AIProvider == "static" {
		return noopCompleter{}
	}
	return NewHTTPCompleter(HTTPCompleterConfig{BaseURL: cfg.AIProvider, Model: cfg.CompletionModel})
}

// noopCompleter is used when no completion provider is configured.
type noopCompleter struct{}

func (noopCompleter) Complete(context.Context, string, Options) (string, error) {
	return "", domainerrors.ConfigInvalid("no completion provider configured", nil)
}

func (noopCompleter) ModelName() string { return "none" }

func (noopCompleter) Available(context.Context) bool { return false }

func (noopCompleter) Close() error { return nil }
