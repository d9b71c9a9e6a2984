// Package interpreter produces dream interpretations, preferring a remote
// generative model and degrading to a deterministic rule engine when the
// model's answer is unusable. Only credential and transport failures
// surface to callers; every other failure silently yields the fallback.
package interpreter

import (
	"context"
	"log/slog"

	"oneiro/internal/domain/models"
)

// Generator is the remote-or-fallback interpretation pipeline.
type Generator struct {
	client   Client
	fallback *FallbackEngine
	logger   *slog.Logger
}

// NewGenerator creates a generator over the given client and fallback
// engine.
func NewGenerator(client Client, fallback *FallbackEngine, logger *slog.Logger) *Generator {
	return &Generator{
		client:   client,
		fallback: fallback,
		logger:   logger,
	}
}

// Interpret returns a draft for the dream. Critical errors from the
// client are re-raised so the caller can show a distinct error state;
// recoverable failures (bad status, empty or misshapen responses) are
// replaced by the rule engine's output, so in the recoverable case the
// caller always receives a usable draft.
func (g *Generator) Interpret(ctx context.Context, title, content string) (models.InterpretationDraft, error) {
	text, err := g.client.Interpret(ctx, title, content)
	if err != nil {
		if IsCritical(err) {
			return models.InterpretationDraft{}, err
		}
		g.logger.Warn("remote interpretation failed, using fallback",
			"error", err,
		)
		return g.fallback.Interpret(title, content), nil
	}

	draft, err := ParseDraft(text)
	if err != nil {
		g.logger.Warn("unparseable interpretation response, using fallback",
			"error", err,
		)
		return g.fallback.Interpret(title, content), nil
	}
	return draft, nil
}
