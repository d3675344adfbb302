// Package llm provides the completion clients that send a report request to a
// language model and return the provider's response envelope unparsed.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/interfaces"
)

// NewCompleter creates the completer for the configured default provider
func NewCompleter(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (interfaces.Completer, error) {
	return NewCompleterFor(ctx, cfg.LLM.DefaultProvider, cfg, logger)
}

// NewCompleterFor creates a completer for a specific provider
func NewCompleterFor(ctx context.Context, provider common.LLMProvider, cfg *common.Config, logger arbor.ILogger) (interfaces.Completer, error) {
	logger.Info().Str("provider", string(provider)).Msg("Creating completion client")

	switch provider {
	case common.LLMProviderEdge:
		apiKey, _ := common.ResolveAPIKey("edge", cfg.Edge.APIKey)
		return NewEdgeCompleter(cfg.Edge.URL, apiKey, logger,
			WithEdgeHTTPClient(&http.Client{Timeout: common.ParseDuration(cfg.Edge.Timeout, DefaultEdgeTimeout)}),
			WithEdgeRateLimit(common.ParseDuration(cfg.Edge.RateLimit, 0)),
		)

	case common.LLMProviderGemini:
		apiKey, err := common.ResolveAPIKey("gemini", cfg.Gemini.APIKey)
		if err != nil {
			return nil, err
		}
		return NewGeminiCompleter(ctx, GeminiOptions{
			APIKey:           apiKey,
			Model:            cfg.Gemini.Model,
			Temperature:      cfg.Gemini.Temperature,
			Timeout:          common.ParseDuration(cfg.Gemini.Timeout, 2*time.Minute),
			StructuredOutput: cfg.LLM.StructuredOutput,
		}, logger)

	case common.LLMProviderClaude:
		apiKey, err := common.ResolveAPIKey("claude", cfg.Claude.APIKey)
		if err != nil {
			return nil, err
		}
		return NewClaudeCompleter(ClaudeOptions{
			APIKey:      apiKey,
			Model:       cfg.Claude.Model,
			MaxTokens:   cfg.Claude.MaxTokens,
			Temperature: cfg.Claude.Temperature,
			Timeout:     common.ParseDuration(cfg.Claude.Timeout, 2*time.Minute),
		}, logger)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
