package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/models"
)

// ClaudeCompleter calls the Anthropic Messages API
type ClaudeCompleter struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      arbor.ILogger
}

// ClaudeOptions configures a ClaudeCompleter
type ClaudeOptions struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	BaseURL     string
}

// NewClaudeCompleter creates an Anthropic client
func NewClaudeCompleter(opts ClaudeOptions, logger arbor.ILogger) (*ClaudeCompleter, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("claude model is required")
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &ClaudeCompleter{
		client:      anthropic.NewClient(reqOpts...),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		logger:      logger,
	}, nil
}

func (c *ClaudeCompleter) Provider() models.Provider {
	return models.ProviderClaude
}

// Complete sends one Messages.New call and returns the raw response JSON
func (c *ClaudeCompleter) Complete(ctx context.Context, payload models.RequestPayload) (models.Envelope, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(payload.Prompt)),
		},
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(float64(c.temperature))
	}
	if payload.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: payload.SystemInstruction},
		}
	}

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("claude API call failed: %w", err)
	}

	c.logger.Debug().
		Str("model", c.model).
		Str("stop_reason", string(resp.StopReason)).
		Int64("output_tokens", resp.Usage.OutputTokens).
		Dur("elapsed", time.Since(start)).
		Msg("Claude completion response")

	return models.Envelope{Provider: models.ProviderClaude, Body: []byte(resp.RawJSON())}, nil
}
