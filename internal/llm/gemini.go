package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/tickerscope/internal/models"
)

// GeminiCompleter calls the Gemini API directly
type GeminiCompleter struct {
	client           *genai.Client
	model            string
	temperature      float32
	timeout          time.Duration
	structuredOutput bool
	logger           arbor.ILogger
}

// GeminiOptions configures a GeminiCompleter
type GeminiOptions struct {
	APIKey           string
	Model            string
	Temperature      float32
	Timeout          time.Duration
	StructuredOutput bool
}

// NewGeminiCompleter creates a Gemini client
func NewGeminiCompleter(ctx context.Context, opts GeminiOptions, logger arbor.ILogger) (*GeminiCompleter, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiCompleter{
		client:           client,
		model:            opts.Model,
		temperature:      opts.Temperature,
		timeout:          opts.Timeout,
		structuredOutput: opts.StructuredOutput,
		logger:           logger,
	}, nil
}

func (c *GeminiCompleter) Provider() models.Provider {
	return models.ProviderGemini
}

// Complete sends one GenerateContent call and returns the response as JSON
func (c *GeminiCompleter) Complete(ctx context.Context, payload models.RequestPayload) (models.Envelope, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	config, err := c.generateConfig(payload)
	if err != nil {
		return models.Envelope{}, err
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(payload.Prompt), config)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("gemini API call failed: %w", err)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("failed to encode gemini response: %w", err)
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("candidates", len(resp.Candidates)).
		Dur("elapsed", time.Since(start)).
		Msg("Gemini completion response")

	return models.Envelope{Provider: models.ProviderGemini, Body: body}, nil
}

func (c *GeminiCompleter) generateConfig(payload models.RequestPayload) (*genai.GenerateContentConfig, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if payload.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(payload.SystemInstruction, genai.RoleUser)
	}

	if c.structuredOutput && len(payload.Schema) > 0 {
		schema, err := convertToGenaiSchema(payload.Schema)
		if err != nil {
			return nil, fmt.Errorf("failed to convert response schema: %w", err)
		}
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = schema
	}
	return config, nil
}
