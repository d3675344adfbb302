package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/tickerscope/internal/models"
)

const (
	// DefaultEdgeTimeout bounds one edge function call
	DefaultEdgeTimeout = 90 * time.Second

	maxEnvelopeBytes = 4 << 20
)

// StatusError is a non-2xx response from an HTTP completion endpoint
type StatusError struct {
	StatusCode int
	Body       string
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion endpoint %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// EdgeCompleter posts {systemInstruction, prompt} to an edge function and
// returns its Gemini shaped response body untouched
type EdgeCompleter struct {
	url        string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// EdgeOption configures an EdgeCompleter
type EdgeOption func(*EdgeCompleter)

// WithEdgeHTTPClient sets a custom HTTP client
func WithEdgeHTTPClient(httpClient *http.Client) EdgeOption {
	return func(c *EdgeCompleter) {
		c.httpClient = httpClient
	}
}

// WithEdgeRateLimit sets the minimum interval between calls
func WithEdgeRateLimit(every time.Duration) EdgeOption {
	return func(c *EdgeCompleter) {
		if every > 0 {
			c.limiter = rate.NewLimiter(rate.Every(every), 1)
		}
	}
}

// NewEdgeCompleter creates a completer for the edge function at url
func NewEdgeCompleter(url, apiKey string, logger arbor.ILogger, opts ...EdgeOption) (*EdgeCompleter, error) {
	if url == "" {
		return nil, fmt.Errorf("edge function URL is required")
	}

	c := &EdgeCompleter{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: DefaultEdgeTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *EdgeCompleter) Provider() models.Provider {
	return models.ProviderEdge
}

// Complete issues a single POST; there is no retry
func (c *EdgeCompleter) Complete(ctx context.Context, payload models.RequestPayload) (models.Envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.Envelope{}, fmt.Errorf("rate limiter wait: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return models.Envelope{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	c.logger.Debug().
		Str("url", c.url).
		Int("payload_bytes", len(body)).
		Msg("Edge completion request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeBytes))
	if err != nil {
		return models.Envelope{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Envelope{}, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data), 512),
			Endpoint:   c.url,
		}
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int("response_bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("Edge completion response")

	return models.Envelope{Provider: models.ProviderEdge, Body: data}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
