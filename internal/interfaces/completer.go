// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/tickerscope/internal/models"
)

// Completer sends a report request to an AI completion service and returns the
// provider's raw response envelope. Implementations must not interpret the
// answer; extraction and validation belong to the report parser.
type Completer interface {
	// Complete issues a single request. Network failures and non-success
	// statuses are returned as errors, never as an empty envelope.
	//
	// Parameters:
	//   - ctx: Context for cancellation; a cancelled request must return promptly
	//   - payload: System instruction, prompt and optional response schema
	//
	// Returns:
	//   - models.Envelope: Provider tag and raw body bytes
	//   - error: Transport or status failure
	Complete(ctx context.Context, payload models.RequestPayload) (models.Envelope, error)

	// Provider identifies the envelope shape this completer returns
	Provider() models.Provider
}
