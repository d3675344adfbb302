package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/tickerscope/internal/models"
)

// Unavailable stands in when the configured provider could not be set up.
// Every call fails with the setup error, so the rest of the service keeps running.
type Unavailable struct {
	provider models.Provider
	err      error
}

// NewUnavailable wraps the setup error for provider
func NewUnavailable(provider models.Provider, err error) *Unavailable {
	return &Unavailable{provider: provider, err: err}
}

func (u *Unavailable) Provider() models.Provider {
	return u.provider
}

func (u *Unavailable) Complete(ctx context.Context, payload models.RequestPayload) (models.Envelope, error) {
	return models.Envelope{}, fmt.Errorf("%s completer not configured: %w", u.provider, u.err)
}
