// Package prices loads daily price records from an upstream feed into the
// local cache and serves the lookback window to the analytics layer.
package prices

import "fmt"

// APIError is a non-2xx response from a price feed
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("price feed error (status %d) at %s: %s", e.StatusCode, e.Endpoint, e.Message)
}
