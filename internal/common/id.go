package common

import (
	"github.com/google/uuid"
)

// NewRequestID generates a report request ID
// Format: req_<uuid>
func NewRequestID() string {
	return "req_" + uuid.New().String()
}
