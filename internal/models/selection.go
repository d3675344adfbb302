package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// DefaultSelectionCapacity is the number of tickers a user can track at once
const DefaultSelectionCapacity = 3

var (
	ErrEmptyTicker     = errors.New("please enter a ticker symbol")
	ErrDuplicateTicker = errors.New("ticker already added")
	ErrSelectionFull   = errors.New("maximum of tickers reached")
	ErrInvalidTicker   = errors.New("invalid ticker symbol")
)

// selectionFullError names the capacity and matches ErrSelectionFull
type selectionFullError struct {
	capacity int
}

func (e selectionFullError) Error() string {
	return fmt.Sprintf("maximum of %d tickers reached", e.capacity)
}

func (e selectionFullError) Is(target error) bool {
	return target == ErrSelectionFull
}

var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// NormalizeTicker trims and upper-cases a user-typed symbol and checks its shape
func NormalizeTicker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" {
		return "", ErrEmptyTicker
	}
	if !tickerPattern.MatchString(ticker) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, raw)
	}
	return ticker, nil
}

// Selection is the ordered, bounded set of tickers the user is tracking.
// Safe for concurrent use.
type Selection struct {
	mu       sync.RWMutex
	capacity int
	tickers  []string
}

// NewSelection creates an empty selection (capacity <= 0 uses the default)
func NewSelection(capacity int) *Selection {
	if capacity <= 0 {
		capacity = DefaultSelectionCapacity
	}
	return &Selection{capacity: capacity}
}

// Add appends a ticker and returns its normalized form
func (s *Selection) Add(raw string) (string, error) {
	ticker, err := NormalizeTicker(raw)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tickers {
		if existing == ticker {
			return "", ErrDuplicateTicker
		}
	}
	if len(s.tickers) >= s.capacity {
		return "", selectionFullError{capacity: s.capacity}
	}
	s.tickers = append(s.tickers, ticker)
	return ticker, nil
}

// Remove drops a ticker, reporting whether it was present
func (s *Selection) Remove(raw string) bool {
	ticker := strings.ToUpper(strings.TrimSpace(raw))

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.tickers {
		if existing == ticker {
			s.tickers = append(s.tickers[:i], s.tickers[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.mu.Lock()
	s.tickers = nil
	s.mu.Unlock()
}

// Tickers returns a copy of the selected tickers in insertion order
func (s *Selection) Tickers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.tickers))
	copy(out, s.tickers)
	return out
}

func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickers)
}

func (s *Selection) Capacity() int {
	return s.capacity
}
