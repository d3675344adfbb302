package prices

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/analytics"
	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/models"
)

// Service loads the lookback window ending at an as-of date. A window is
// fetched from the source once, cached in the store, and served from memory
// until the as-of date moves or Refresh is called.
type Service struct {
	source       interfaces.PriceSource
	store        interfaces.PriceStore
	lookbackDays int
	logger       arbor.ILogger

	mu       sync.Mutex
	loadedAt models.Date
	records  []models.PriceRecord
}

// NewService creates a price service
func NewService(source interfaces.PriceSource, store interfaces.PriceStore, lookbackDays int, logger arbor.ILogger) *Service {
	return &Service{
		source:       source,
		store:        store,
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

// Window returns the date window loaded for asOf
func (s *Service) Window(asOf models.Date) (models.DateRange, error) {
	return analytics.NewDateRange(asOf, s.lookbackDays)
}

// Load returns the records for asOf's window, fetching upstream only when the
// window has never been fetched. On upstream failure it falls back to
// whatever the store already holds for the window.
func (s *Service) Load(ctx context.Context, asOf models.Date) ([]models.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records != nil && s.loadedAt == asOf {
		return s.snapshot(), nil
	}

	window, err := s.Window(asOf)
	if err != nil {
		return nil, err
	}

	refreshed, err := s.store.IsRefreshed(ctx, window)
	if err != nil {
		return nil, err
	}

	if !refreshed {
		if err := s.fetch(ctx, window); err != nil {
			cached, cacheErr := s.store.Records(ctx, nil, window)
			if cacheErr != nil || len(cached) == 0 {
				return nil, err
			}
			s.logger.Warn().
				Err(err).
				Str("window", window.String()).
				Int("cached_records", len(cached)).
				Msg("Price feed unavailable, serving cached records")
			s.remember(asOf, cached)
			return s.snapshot(), nil
		}
	}

	return s.reload(ctx, asOf, window)
}

// Refresh refetches asOf's window from the source regardless of cache state
func (s *Service) Refresh(ctx context.Context, asOf models.Date) ([]models.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	window, err := s.Window(asOf)
	if err != nil {
		return nil, err
	}
	if err := s.fetch(ctx, window); err != nil {
		return nil, err
	}
	return s.reload(ctx, asOf, window)
}

func (s *Service) fetch(ctx context.Context, window models.DateRange) error {
	start := time.Now()
	records, err := s.source.Fetch(ctx, nil, window)
	if err != nil {
		return fmt.Errorf("failed to fetch prices from %s: %w", s.source.Name(), err)
	}

	if err := s.store.SaveRecords(ctx, records); err != nil {
		return err
	}
	if err := s.store.MarkRefreshed(ctx, window); err != nil {
		return err
	}

	s.logger.Info().
		Str("source", s.source.Name()).
		Str("window", window.String()).
		Int("days", window.Days()).
		Int("records", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("Price window refreshed")
	return nil
}

func (s *Service) reload(ctx context.Context, asOf models.Date, window models.DateRange) ([]models.PriceRecord, error) {
	records, err := s.store.Records(ctx, nil, window)
	if err != nil {
		return nil, err
	}
	s.remember(asOf, records)
	return s.snapshot(), nil
}

func (s *Service) remember(asOf models.Date, records []models.PriceRecord) {
	if records == nil {
		records = []models.PriceRecord{}
	}
	s.loadedAt = asOf
	s.records = records
}

func (s *Service) snapshot() []models.PriceRecord {
	return append([]models.PriceRecord(nil), s.records...)
}
