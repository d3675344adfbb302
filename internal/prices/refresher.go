package prices

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/models"
)

// refreshTimeout bounds one scheduled refresh
const refreshTimeout = 5 * time.Minute

// Refresher reloads the price window on a cron schedule
type Refresher struct {
	provider interfaces.PriceProvider
	asOf     func() models.Date
	cron     *cron.Cron
	logger   arbor.ILogger
}

// NewRefresher creates a refresher; asOf resolves the as-of date at each run
func NewRefresher(provider interfaces.PriceProvider, asOf func() models.Date, logger arbor.ILogger) *Refresher {
	return &Refresher{
		provider: provider,
		asOf:     asOf,
		cron:     cron.New(cron.WithParser(common.CronParser())),
		logger:   logger,
	}
}

// Start schedules refreshes; an empty schedule disables them
func (r *Refresher) Start(schedule string) error {
	if schedule == "" {
		r.logger.Info().Msg("Price refresh schedule disabled")
		return nil
	}

	if _, err := r.cron.AddFunc(schedule, r.RunNow); err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info().
		Str("schedule", schedule).
		Msg("Price refresher started")
	return nil
}

// Stop stops the schedule and waits for a running refresh to finish
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info().Msg("Price refresher stopped")
}

// RunNow performs one refresh synchronously
func (r *Refresher) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	asOf := r.asOf()
	records, err := r.provider.Refresh(ctx, asOf)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("as_of", asOf.String()).
			Msg("Scheduled price refresh failed")
		return
	}

	r.logger.Info().
		Str("as_of", asOf.String()).
		Int("records", len(records)).
		Msg("Scheduled price refresh completed")
}
