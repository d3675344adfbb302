package reports

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/analytics"
	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/models"
)

// GenerateInput is everything one generation run needs
type GenerateInput struct {
	Tickers       []string
	Records       []models.PriceRecord
	TimeframeDays int
	AsOf          models.Date
}

// State is a snapshot of the generator for status endpoints
type State struct {
	Busy      bool              `json:"busy"`
	RequestID string            `json:"request_id,omitempty"`
	Latest    *models.ReportSet `json:"latest,omitempty"`
	LastError string            `json:"last_error,omitempty"`
	LastKind  Kind              `json:"last_kind,omitempty"`
}

// Generator sequences summarize -> request -> parse for the current selection.
// Only one request may be in flight; a second Generate call fails with
// KindInProgress. Results of a run superseded by Invalidate are discarded.
type Generator struct {
	completer interfaces.Completer
	logger    arbor.ILogger
	now       func() time.Time

	mu        sync.Mutex
	requestID string
	cancel    context.CancelFunc
	latest    *models.ReportSet
	lastErr   error
}

// NewGenerator creates a report generator backed by completer
func NewGenerator(completer interfaces.Completer, logger arbor.ILogger) *Generator {
	return &Generator{
		completer: completer,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate runs one report generation. It is a single attempt; failures are
// returned untouched as *Error values.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (*models.ReportSet, error) {
	requestID, runCtx, err := g.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer g.finish(requestID)

	started := g.now()
	g.logger.Info().
		Str("request_id", requestID).
		Strs("tickers", in.Tickers).
		Int("timeframe_days", in.TimeframeDays).
		Str("as_of", in.AsOf.String()).
		Msg("Report generation started")

	set, err := g.run(runCtx, requestID, in)
	if err != nil {
		g.logger.Warn().
			Str("request_id", requestID).
			Str("kind", string(KindOf(err))).
			Err(err).
			Dur("elapsed", g.now().Sub(started)).
			Msg("Report generation failed")
		g.record(requestID, nil, err)
		return nil, err
	}

	if !g.record(requestID, set, nil) {
		g.logger.Info().Str("request_id", requestID).Msg("Discarding result of superseded report request")
		return nil, &Error{Kind: KindTransportFailure, Message: "request superseded", Err: context.Canceled}
	}

	g.logger.Info().
		Str("request_id", requestID).
		Int("reports", len(set.Reports)).
		Dur("elapsed", g.now().Sub(started)).
		Msg("Report generation completed")
	return set, nil
}

func (g *Generator) run(ctx context.Context, requestID string, in GenerateInput) (*models.ReportSet, error) {
	if len(in.Tickers) == 0 {
		return nil, newError(KindNoInput, "no tickers selected")
	}
	if in.TimeframeDays <= 0 {
		return nil, newError(KindNoInput, "timeframe must be positive, got %d", in.TimeframeDays)
	}

	summaries := analytics.SummarizeAll(in.Records, in.Tickers, in.TimeframeDays, in.AsOf)
	if len(summaries) == 0 {
		return nil, newError(KindNoDataForSelection, "no records for %v in the last %d days", in.Tickers, in.TimeframeDays)
	}
	if len(summaries) < len(in.Tickers) {
		g.logger.Debug().
			Str("request_id", requestID).
			Int("requested", len(in.Tickers)).
			Int("summarized", len(summaries)).
			Msg("Skipping tickers without data in timeframe")
	}

	payload, err := BuildRequest(summaries, in.TimeframeDays, in.AsOf)
	if err != nil {
		return nil, err
	}

	env, err := g.completer.Complete(ctx, payload)
	if err != nil {
		return nil, &Error{Kind: KindTransportFailure, Message: string(g.completer.Provider()), Err: err}
	}

	reports, err := ParseReports(env, payload.ExpectedCount)
	if err != nil {
		return nil, err
	}

	return &models.ReportSet{
		RequestID:     requestID,
		TimeframeDays: in.TimeframeDays,
		AsOf:          in.AsOf,
		GeneratedAt:   g.now().UTC(),
		Reports:       reports,
	}, nil
}

// begin claims the single in-flight slot and clears the previous result
func (g *Generator) begin(ctx context.Context) (string, context.Context, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.requestID != "" {
		return "", nil, newError(KindInProgress, "request %s is still running", g.requestID)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g.requestID = common.NewRequestID()
	g.cancel = cancel
	g.latest = nil
	g.lastErr = nil
	return g.requestID, runCtx, nil
}

// record stores the outcome if requestID is still current
func (g *Generator) record(requestID string, set *models.ReportSet, err error) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.requestID != requestID {
		return false
	}
	g.latest = set
	g.lastErr = err
	return true
}

func (g *Generator) finish(requestID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.requestID != requestID {
		return
	}
	if g.cancel != nil {
		g.cancel()
	}
	g.requestID = ""
	g.cancel = nil
}

// Invalidate drops the latest result and aborts any in-flight request.
// Called when the ticker selection changes.
func (g *Generator) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.logger.Debug().Str("request_id", g.requestID).Msg("Cancelling in-flight report request")
		g.cancel()
	}
	g.requestID = ""
	g.cancel = nil
	g.latest = nil
	g.lastErr = nil
}

// Cancel aborts the in-flight request, if any, keeping the slot until it returns
func (g *Generator) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
}

// Latest returns the most recent successful report set
func (g *Generator) Latest() (*models.ReportSet, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest, g.latest != nil
}

// State returns a snapshot for status reporting
func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := State{
		Busy:      g.requestID != "",
		RequestID: g.requestID,
		Latest:    g.latest,
	}
	if g.lastErr != nil {
		var re *Error
		if errors.As(g.lastErr, &re) {
			st.LastError = re.UserMessage()
			st.LastKind = re.Kind
		} else {
			st.LastError = g.lastErr.Error()
		}
	}
	return st
}
