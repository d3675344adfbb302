package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/tickerscope/internal/models"
)

const (
	// DefaultTimeout is the default HTTP timeout for price feeds
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 16 << 20
)

// restRow is one row of the stock_data table
type restRow struct {
	Ticker        string      `json:"ticker"`
	Date          models.Date `json:"date"`
	OpenPrice     float64     `json:"open_price"`
	HighPrice     float64     `json:"high_price"`
	LowPrice      float64     `json:"low_price"`
	ClosePrice    float64     `json:"close_price"`
	AdjustedClose *float64    `json:"adjusted_close"`
	Volume        float64     `json:"volume"`
}

func (r restRow) record() models.PriceRecord {
	rec := models.PriceRecord{
		Ticker: strings.ToUpper(strings.TrimSpace(r.Ticker)),
		Date:   r.Date,
		Open:   r.OpenPrice,
		High:   r.HighPrice,
		Low:    r.LowPrice,
		Close:  r.ClosePrice,
		Volume: int64(r.Volume),
	}
	if r.AdjustedClose != nil {
		rec.AdjustedClose = *r.AdjustedClose
	}
	return rec
}

// RESTSource reads a PostgREST table (Supabase REST) of daily rows, filtering
// by date on the server: GET {base}/{table}?date=gte.X&date=lte.Y
type RESTSource struct {
	baseURL    string
	table      string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// RESTOption configures a RESTSource
type RESTOption func(*RESTSource)

// WithRESTHTTPClient sets a custom HTTP client
func WithRESTHTTPClient(httpClient *http.Client) RESTOption {
	return func(s *RESTSource) {
		s.httpClient = httpClient
	}
}

// WithRESTRateLimit sets the minimum interval between requests
func WithRESTRateLimit(every time.Duration) RESTOption {
	return func(s *RESTSource) {
		if every > 0 {
			s.limiter = rate.NewLimiter(rate.Every(every), 1)
		}
	}
}

// NewRESTSource creates a REST price source
func NewRESTSource(baseURL, table, apiKey string, logger arbor.ILogger, opts ...RESTOption) (*RESTSource, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("prices.rest.url is required")
	}
	if table == "" {
		table = "stock_data"
	}

	s := &RESTSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		table:      table,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *RESTSource) Name() string {
	return "rest"
}

// Fetch returns every row in r; tickers narrows the query when given
func (s *RESTSource) Fetch(ctx context.Context, tickers []string, r models.DateRange) ([]models.PriceRecord, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	endpoint := s.baseURL + "/" + url.PathEscape(s.table)
	query := url.Values{}
	query.Add("date", "gte."+r.Start.String())
	query.Add("date", "lte."+r.End.String())
	if len(tickers) > 0 {
		query.Set("ticker", "in.("+strings.Join(tickers, ",")+")")
	}
	query.Set("order", "date.asc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body), Endpoint: endpoint}
	}

	var rows []restRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	records := make([]models.PriceRecord, 0, len(rows))
	for _, row := range rows {
		if row.Ticker == "" || row.Date.IsZero() {
			continue
		}
		records = append(records, row.record())
	}

	s.logger.Debug().
		Str("table", s.table).
		Str("window", r.String()).
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched price rows")

	return records, nil
}
