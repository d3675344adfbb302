package prices

import (
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/eodhd"
	"github.com/ternarybob/tickerscope/internal/interfaces"
)

// NewSource creates the configured price source
func NewSource(cfg *common.Config, logger arbor.ILogger) (interfaces.PriceSource, error) {
	timeout := common.ParseDuration(cfg.Prices.Timeout, DefaultTimeout)
	every := common.ParseDuration(cfg.Prices.RateLimit, 0)

	switch cfg.Prices.Source {
	case "rest":
		apiKey, _ := common.ResolveAPIKey("rest", cfg.Prices.REST.APIKey)
		return NewRESTSource(cfg.Prices.REST.URL, cfg.Prices.REST.Table, apiKey, logger,
			WithRESTHTTPClient(&http.Client{Timeout: timeout}),
			WithRESTRateLimit(every),
		)

	case "eodhd":
		apiKey, err := common.ResolveAPIKey("eodhd", cfg.Prices.EODHD.APIKey)
		if err != nil {
			return nil, err
		}
		common.SetDefaultExchange(cfg.Prices.EODHD.Exchange)

		universe := cfg.Prices.Universe
		if len(universe) == 0 {
			universe = cfg.Reports.PopularTickers
		}

		client := eodhd.NewClient(apiKey,
			eodhd.WithBaseURL(cfg.Prices.EODHD.BaseURL),
			eodhd.WithHTTPClient(&http.Client{Timeout: timeout}),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(every),
		)
		return NewEODHDSource(client, universe, logger), nil

	case "file":
		return NewFileSource(cfg.Prices.File.Path)

	default:
		return nil, fmt.Errorf("unsupported price source: %s", cfg.Prices.Source)
	}
}
