package common

import (
	"strings"
)

// Ticker is a parsed, optionally exchange-qualified symbol.
// Format: EXCHANGE:CODE (e.g., "NASDAQ:AAPL") or a bare code.
type Ticker struct {
	Exchange string
	Code     string
	Raw      string
}

// ExchangeToSuffix maps exchange codes to EODHD symbol suffixes
var ExchangeToSuffix = map[string]string{
	"US":     ".US",
	"NYSE":   ".US",
	"NASDAQ": ".US",
	"AMEX":   ".US",
	"ASX":    ".AU",
	"LSE":    ".LSE",
	"TSX":    ".TO",
	"XETRA":  ".XETRA",
}

// DefaultExchange applies to tickers parsed without an exchange prefix
var DefaultExchange = "US"

// SetDefaultExchange sets the default exchange, called from config during startup
func SetDefaultExchange(exchange string) {
	if exchange != "" {
		DefaultExchange = strings.ToUpper(exchange)
	}
}

// ParseTicker parses a ticker string.
// Supports formats:
//   - "NASDAQ:AAPL" -> Exchange="NASDAQ", Code="AAPL"
//   - "NYSE.IBM" -> Exchange="NYSE", Code="IBM" (known exchanges only)
//   - "brk.b" -> Exchange=DefaultExchange, Code="BRK.B"
func ParseTicker(ticker string) Ticker {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Ticker{}
	}

	if idx := strings.Index(ticker, ":"); idx > 0 {
		return Ticker{
			Exchange: strings.ToUpper(ticker[:idx]),
			Code:     strings.ToUpper(ticker[idx+1:]),
			Raw:      ticker,
		}
	}

	// Dot prefix only counts when it names a known exchange, so share classes like BRK.B survive
	if idx := strings.Index(ticker, "."); idx > 0 {
		possibleExchange := strings.ToUpper(ticker[:idx])
		if _, ok := ExchangeToSuffix[possibleExchange]; ok {
			return Ticker{
				Exchange: possibleExchange,
				Code:     strings.ToUpper(ticker[idx+1:]),
				Raw:      ticker,
			}
		}
	}

	return Ticker{
		Exchange: DefaultExchange,
		Code:     strings.ToUpper(ticker),
		Raw:      ticker,
	}
}

// String returns the exchange-qualified form
func (t Ticker) String() string {
	if t.Exchange == "" || t.Code == "" {
		return t.Code
	}
	return t.Exchange + ":" + t.Code
}

// EODHDSymbol returns the EODHD API symbol, e.g. "NASDAQ:AAPL" -> "AAPL.US"
func (t Ticker) EODHDSymbol() string {
	if t.Code == "" {
		return ""
	}
	suffix, ok := ExchangeToSuffix[t.Exchange]
	if !ok {
		suffix = "." + t.Exchange
	}
	return t.Code + suffix
}

// ParseEODHDTicker parses CODE.EXCHANGE symbols, splitting on the last dot
// so "BRK.B.US" yields Code="BRK.B"
func ParseEODHDTicker(symbol string) Ticker {
	symbol = strings.TrimSpace(symbol)
	lastDot := strings.LastIndex(symbol, ".")
	if lastDot <= 0 || lastDot == len(symbol)-1 {
		return Ticker{}
	}
	return Ticker{
		Exchange: strings.ToUpper(symbol[lastDot+1:]),
		Code:     strings.ToUpper(symbol[:lastDot]),
		Raw:      symbol,
	}
}
