package common

import (
	"testing"
)

func TestParseTicker(t *testing.T) {
	originalDefault := DefaultExchange
	DefaultExchange = "US"
	defer func() { DefaultExchange = originalDefault }()

	tests := []struct {
		input        string
		wantExchange string
		wantCode     string
		wantString   string
		wantEODHD    string
	}{
		// Exchange-qualified format with colon separator
		{"NASDAQ:AAPL", "NASDAQ", "AAPL", "NASDAQ:AAPL", "AAPL.US"},
		{"ASX:BHP", "ASX", "BHP", "ASX:BHP", "BHP.AU"},

		// Exchange-qualified format with dot separator
		{"NYSE.IBM", "NYSE", "IBM", "NYSE:IBM", "IBM.US"},

		// Share classes keep their dot
		{"BRK.B", "US", "BRK.B", "US:BRK.B", "BRK.B.US"},

		// Bare codes and case normalization
		{"msft", "US", "MSFT", "US:MSFT", "MSFT.US"},
		{"  tsla  ", "US", "TSLA", "US:TSLA", "TSLA.US"},

		// Unknown exchange keeps its own suffix
		{"BVMF:PETR4", "BVMF", "PETR4", "BVMF:PETR4", "PETR4.BVMF"},

		{"", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseTicker(tt.input)

			if result.Exchange != tt.wantExchange {
				t.Errorf("Exchange = %q, want %q", result.Exchange, tt.wantExchange)
			}
			if result.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", result.Code, tt.wantCode)
			}
			if result.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", result.String(), tt.wantString)
			}
			if result.EODHDSymbol() != tt.wantEODHD {
				t.Errorf("EODHDSymbol() = %q, want %q", result.EODHDSymbol(), tt.wantEODHD)
			}
		})
	}
}

func TestParseEODHDTicker(t *testing.T) {
	tests := []struct {
		input        string
		wantExchange string
		wantCode     string
	}{
		{"AAPL.US", "US", "AAPL"},
		{"BRK.B.US", "US", "BRK.B"},
		{"bhp.au", "AU", "BHP"},
		{"AAPL", "", ""},
		{"AAPL.", "", ""},
		{".US", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseEODHDTicker(tt.input)
			if result.Exchange != tt.wantExchange || result.Code != tt.wantCode {
				t.Errorf("ParseEODHDTicker(%q) = %s/%s, want %s/%s",
					tt.input, result.Exchange, result.Code, tt.wantExchange, tt.wantCode)
			}
		})
	}
}
