package analytics

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/ternarybob/tickerscope/internal/models"
)

func TestSummarize(t *testing.T) {
	asOf := models.MustParseDate("2024-01-10")

	tests := []struct {
		name        string
		records     []models.PriceRecord
		days        int
		wantOK      bool
		wantCurrent float64
		wantHigh    float64
		wantLow     float64
		wantRange   float64
	}{
		{
			name:    "single record is all zeros",
			records: []models.PriceRecord{rec("AAPL", "2024-01-09", 187.15)},
			days:    7,
			wantOK:  true,
		},
		{
			name: "rise then fall",
			records: []models.PriceRecord{
				rec("AAPL", "2024-01-05", 100),
				rec("AAPL", "2024-01-08", 112.5),
				rec("AAPL", "2024-01-09", 95),
				rec("AAPL", "2024-01-10", 104),
			},
			days:        7,
			wantOK:      true,
			wantCurrent: 4,
			wantHigh:    12.5,
			wantLow:     -5,
			wantRange:   17.5,
		},
		{
			name: "unsorted input and other tickers ignored",
			records: []models.PriceRecord{
				rec("AAPL", "2024-01-10", 90),
				rec("MSFT", "2024-01-04", 1),
				rec("AAPL", "2024-01-04", 100),
				rec("MSFT", "2024-01-10", 1000),
			},
			days:        7,
			wantOK:      true,
			wantCurrent: -10,
			wantHigh:    0,
			wantLow:     -10,
			wantRange:   10,
		},
		{
			name: "window excludes older baseline",
			records: []models.PriceRecord{
				rec("AAPL", "2024-01-01", 50),
				rec("AAPL", "2024-01-07", 200),
				rec("AAPL", "2024-01-10", 210),
			},
			days:        3,
			wantOK:      true,
			wantCurrent: 5,
			wantHigh:    5,
			wantLow:     0,
			wantRange:   5,
		},
		{
			name:    "no records in window",
			records: []models.PriceRecord{rec("AAPL", "2023-12-01", 100)},
			days:    7,
			wantOK:  false,
		},
		{
			name:    "record after as-of is outside the window",
			records: []models.PriceRecord{rec("AAPL", "2024-01-11", 100)},
			days:    7,
			wantOK:  false,
		},
		{
			name:    "negative timeframe",
			records: []models.PriceRecord{rec("AAPL", "2024-01-10", 100)},
			days:    -1,
			wantOK:  false,
		},
		{
			name: "zero baseline",
			records: []models.PriceRecord{
				rec("AAPL", "2024-01-08", 0),
				rec("AAPL", "2024-01-09", 10),
			},
			days:   7,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Summarize(tt.records, "AAPL", tt.days, asOf)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if got != nil {
					t.Errorf("absent summary should be nil, got %+v", got)
				}
				return
			}
			if got.Ticker != "AAPL" || got.PeriodDays != tt.days {
				t.Errorf("identity = %s/%d", got.Ticker, got.PeriodDays)
			}
			if got.CurrentChange != tt.wantCurrent {
				t.Errorf("CurrentChange = %v, want %v", got.CurrentChange, tt.wantCurrent)
			}
			if got.PeriodHigh != tt.wantHigh {
				t.Errorf("PeriodHigh = %v, want %v", got.PeriodHigh, tt.wantHigh)
			}
			if got.PeriodLow != tt.wantLow {
				t.Errorf("PeriodLow = %v, want %v", got.PeriodLow, tt.wantLow)
			}
			if got.Range != tt.wantRange {
				t.Errorf("Range = %v, want %v", got.Range, tt.wantRange)
			}
		})
	}
}

func TestSummarize_RangeMatchesHighMinusLow(t *testing.T) {
	asOf := models.MustParseDate("2024-01-31")
	closes := []float64{101.13, 99.87, 103.41, 97.02, 100.55, 104.99, 98.76}
	records := make([]models.PriceRecord, 0, len(closes))
	for i, c := range closes {
		records = append(records, models.PriceRecord{
			Ticker: "TSLA",
			Date:   asOf.AddDays(-len(closes) + 1 + i),
			Close:  c,
		})
	}

	got, ok := Summarize(records, "TSLA", 30, asOf)
	if !ok {
		t.Fatal("expected summary")
	}
	if diff := math.Abs(got.Range - (got.PeriodHigh - got.PeriodLow)); diff > 0.01+1e-9 {
		t.Errorf("Range %v differs from high-low %v by %v", got.Range, got.PeriodHigh-got.PeriodLow, diff)
	}
	if got.PeriodLow > got.CurrentChange || got.CurrentChange > got.PeriodHigh {
		t.Errorf("current %v outside [%v, %v]", got.CurrentChange, got.PeriodLow, got.PeriodHigh)
	}
}

func TestSummarize_TinyDropSerializesAsZero(t *testing.T) {
	asOf := models.MustParseDate("2024-01-10")
	records := []models.PriceRecord{
		rec("AAPL", "2024-01-09", 1000),
		rec("AAPL", "2024-01-10", 999.96),
	}

	got, ok := Summarize(records, "AAPL", 7, asOf)
	if !ok {
		t.Fatal("expected summary")
	}
	if math.Signbit(got.CurrentChange) || math.Signbit(got.PeriodLow) {
		t.Errorf("negative zero in summary: current=%v low=%v", got.CurrentChange, got.PeriodLow)
	}

	b, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "-0") {
		t.Errorf("summary JSON carries negative zero: %s", b)
	}
}

func TestSummarizeAll_SkipsAbsentAndKeepsOrder(t *testing.T) {
	asOf := models.MustParseDate("2024-01-10")
	records := []models.PriceRecord{
		rec("TSLA", "2024-01-09", 200),
		rec("AAPL", "2024-01-09", 100),
		rec("AAPL", "2024-01-10", 101),
	}

	got := SummarizeAll(records, []string{"TSLA", "NVDA", "AAPL"}, 7, asOf)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Ticker != "TSLA" || got[1].Ticker != "AAPL" {
		t.Errorf("order = %s, %s", got[0].Ticker, got[1].Ticker)
	}
	if got[1].CurrentChange != 1 {
		t.Errorf("AAPL current = %v, want 1", got[1].CurrentChange)
	}
}
