package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_Add(t *testing.T) {
	s := NewSelection(3)

	ticker, err := s.Add("  aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", ticker)

	_, err = s.Add("AAPL")
	assert.ErrorIs(t, err, ErrDuplicateTicker)

	_, err = s.Add("   ")
	assert.ErrorIs(t, err, ErrEmptyTicker)

	_, err = s.Add("12AB")
	assert.ErrorIs(t, err, ErrInvalidTicker)

	_, err = s.Add("msft")
	require.NoError(t, err)
	_, err = s.Add("brk.b")
	require.NoError(t, err)

	_, err = s.Add("TSLA")
	assert.True(t, errors.Is(err, ErrSelectionFull))
	assert.EqualError(t, err, "maximum of 3 tickers reached")

	assert.Equal(t, []string{"AAPL", "MSFT", "BRK.B"}, s.Tickers())
}

func TestSelection_RemoveAndClear(t *testing.T) {
	s := NewSelection(0)
	assert.Equal(t, DefaultSelectionCapacity, s.Capacity())

	for _, ticker := range []string{"AAPL", "MSFT", "GOOGL"} {
		_, err := s.Add(ticker)
		require.NoError(t, err)
	}

	assert.True(t, s.Remove("msft"))
	assert.False(t, s.Remove("MSFT"))
	assert.Equal(t, []string{"AAPL", "GOOGL"}, s.Tickers())

	tickers := s.Tickers()
	tickers[0] = "ZZZ"
	assert.Equal(t, "AAPL", s.Tickers()[0], "Tickers must return a copy")

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Tickers())
}

func TestChartPoint_JSON(t *testing.T) {
	v := 10.0
	p := ChartPoint{
		Date:   MustParseDate("2024-01-02"),
		Values: map[string]*float64{"AAPL": &v, "MSFT": nil},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-02","AAPL":10,"MSFT":null}`, string(data))

	var back ChartPoint
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p.Date, back.Date)
	got, ok := back.Value("AAPL")
	assert.True(t, ok)
	assert.Equal(t, 10.0, got)
	_, ok = back.Value("MSFT")
	assert.False(t, ok)
	assert.Contains(t, back.Values, "MSFT", "null entries keep their key")
	assert.Equal(t, []string{"AAPL", "MSFT"}, back.Tickers())
}
