package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    Date
		wantErr bool
	}{
		{"2024-01-01", Date{2024, time.January, 1}, false},
		{" 2024-02-29 ", Date{2024, time.February, 29}, false},
		{"2024-03-10T23:30:00-05:00", Date{2024, time.March, 10}, false},
		{"2024-03-10T01:00:00Z", Date{2024, time.March, 10}, false},
		{"2023-02-29", Date{}, true},
		{"01/02/2024", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDate_AddDaysAndCompare(t *testing.T) {
	d := MustParseDate("2024-03-01")

	if got := d.AddDays(-1).String(); got != "2024-02-29" {
		t.Errorf("AddDays(-1) = %s, want 2024-02-29", got)
	}
	if got := d.AddDays(31).String(); got != "2024-04-01" {
		t.Errorf("AddDays(31) = %s, want 2024-04-01", got)
	}
	if !d.Before(d.AddDays(1)) || !d.After(d.AddDays(-1)) {
		t.Error("Before/After disagree with AddDays")
	}
	if d.Compare(MustParseDate("2024-03-01")) != 0 {
		t.Error("equal dates should compare as 0")
	}
	if MustParseDate("2023-12-31").Compare(MustParseDate("2024-01-01")) != -1 {
		t.Error("year boundary compare failed")
	}
}

func TestDate_JSON(t *testing.T) {
	d := MustParseDate("2024-01-05")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-01-05"` {
		t.Errorf("Marshal = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("Unmarshal = %v, want %v", back, d)
	}

	if err := json.Unmarshal([]byte(`20240105`), &back); err == nil {
		t.Error("numeric date should fail")
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: MustParseDate("2024-01-01"), End: MustParseDate("2024-01-07")}

	tests := []struct {
		date string
		want bool
	}{
		{"2023-12-31", false},
		{"2024-01-01", true},
		{"2024-01-04", true},
		{"2024-01-07", true},
		{"2024-01-08", false},
	}
	for _, tt := range tests {
		if got := r.Contains(MustParseDate(tt.date)); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
	if r.Days() != 7 {
		t.Errorf("Days() = %d, want 7", r.Days())
	}
}
