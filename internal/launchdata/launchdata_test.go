package launchdata

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"curve-lab/internal/domain"
)

func TestLoadFile(t *testing.T) {
	records, err := LoadFile(filepath.Join("testdata", "launches.json"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	wolf := records[0]
	if wolf.Symbol != "WOLF" || wolf.Outcome != domain.OutcomeMigrated {
		t.Errorf("unexpected record: %+v", wolf)
	}
	if wolf.TimestampMs != 1705314600000 {
		t.Errorf("timestamp: expected 1705314600000, got %d", wolf.TimestampMs)
	}
	if len(wolf.PriceHistory) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(wolf.PriceHistory))
	}
	if got := wolf.PriceHistory[1].TimestampMs - wolf.TimestampMs; got != 60_000 {
		t.Errorf("second sample offset: expected 60000, got %d", got)
	}
	if wolf.TimeToPeakMinutes != 15 {
		t.Errorf("time to peak: expected 15, got %v", wolf.TimeToPeakMinutes)
	}

	rug := records[1]
	if rug.TimestampMs != 1705314000000 {
		t.Errorf("zone-less timestamp should be UTC, got %d", rug.TimestampMs)
	}
	if rug.InitialMarketCapSOL != 28 {
		t.Errorf("market cap: expected 28, got %v", rug.InitialMarketCapSOL)
	}
	if len(rug.PriceHistory) != 0 {
		t.Errorf("expected empty history, got %d", len(rug.PriceHistory))
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing mint", `[{"timestamp": "2024-01-15T10:30:00Z"}]`},
		{"bad timestamp", `[{"timestamp": "yesterday", "token_mint": "m"}]`},
		{"bad sample time", `[{"timestamp": "2024-01-15T10:30:00Z", "token_mint": "m", "price_history": [{"time": "x", "price": 1}]}]`},
		{"unknown outcome", `[{"timestamp": "2024-01-15T10:30:00Z", "token_mint": "m", "final_outcome": "mooned"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}

	if _, err := Decode(strings.NewReader(`{"not": "an array"}`)); err == nil {
		t.Error("expected error for non-array input")
	}
}

func TestValidateMints(t *testing.T) {
	valid := []domain.LaunchRecord{
		{Mint: "So11111111111111111111111111111111111111112"},
		{Mint: "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"},
	}
	if err := ValidateMints(valid); err != nil {
		t.Fatalf("expected valid mints, got %v", err)
	}

	invalid := append(valid, domain.LaunchRecord{Mint: "m"})
	err := ValidateMints(invalid)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if !strings.Contains(err.Error(), "record 2") {
		t.Errorf("error should name the record: %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2024-01-15T10:30:00Z", 1705314600000},
		{"2024-01-15T10:30:00.250Z", 1705314600250},
		{"2024-01-15T12:30:00+02:00", 1705314600000},
		{"2024-01-15T10:30:00.123456", 1705314600123},
		{"2024-01-15 10:30:00", 1705314600000},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if FormatTimestamp(1705314600000) != "2024-01-15T10:30:00Z" {
		t.Errorf("FormatTimestamp mismatch: %s", FormatTimestamp(1705314600000))
	}
}

func TestSeries(t *testing.T) {
	records := []domain.LaunchRecord{
		{Mint: "a", PriceHistory: []domain.PricePoint{{TimestampMs: 1, Price: 1}}},
		{Mint: "b"},
	}

	series := Series(records)
	if len(series) != 1 || series[0].Mint != "a" {
		t.Fatalf("unexpected series: %+v", series)
	}

	series[0].Points[0].Price = 9
	if records[0].PriceHistory[0].Price != 1 {
		t.Error("series shares backing array with records")
	}
}
