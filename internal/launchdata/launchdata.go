// Package launchdata reads historical launch files into launch records.
//
// A file is a JSON array of launches:
//
//	[{
//	  "timestamp": "2024-01-15T10:30:00Z",
//	  "token_mint": "ABC...",
//	  "token_symbol": "WOLF",
//	  "initial_liquidity_sol": 10.0,
//	  "initial_market_cap_sol": 28.5,
//	  "price_history": [{"time": "2024-01-15T10:30:00Z", "price": 0.000001}],
//	  "final_outcome": "rugged",
//	  "peak_price": 0.000005,
//	  "time_to_peak_minutes": 15
//	}]
//
// Timestamps are ISO 8601. Values without a zone are read as UTC.
package launchdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"curve-lab/internal/domain"
	"curve-lab/internal/pumpfun"
)

// ErrInvalidRecord is wrapped by every record-level decode failure.
var ErrInvalidRecord = errors.New("invalid launch record")

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type pointJSON struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

type launchJSON struct {
	Timestamp           string      `json:"timestamp"`
	TokenMint           string      `json:"token_mint"`
	TokenSymbol         string      `json:"token_symbol"`
	InitialLiquiditySOL float64     `json:"initial_liquidity_sol"`
	InitialMarketCapSOL float64     `json:"initial_market_cap_sol,omitempty"`
	InitialPrice        float64     `json:"initial_price,omitempty"`
	PriceHistory        []pointJSON `json:"price_history"`
	FinalOutcome        string      `json:"final_outcome,omitempty"`
	PeakPrice           float64     `json:"peak_price,omitempty"`
	TimeToPeakMinutes   float64     `json:"time_to_peak_minutes,omitempty"`
}

// Decode reads a JSON array of launches from r.
// Records keep file order; the engine sorts them on load.
func Decode(r io.Reader) ([]domain.LaunchRecord, error) {
	var raw []launchJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode launch data: %w", err)
	}

	out := make([]domain.LaunchRecord, 0, len(raw))
	for i, l := range raw {
		rec, err := l.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadFile reads launches from a JSON file.
func LoadFile(path string) ([]domain.LaunchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open launch data: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

func (l launchJSON) record() (domain.LaunchRecord, error) {
	if l.TokenMint == "" {
		return domain.LaunchRecord{}, fmt.Errorf("%w: missing token_mint", ErrInvalidRecord)
	}
	ts, err := ParseTimestamp(l.Timestamp)
	if err != nil {
		return domain.LaunchRecord{}, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, l.TokenMint, err)
	}
	outcome := domain.Outcome(l.FinalOutcome)
	if !outcome.IsValid() {
		return domain.LaunchRecord{}, fmt.Errorf("%w: %s: unknown outcome %q", ErrInvalidRecord, l.TokenMint, l.FinalOutcome)
	}

	history := make([]domain.PricePoint, 0, len(l.PriceHistory))
	for _, p := range l.PriceHistory {
		pts, err := ParseTimestamp(p.Time)
		if err != nil {
			return domain.LaunchRecord{}, fmt.Errorf("%w: %s: price_history: %v", ErrInvalidRecord, l.TokenMint, err)
		}
		history = append(history, domain.PricePoint{TimestampMs: pts, Price: p.Price})
	}

	return domain.LaunchRecord{
		Mint:                l.TokenMint,
		Symbol:              l.TokenSymbol,
		TimestampMs:         ts,
		InitialLiquiditySOL: l.InitialLiquiditySOL,
		InitialMarketCapSOL: l.InitialMarketCapSOL,
		InitialPrice:        l.InitialPrice,
		PriceHistory:        history,
		Outcome:             outcome,
		PeakPrice:           l.PeakPrice,
		TimeToPeakMinutes:   l.TimeToPeakMinutes,
	}, nil
}

// ValidateMints checks that every record carries an on-chain mint address.
// Decode accepts any non-empty mint; stores keyed by on-chain accounts call
// this before importing.
func ValidateMints(records []domain.LaunchRecord) error {
	for i := range records {
		if err := pumpfun.ValidateMint(records[i].Mint); err != nil {
			return fmt.Errorf("%w: record %d: %s: %v", ErrInvalidRecord, i, records[i].Mint, err)
		}
	}
	return nil
}

// ParseTimestamp parses an ISO 8601 timestamp into Unix milliseconds.
func ParseTimestamp(s string) (int64, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unparseable timestamp %q", s)
}

// FormatTimestamp renders Unix milliseconds as RFC 3339 UTC.
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// Series splits the price histories out of records, one series per launch.
// Launches without samples are skipped.
func Series(records []domain.LaunchRecord) []domain.PriceSeries {
	var out []domain.PriceSeries
	for _, r := range records {
		if len(r.PriceHistory) == 0 {
			continue
		}
		out = append(out, domain.PriceSeries{
			Mint:   r.Mint,
			Points: append([]domain.PricePoint(nil), r.PriceHistory...),
		})
	}
	return out
}
