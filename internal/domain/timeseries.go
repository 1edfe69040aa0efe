package domain

// PricePoint is a single (time, price) sample of a launch's price history.
type PricePoint struct {
	TimestampMs int64   `json:"timestamp_ms"` // Unix timestamp in milliseconds
	Price       float64 `json:"price"`        // SOL per token
}

// PriceSeries is a per-mint price history as persisted by series stores.
type PriceSeries struct {
	Mint   string
	Points []PricePoint // non-decreasing in time
}
