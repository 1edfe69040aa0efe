package domain

// Outcome is the terminal state a launch reached.
type Outcome string

// Launch outcomes.
const (
	OutcomeRugged   Outcome = "rugged"
	OutcomeMigrated Outcome = "migrated"
	OutcomeStalled  Outcome = "stalled"
	OutcomeUnknown  Outcome = ""
)

// IsValid reports whether o is a known outcome. Unknown is valid.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeRugged, OutcomeMigrated, OutcomeStalled, OutcomeUnknown:
		return true
	}
	return false
}

// LaunchRecord is one historical token launch replayed by the backtest.
// Records are read-only once loaded into an engine.
type LaunchRecord struct {
	Mint        string // token identity
	Symbol      string
	TimestampMs int64 // launch time (ms)

	InitialLiquiditySOL float64
	InitialMarketCapSOL float64 // 0 when unknown
	InitialPrice        float64 // 0 when unknown

	PriceHistory []PricePoint // non-decreasing in time, may be empty

	Outcome           Outcome
	PeakPrice         float64 // 0 when unknown
	TimeToPeakMinutes float64
}
