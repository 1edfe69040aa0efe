package domain

// PositionStatus is the life-cycle state of a simulated position.
// OPEN -> CLOSED is the only transition.
type PositionStatus string

// Position statuses.
const (
	PositionOpen   PositionStatus = "OPEN"
	PositionClosed PositionStatus = "CLOSED"
)

// PriceSource records how a fill price was obtained.
type PriceSource string

// Price sources.
const (
	PriceSourceSample   PriceSource = "sample"   // nearest sample in the series
	PriceSourceDefault  PriceSource = "default"  // empty series, initial or configured price
	PriceSourceFallback PriceSource = "fallback" // unresolved exit, assumed loss against entry
)

// SimPosition is a simulated holding owned by a single backtest run.
type SimPosition struct {
	PositionID string `json:"position_id"` // deterministic hash
	Mint       string `json:"mint"`
	Symbol     string `json:"symbol"`

	// Entry
	EntryTimeMs       int64       `json:"entry_time_ms"`
	EntryPrice        float64     `json:"entry_price"` // slippage-adjusted
	EntryAmountSOL    float64     `json:"entry_amount_sol"`
	EntryAmountTokens float64     `json:"entry_amount_tokens"`
	EntryPriceSource  PriceSource `json:"entry_price_source"`

	// PeakPrice starts at EntryPrice and never decreases while open.
	PeakPrice float64        `json:"peak_price"`
	Status    PositionStatus `json:"status"`

	// Exit, zero while open
	ExitTimeMs      int64       `json:"exit_time_ms,omitempty"`
	ExitPrice       float64     `json:"exit_price,omitempty"`
	ExitAmountSOL   float64     `json:"exit_amount_sol,omitempty"`
	ExitReason      ExitReason  `json:"exit_reason,omitempty"`
	ExitDetail      string      `json:"exit_detail,omitempty"` // e.g. "Take profit at 52.3%"
	ExitPriceSource PriceSource `json:"exit_price_source,omitempty"`

	// Derived on close
	PnLSOL          float64 `json:"pnl_sol"`
	PnLPct          float64 `json:"pnl_pct"`
	HoldTimeMinutes int     `json:"hold_time_minutes"`
}

// IsClosed reports whether the position has exited.
func (p *SimPosition) IsClosed() bool {
	return p.Status == PositionClosed
}

// IsFallbackExit reports whether the exit price came from the data-gap fallback.
func (p *SimPosition) IsFallbackExit() bool {
	return p.ExitPriceSource == PriceSourceFallback
}
