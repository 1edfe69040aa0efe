package domain

// Side is the direction of a simulated trade.
type Side string

// Trade sides.
const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// EntryReason is recorded on every simulated buy.
const EntryReason = "Entry signal"

// ExitReason is the rule that closed a position.
type ExitReason string

// Exit reasons in evaluation priority order.
const (
	ExitReasonTakeProfit   ExitReason = "take_profit"
	ExitReasonStopLoss     ExitReason = "stop_loss"
	ExitReasonTrailingStop ExitReason = "trailing_stop"
	ExitReasonMaxHoldTime  ExitReason = "max_hold_time"
)

// Trade is one entry in the run's trade log.
type Trade struct {
	PositionID   string  `json:"position_id"`
	TimestampMs  int64   `json:"timestamp_ms"` // fill time after execution delay
	Side         Side    `json:"side"`
	Mint         string  `json:"mint"`
	Symbol       string  `json:"symbol"`
	Price        float64 `json:"price"` // slippage-adjusted fill price
	AmountSOL    float64 `json:"amount_sol"`
	AmountTokens float64 `json:"amount_tokens"`
	Reason       string  `json:"reason"` // human-readable trigger
}
