package backtest

import (
	"fmt"

	"go.uber.org/zap"

	"curve-lab/internal/domain"
	"curve-lab/internal/lookup"
)

const msPerMinute = 60_000

// exitDecision is the first exit rule satisfied by a position.
type exitDecision struct {
	reason domain.ExitReason
	detail string
}

// processExits evaluates every open position against the current tick.
// Positions to close are partitioned out first and then closed in open-set order.
func (s *simulation) processExits(current *domain.LaunchRecord) {
	if len(s.open) == 0 {
		return
	}

	type closing struct {
		h        holding
		decision exitDecision
	}

	now := current.TimestampMs
	var toClose []closing
	remaining := make([]holding, 0, len(s.open))

	for _, h := range s.open {
		res := lookup.ResolvePrice(s.markSeries(h, current), now, s.cfg.DefaultPrice)
		if !res.OK() {
			remaining = append(remaining, h)
			continue
		}
		if d, ok := checkExit(h.pos, res.Price, now, s.cfg.Strategy); ok {
			toClose = append(toClose, closing{h: h, decision: d})
			continue
		}
		remaining = append(remaining, h)
	}

	if len(toClose) == 0 {
		return
	}
	s.open = remaining
	for _, c := range toClose {
		s.exit(c.h, current, c.decision)
	}
}

// markSeries returns the launch whose series prices h on this tick.
func (s *simulation) markSeries(h holding, current *domain.LaunchRecord) *domain.LaunchRecord {
	if s.cfg.ExitPricing == domain.ExitPricingCurrentLaunch {
		return current
	}
	return h.launch
}

// checkExit updates the running peak and returns the first satisfied exit rule.
// Priority: take profit, stop loss, trailing stop, max hold time.
func checkExit(pos *domain.SimPosition, price float64, nowMs int64, st domain.StrategyConfig) (exitDecision, bool) {
	if price > pos.PeakPrice {
		pos.PeakPrice = price
	}

	pnlPct := (price/pos.EntryPrice - 1) * 100
	if pnlPct >= st.TakeProfitPct {
		return exitDecision{domain.ExitReasonTakeProfit, fmt.Sprintf("Take profit at %.1f%%", pnlPct)}, true
	}
	if pnlPct <= -st.StopLossPct {
		return exitDecision{domain.ExitReasonStopLoss, fmt.Sprintf("Stop loss at %.1f%%", pnlPct)}, true
	}

	drawdown := (pos.PeakPrice - price) / pos.PeakPrice * 100
	if drawdown >= st.TrailingStopPct {
		return exitDecision{domain.ExitReasonTrailingStop, fmt.Sprintf("Trailing stop (%.1f%% from peak)", drawdown)}, true
	}

	held := float64(nowMs-pos.EntryTimeMs) / msPerMinute
	if held >= st.MaxPositionAgeMinutes {
		return exitDecision{domain.ExitReasonMaxHoldTime, fmt.Sprintf("Max hold time (%.0f min)", held)}, true
	}

	return exitDecision{}, false
}

// exit simulates the sell of a position already removed from the open set.
func (s *simulation) exit(h holding, current *domain.LaunchRecord, d exitDecision) {
	pos := h.pos
	exitTime := current.TimestampMs + s.cfg.ExecutionDelayMs

	res := lookup.ResolvePrice(s.markSeries(h, current), exitTime, s.cfg.DefaultPrice)
	raw, source := res.Price, res.Source()
	if !res.OK() {
		raw, source = fallbackExitPrice(pos.EntryPrice), domain.PriceSourceFallback
	}
	price := sellFill(raw, s.cfg)

	// valued relative to entry so an unchanged price yields exactly zero P&L
	exitValue := pos.EntryAmountSOL * (price / pos.EntryPrice)

	pos.Status = domain.PositionClosed
	pos.ExitTimeMs = exitTime
	pos.ExitPrice = price
	pos.ExitAmountSOL = exitValue
	pos.ExitReason = d.reason
	pos.ExitDetail = d.detail
	pos.ExitPriceSource = source
	pos.PnLSOL = exitValue - pos.EntryAmountSOL
	pos.PnLPct = pos.PnLSOL / pos.EntryAmountSOL * 100
	pos.HoldTimeMinutes = int(float64(exitTime-pos.EntryTimeMs) / msPerMinute)

	s.capital += exitValue
	s.exposure -= pos.EntryAmountSOL
	s.closed = append(s.closed, pos)
	s.trades = append(s.trades, &domain.Trade{
		PositionID:   pos.PositionID,
		TimestampMs:  exitTime,
		Side:         domain.SideSell,
		Mint:         pos.Mint,
		Symbol:       pos.Symbol,
		Price:        price,
		AmountSOL:    exitValue,
		AmountTokens: pos.EntryAmountTokens,
		Reason:       d.detail,
	})

	s.logger.Debug("exited position",
		zap.String("mint", pos.Mint),
		zap.String("reason", string(d.reason)),
		zap.String("price_source", string(source)),
		zap.Float64("pnl_sol", pos.PnLSOL),
	)
}
