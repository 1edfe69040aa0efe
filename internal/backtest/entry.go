package backtest

import (
	"go.uber.org/zap"

	"curve-lab/internal/domain"
	"curve-lab/internal/idhash"
	"curve-lab/internal/lookup"
)

// shouldEnter applies the strategy's entry filters to a launch.
// A missing market cap is zero, so the cap filter never blocks on absent data.
func (s *simulation) shouldEnter(launch *domain.LaunchRecord) bool {
	st := s.cfg.Strategy

	if launch.InitialLiquiditySOL < st.MinInitialLiquiditySOL {
		return false
	}
	if launch.InitialMarketCapSOL > st.MaxInitialMarketCapSOL {
		return false
	}
	if len(s.open) >= s.cfg.MaxConcurrentPositions {
		return false
	}
	if _, seen := s.traded[launch.Mint]; seen {
		return false
	}
	if st.MaxTotalExposureSOL > 0 && s.exposure+st.BuyAmountSOL > st.MaxTotalExposureSOL {
		return false
	}
	if s.admit != nil && !s.admit(launch) {
		return false
	}
	return true
}

// enter simulates a buy. Insufficient capital or an unresolved price skips
// the trade without error.
func (s *simulation) enter(launch *domain.LaunchRecord) {
	amount := s.cfg.Strategy.BuyAmountSOL
	if amount > s.capital {
		s.logger.Debug("skip entry: insufficient capital",
			zap.String("mint", launch.Mint),
			zap.Float64("capital", s.capital),
		)
		return
	}

	entryTime := launch.TimestampMs + s.cfg.ExecutionDelayMs
	res := lookup.ResolvePrice(launch, entryTime, s.cfg.DefaultPrice)
	if !res.OK() {
		s.logger.Debug("skip entry: no price", zap.String("mint", launch.Mint))
		return
	}

	price := buyFill(res.Price, s.cfg)
	pos := &domain.SimPosition{
		PositionID:        idhash.ComputePositionID(launch.Mint, entryTime, s.entries),
		Mint:              launch.Mint,
		Symbol:            symbolOf(launch),
		EntryTimeMs:       entryTime,
		EntryPrice:        price,
		EntryAmountSOL:    amount,
		EntryAmountTokens: amount / price,
		EntryPriceSource:  res.Source(),
		PeakPrice:         price,
		Status:            domain.PositionOpen,
	}

	s.entries++
	s.capital -= amount
	s.exposure += amount
	s.traded[launch.Mint] = struct{}{}
	s.open = append(s.open, holding{pos: pos, launch: launch})
	s.trades = append(s.trades, &domain.Trade{
		PositionID:   pos.PositionID,
		TimestampMs:  pos.EntryTimeMs,
		Side:         domain.SideBuy,
		Mint:         pos.Mint,
		Symbol:       pos.Symbol,
		Price:        pos.EntryPrice,
		AmountSOL:    pos.EntryAmountSOL,
		AmountTokens: pos.EntryAmountTokens,
		Reason:       domain.EntryReason,
	})

	s.logger.Debug("entered position",
		zap.String("mint", pos.Mint),
		zap.Float64("price", pos.EntryPrice),
		zap.Float64("sol", amount),
	)
}

func symbolOf(launch *domain.LaunchRecord) string {
	if launch.Symbol == "" {
		return "UNKNOWN"
	}
	return launch.Symbol
}
