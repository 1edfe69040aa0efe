package metrics

import (
	"math"
	"sort"

	"curve-lab/internal/domain"
)

// tradingPeriods is the annualization factor applied to per-trade returns.
const tradingPeriods = 252

// Compute reduces closed positions to a performance summary.
// Capital figures are reported as given; every other field stays zero when
// there are no closed positions.
func Compute(startingCapital, endingCapital float64, closed []*domain.SimPosition) domain.PerformanceSummary {
	s := domain.PerformanceSummary{
		StartingCapitalSOL: startingCapital,
		EndingCapitalSOL:   endingCapital,
	}

	n := len(closed)
	if n == 0 {
		return s
	}

	s.TotalPnLSOL = endingCapital - startingCapital
	if startingCapital != 0 {
		s.TotalReturnPct = s.TotalPnLSOL / startingCapital * 100
	}

	var winPcts, lossPcts []float64
	returns := make([]float64, n)
	holds := make([]float64, n)
	s.LargestWinPct = math.Inf(-1)
	s.LargestLossPct = math.Inf(1)

	for i, p := range closed {
		if p.PnLSOL > 0 {
			winPcts = append(winPcts, p.PnLPct)
		} else {
			lossPcts = append(lossPcts, p.PnLPct)
		}
		s.LargestWinPct = math.Max(s.LargestWinPct, p.PnLPct)
		s.LargestLossPct = math.Min(s.LargestLossPct, p.PnLPct)

		returns[i] = p.PnLPct / 100
		holds[i] = float64(p.HoldTimeMinutes)

		if p.IsFallbackExit() {
			s.FallbackExits++
		}
	}

	s.TotalTrades = n
	s.WinningTrades = len(winPcts)
	s.LosingTrades = len(lossPcts)
	s.WinRate = computeWinRate(s.WinningTrades, n)

	s.AvgWinPct = computeMean(winPcts)
	s.AvgLossPct = computeMean(lossPcts)
	s.ProfitFactor = computeProfitFactor(s.AvgWinPct, s.AvgLossPct)
	s.SharpeRatio = computeSharpe(returns)
	s.AvgHoldTimeMinutes = computeMean(holds)

	byExit := sortByExitTime(closed)
	s.MaxDrawdownPct = computeMaxDrawdownPct(startingCapital, byExit)
	s.MaxConsecutiveLosses = computeMaxConsecutiveLosses(byExit)

	return s
}

// computeWinRate returns wins / total as a percentage.
func computeWinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// computeMean calculates the arithmetic mean, 0 for an empty slice.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computeSharpe annualizes the mean per-trade return over its sample stddev.
// Returns 0 for fewer than 2 returns or zero variance.
func computeSharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := computeMean(returns)
	std := computeStddev(returns, mean)
	if std == 0 {
		return 0
	}
	return mean * tradingPeriods / (std * math.Sqrt(tradingPeriods))
}

// computeProfitFactor returns |avgWin / avgLoss|, 0 when there is no average loss.
func computeProfitFactor(avgWin, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 0
	}
	return math.Abs(avgWin / avgLoss)
}

// sortByExitTime returns a copy ordered by exit time; equal times keep close order.
func sortByExitTime(closed []*domain.SimPosition) []*domain.SimPosition {
	sorted := make([]*domain.SimPosition, len(closed))
	copy(sorted, closed)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExitTimeMs < sorted[j].ExitTimeMs
	})
	return sorted
}

// computeMaxDrawdownPct replays realized P&L on top of starting capital and
// returns the worst decline from a running peak, as a percentage of that peak.
// Positions must be in exit-time order.
func computeMaxDrawdownPct(startingCapital float64, positions []*domain.SimPosition) float64 {
	capital := startingCapital
	peak := capital
	maxDrawdown := 0.0

	for _, p := range positions {
		capital += p.PnLSOL
		if capital > peak {
			peak = capital
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - capital) / peak * 100; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown
}

// computeMaxConsecutiveLosses finds the longest streak of pnl <= 0.
// Positions must be in exit-time order.
func computeMaxConsecutiveLosses(positions []*domain.SimPosition) int {
	maxStreak := 0
	currentStreak := 0

	for _, p := range positions {
		if p.PnLSOL <= 0 {
			currentStreak++
			if currentStreak > maxStreak {
				maxStreak = currentStreak
			}
		} else {
			currentStreak = 0
		}
	}
	return maxStreak
}
