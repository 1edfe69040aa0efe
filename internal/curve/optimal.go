package curve

import "math"

const (
	maxBisectIterations = 200
	bisectRelTolerance  = 1e-9
)

// OptimalBuyAmount returns the largest SOL input whose price impact stays within maxImpactPct.
// Impact grows monotonically with input, so the root is bracketed by zero and the
// input that exhausts real token reserves; if the whole bracket fits the cap, the
// exhaustion point is returned. A curve with no real tokens left returns ErrCurveExhausted.
func (s ReserveSnapshot) OptimalBuyAmount(maxImpactPct float64) (float64, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	if !validAmount(maxImpactPct) {
		return 0, ErrInvalidAmount
	}
	if s.RealTokenReserves == 0 {
		return 0, ErrCurveExhausted
	}

	hi := s.solToExhaust()
	if math.IsInf(hi, 1) {
		// impact at vSOL*(1+cap) is always above the cap
		hi = float64(s.VirtualSOLReserves) * (1 + maxImpactPct/100)
	} else if s.impactPct(hi) <= maxImpactPct {
		return hi, nil
	}

	lo := 0.0
	for i := 0; i < maxBisectIterations; i++ {
		if hi-lo <= bisectRelTolerance*hi {
			break
		}
		mid := lo + (hi-lo)/2
		if s.impactPct(mid) <= maxImpactPct {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo, nil
}
