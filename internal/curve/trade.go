package curve

import "math"

// BuyQuote is the outcome of buying against a snapshot.
type BuyQuote struct {
	SOLIn          float64 // requested input
	SOLUsed        float64 // input actually consumed, less than SOLIn when Exhausted
	TokensOut      float64
	PriceBefore    float64
	PriceAfter     float64
	AvgPrice       float64 // SOLUsed / TokensOut
	PriceImpactPct float64 // non-negative
	Exhausted      bool    // clamped to real token reserves
}

// SellQuote is the outcome of selling tokens back into a snapshot.
type SellQuote struct {
	TokensIn       float64
	TokensUsed     float64
	SOLOut         float64
	PriceBefore    float64
	PriceAfter     float64
	AvgPrice       float64
	PriceImpactPct float64 // non-positive
	Exhausted      bool    // clamped to real SOL reserves
}

// Buy quotes a purchase of solIn against the virtual reserves.
// Token output is capped at RealTokenReserves; the clamped case reports Exhausted.
func (s ReserveSnapshot) Buy(solIn float64) (BuyQuote, error) {
	if err := s.validate(); err != nil {
		return BuyQuote{}, err
	}
	if !validAmount(solIn) {
		return BuyQuote{}, ErrInvalidAmount
	}

	vSOL := float64(s.VirtualSOLReserves)
	vTok := float64(s.VirtualTokenReserves)
	k := s.k()

	q := BuyQuote{
		SOLIn:       solIn,
		SOLUsed:     solIn,
		PriceBefore: vSOL / vTok,
	}

	tokensOut := vTok - k/(vSOL+solIn)
	realTok := float64(s.RealTokenReserves)
	if tokensOut > realTok {
		tokensOut = realTok
		q.Exhausted = true
		q.SOLUsed = math.Min(solIn, s.solToExhaust())
	}
	q.TokensOut = tokensOut

	newSOL := vSOL + q.SOLUsed
	newTok := vTok - tokensOut
	q.PriceAfter = newSOL / newTok
	q.PriceImpactPct = math.Max(0, (q.PriceAfter-q.PriceBefore)/q.PriceBefore*100)
	if tokensOut > 0 {
		q.AvgPrice = q.SOLUsed / tokensOut
	}

	return q, nil
}

// Sell quotes selling tokensIn back into the curve.
// SOL output is capped at RealSOLReserves; the clamped case reports Exhausted.
func (s ReserveSnapshot) Sell(tokensIn float64) (SellQuote, error) {
	if err := s.validate(); err != nil {
		return SellQuote{}, err
	}
	if !validAmount(tokensIn) {
		return SellQuote{}, ErrInvalidAmount
	}

	vSOL := float64(s.VirtualSOLReserves)
	vTok := float64(s.VirtualTokenReserves)
	k := s.k()

	q := SellQuote{
		TokensIn:    tokensIn,
		TokensUsed:  tokensIn,
		PriceBefore: vSOL / vTok,
	}

	solOut := vSOL - k/(vTok+tokensIn)
	realSOL := float64(s.RealSOLReserves)
	if solOut > realSOL {
		solOut = realSOL
		q.Exhausted = true
		// tokens that would drain the real SOL balance
		q.TokensUsed = k/(vSOL-realSOL) - vTok
	}
	q.SOLOut = solOut

	newSOL := vSOL - solOut
	newTok := vTok + q.TokensUsed
	q.PriceAfter = newSOL / newTok
	q.PriceImpactPct = math.Min(0, (q.PriceAfter-q.PriceBefore)/q.PriceBefore*100)
	if q.TokensUsed > 0 {
		q.AvgPrice = solOut / q.TokensUsed
	}

	return q, nil
}

// solToExhaust returns the SOL input that drains RealTokenReserves, never negative.
// Returns +Inf when real reserves cover the whole virtual balance.
func (s ReserveSnapshot) solToExhaust() float64 {
	if s.RealTokenReserves == 0 {
		return 0
	}
	vSOL := float64(s.VirtualSOLReserves)
	vTok := float64(s.VirtualTokenReserves)
	remaining := vTok - float64(s.RealTokenReserves)
	if remaining <= 0 {
		return math.Inf(1)
	}
	return math.Max(0, s.k()/remaining-vSOL)
}

// impactPct is the unclamped price impact of spending x: ((vSOL+x)/vSOL)^2 - 1.
func (s ReserveSnapshot) impactPct(x float64) float64 {
	r := 1 + x/float64(s.VirtualSOLReserves)
	return (r*r - 1) * 100
}
