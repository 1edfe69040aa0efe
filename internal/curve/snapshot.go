// Package curve prices trades against a pump.fun style constant-product
// bonding curve. All functions are pure over an immutable ReserveSnapshot.
package curve

import (
	"errors"
	"math"
)

// Errors returned by curve pricing.
var (
	ErrCurveComplete  = errors.New("bonding curve complete")
	ErrZeroReserves   = errors.New("bonding curve has zero virtual reserves")
	ErrInvalidAmount  = errors.New("trade amount must be positive and finite")
	ErrCurveExhausted = errors.New("bonding curve has no real token reserves left")
)

// Protocol constants.
const (
	// LamportsPerSOL is the SOL base-unit scale.
	LamportsPerSOL = 1_000_000_000

	// TokenDecimals is the decimal scale of pump.fun mints.
	TokenDecimals = 6

	// MigrationThresholdLamports is the real SOL balance at which the curve migrates.
	MigrationThresholdLamports = 85 * LamportsPerSOL

	// DefaultMaxPriceImpactPct is the default cap used by OptimalBuyAmount.
	DefaultMaxPriceImpactPct = 5.0
)

// ReserveSnapshot is the decoded state of a bonding curve account.
// Reserve fields are raw on-chain units (lamports, token base units).
// A snapshot is a value: pricing never mutates it.
type ReserveSnapshot struct {
	VirtualTokenReserves uint64
	VirtualSOLReserves   uint64
	RealTokenReserves    uint64
	RealSOLReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool // migrated, terminal for pricing
}

// InitialSnapshot returns the reserves of a freshly created pump.fun curve.
func InitialSnapshot() ReserveSnapshot {
	return ReserveSnapshot{
		VirtualTokenReserves: 1_073_000_000_000_000,
		VirtualSOLReserves:   30 * LamportsPerSOL,
		RealTokenReserves:    793_100_000_000_000,
		RealSOLReserves:      0,
		TokenTotalSupply:     1_000_000_000_000_000,
	}
}

// validate reports whether the snapshot can be priced.
func (s ReserveSnapshot) validate() error {
	if s.Complete {
		return ErrCurveComplete
	}
	if s.VirtualTokenReserves == 0 || s.VirtualSOLReserves == 0 {
		return ErrZeroReserves
	}
	return nil
}

// k returns the constant product of the virtual reserves.
func (s ReserveSnapshot) k() float64 {
	return float64(s.VirtualSOLReserves) * float64(s.VirtualTokenReserves)
}

// Price returns the spot price in SOL units per token unit.
func (s ReserveSnapshot) Price() (float64, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	return float64(s.VirtualSOLReserves) / float64(s.VirtualTokenReserves), nil
}

// MarketCapSOL returns spot price times total supply, denominated in the
// snapshot's SOL unit (lamports for on-chain snapshots).
func (s ReserveSnapshot) MarketCapSOL() (float64, error) {
	price, err := s.Price()
	if err != nil {
		return 0, err
	}
	return price * float64(s.TokenTotalSupply), nil
}

// MigrationProgress returns real SOL reserves over the migration threshold, clamped to [0, 1].
// A completed curve reports 1.
func (s ReserveSnapshot) MigrationProgress() float64 {
	if s.Complete {
		return 1
	}
	p := float64(s.RealSOLReserves) / float64(MigrationThresholdLamports)
	return math.Max(0, math.Min(1, p))
}

func validAmount(x float64) bool {
	return x > 0 && !math.IsNaN(x) && !math.IsInf(x, 0)
}
