package curve

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// LamportsToSOL converts lamports to an exact SOL amount.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9)
}

// SOLToLamports converts a SOL amount to lamports, truncating sub-lamport dust.
// Negative amounts map to zero.
func SOLToLamports(sol float64) uint64 {
	d := decimal.NewFromFloat(sol)
	if d.Sign() <= 0 {
		return 0
	}
	return d.Shift(9).Truncate(0).BigInt().Uint64()
}

// TokensToUI converts token base units to whole tokens.
func TokensToUI(baseUnits float64) decimal.Decimal {
	return decimal.NewFromFloat(baseUnits).Shift(-TokenDecimals)
}
