package pumpfun

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ProgramID is the pump.fun program address.
const ProgramID = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"

const (
	publicKeyLen     = 32
	bondingCurveSeed = "bonding-curve"
	pdaMarker        = "ProgramDerivedAddress"
)

// Errors returned by address derivation.
var (
	ErrInvalidPublicKey = errors.New("invalid base58 public key")
	ErrNoViableBump     = errors.New("unable to find a viable program address bump")
)

// ValidateMint checks that mint is a base58 encoded 32-byte key.
func ValidateMint(mint string) error {
	_, err := decodePublicKey(mint)
	return err
}

func decodePublicKey(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(raw) != publicKeyLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidPublicKey, len(raw))
	}
	return raw, nil
}

// BondingCurveAddress derives the bonding curve account for a mint.
// Returns the base58 address and the bump seed.
func BondingCurveAddress(mint string) (string, uint8, error) {
	mintKey, err := decodePublicKey(mint)
	if err != nil {
		return "", 0, err
	}
	program, err := decodePublicKey(ProgramID)
	if err != nil {
		return "", 0, err
	}

	addr, bump, err := findProgramAddress([][]byte{[]byte(bondingCurveSeed), mintKey}, program)
	if err != nil {
		return "", 0, err
	}
	return base58.Encode(addr), bump, nil
}

// findProgramAddress searches bumps from 255 down for the first off-curve hash.
func findProgramAddress(seeds [][]byte, program []byte) ([]byte, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, s := range seeds {
			h.Write(s)
		}
		h.Write([]byte{byte(bump)})
		h.Write(program)
		h.Write([]byte(pdaMarker))
		sum := h.Sum(nil)

		if !isOnCurve(sum) {
			return sum, uint8(bump), nil
		}
	}
	return nil, 0, ErrNoViableBump
}

// isOnCurve reports whether b decodes to a valid ed25519 point.
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
