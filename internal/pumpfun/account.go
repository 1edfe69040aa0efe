// Package pumpfun decodes pump.fun bonding curve accounts into curve snapshots.
package pumpfun

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"curve-lab/internal/curve"
)

// Errors returned by account decoding.
var (
	ErrAccountTooShort       = errors.New("bonding curve account data too short")
	ErrDiscriminatorMismatch = errors.New("account is not a bonding curve")
)

// Account layout: discriminator(8) | vtok(8) | vsol(8) | rtok(8) | rsol(8) | supply(8) | complete(1)
const (
	discriminatorLen  = 8
	bondingCurveSize  = discriminatorLen + 5*8 + 1
	accountNamePrefix = "account:"
)

var bondingCurveDiscriminator = accountDiscriminator("BondingCurve")

// accountDiscriminator returns the Anchor discriminator for an account type.
func accountDiscriminator(name string) [discriminatorLen]byte {
	var d [discriminatorLen]byte
	sum := sha256.Sum256([]byte(accountNamePrefix + name))
	copy(d[:], sum[:discriminatorLen])
	return d
}

// DecodeBondingCurve parses raw bonding curve account bytes.
// Trailing bytes beyond the known layout are ignored.
func DecodeBondingCurve(data []byte) (curve.ReserveSnapshot, error) {
	if len(data) < bondingCurveSize {
		return curve.ReserveSnapshot{}, fmt.Errorf("%w: %d bytes", ErrAccountTooShort, len(data))
	}
	if !bytes.Equal(data[:discriminatorLen], bondingCurveDiscriminator[:]) {
		return curve.ReserveSnapshot{}, ErrDiscriminatorMismatch
	}

	le := binary.LittleEndian
	off := discriminatorLen
	next := func() uint64 {
		v := le.Uint64(data[off : off+8])
		off += 8
		return v
	}

	snap := curve.ReserveSnapshot{
		VirtualTokenReserves: next(),
		VirtualSOLReserves:   next(),
		RealTokenReserves:    next(),
		RealSOLReserves:      next(),
		TokenTotalSupply:     next(),
	}
	snap.Complete = data[off] != 0

	return snap, nil
}

// DecodeBase64 decodes a base64 account payload as returned by getAccountInfo.
func DecodeBase64(data string) (curve.ReserveSnapshot, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return curve.ReserveSnapshot{}, fmt.Errorf("decode account data: %w", err)
	}
	return DecodeBondingCurve(raw)
}

// EncodeBondingCurve is the inverse of DecodeBondingCurve.
func EncodeBondingCurve(s curve.ReserveSnapshot) []byte {
	buf := make([]byte, bondingCurveSize)
	copy(buf, bondingCurveDiscriminator[:])

	le := binary.LittleEndian
	off := discriminatorLen
	for _, v := range []uint64{
		s.VirtualTokenReserves,
		s.VirtualSOLReserves,
		s.RealTokenReserves,
		s.RealSOLReserves,
		s.TokenTotalSupply,
	} {
		le.PutUint64(buf[off:off+8], v)
		off += 8
	}
	if s.Complete {
		buf[off] = 1
	}
	return buf
}
