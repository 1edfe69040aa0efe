package pumpfun

import (
	"encoding/base64"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curve-lab/internal/curve"
)

const wsolMint = "So11111111111111111111111111111111111111112"

func TestDecodeBondingCurve_RoundTrip(t *testing.T) {
	snap := curve.InitialSnapshot()
	snap.RealSOLReserves = 12_345_678_900
	snap.Complete = true

	raw := EncodeBondingCurve(snap)
	require.Len(t, raw, bondingCurveSize)

	decoded, err := DecodeBondingCurve(raw)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)

	fromB64, err := DecodeBase64(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, snap, fromB64)
}

func TestDecodeBondingCurve_IgnoresTrailingBytes(t *testing.T) {
	snap := curve.InitialSnapshot()
	raw := append(EncodeBondingCurve(snap), make([]byte, 32)...)

	decoded, err := DecodeBondingCurve(raw)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
}

func TestDecodeBondingCurve_Errors(t *testing.T) {
	raw := EncodeBondingCurve(curve.InitialSnapshot())

	_, err := DecodeBondingCurve(raw[:20])
	assert.ErrorIs(t, err, ErrAccountTooShort)

	bad := append([]byte(nil), raw...)
	bad[0] ^= 0xff
	_, err = DecodeBondingCurve(bad)
	assert.ErrorIs(t, err, ErrDiscriminatorMismatch)

	_, err = DecodeBase64("not base64!!")
	assert.Error(t, err)
}

func TestDiscriminator_IsStable(t *testing.T) {
	// sha256("account:BondingCurve")[:8]
	assert.Equal(t, [8]byte{0x17, 0xb7, 0xf8, 0x37, 0x60, 0xd8, 0xac, 0x60}, bondingCurveDiscriminator)
}

func TestValidateMint(t *testing.T) {
	assert.NoError(t, ValidateMint(wsolMint))
	assert.NoError(t, ValidateMint(ProgramID))
	assert.ErrorIs(t, ValidateMint("short"), ErrInvalidPublicKey)
	assert.ErrorIs(t, ValidateMint("0OIl"), ErrInvalidPublicKey)
}

func TestBondingCurveAddress(t *testing.T) {
	addr, bump, err := BondingCurveAddress(wsolMint)
	require.NoError(t, err)

	raw, err := base58.Decode(addr)
	require.NoError(t, err)
	assert.Len(t, raw, publicKeyLen)
	assert.False(t, isOnCurve(raw), "program address must be off curve")

	again, bumpAgain, err := BondingCurveAddress(wsolMint)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, bumpAgain)

	other, _, err := BondingCurveAddress(ProgramID)
	require.NoError(t, err)
	assert.NotEqual(t, addr, other)

	_, _, err = BondingCurveAddress("bogus")
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}
