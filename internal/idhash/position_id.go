package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputePositionID computes a deterministic position_id using SHA256.
// Formula: SHA256(mint|entry_time|sequence)
// sequence is the position's ordinal within its run and disambiguates
// repeat entries into the same mint at the same time.
// Returns hex-encoded hash (64 characters).
func ComputePositionID(mint string, entryTimeMs int64, sequence int) string {
	data := fmt.Sprintf("%s|%d|%d", mint, entryTimeMs, sequence)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
