package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentKey returns the first 16 hex characters of the SHA-256 of data. It is
// stable for identical uploads and safe to use as a path segment.
func ContentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
