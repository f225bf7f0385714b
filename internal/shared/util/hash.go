package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashOwnerKey derives a fixed-width, filesystem-safe directory name
// from an owning entity ID. Truncated to 16 bytes; collisions across
// entity IDs are not a concern at that width.
func HashOwnerKey(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:16])
}
