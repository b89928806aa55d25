// Package integrity computes content fingerprints used to detect corruption
// or out-of-band modification of cached bytes. Pure functions, no state.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the hex-encoded SHA-256 digest of content.
// Deterministic and collision-resistant; identical content always yields an
// identical fingerprint.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether content still matches a previously recorded
// fingerprint.
func Verify(content []byte, fingerprint string) bool {
	return Fingerprint(content) == fingerprint
}
