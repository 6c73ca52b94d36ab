package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint returns a short content hash of the given text using
// BLAKE2b. Fingerprints tie an embedding vector to the exact text it
// was computed from: identical text always produces the same value.
func Fingerprint(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
