package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// HashSizeByte is the size of the hash output in bytes.
	HashSizeByte = sha256.Size
	// HexDigestSize is the length of a digest rendered as hex.
	HexDigestSize = 2 * HashSizeByte
)

// Digest hashes all passed byte slices.
// The passed slices won't be mutated.
func Digest(ms ...[]byte) []byte {
	h := sha256.New()
	for _, m := range ms {
		h.Write(m)
	}
	return h.Sum(nil)
}

// HexDigest returns the lowercase hexadecimal rendering of Digest(ms...).
func HexDigest(ms ...[]byte) string {
	return hex.EncodeToString(Digest(ms...))
}

// HasLeadingZeros reports whether the hex string digest starts with
// at least n '0' characters. n <= 0 is always satisfied.
func HasLeadingZeros(digest string, n int) bool {
	if n > len(digest) {
		return false
	}
	for i := 0; i < n; i++ {
		if digest[i] != '0' {
			return false
		}
	}
	return true
}
