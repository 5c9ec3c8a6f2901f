package crypto

import (
	"crypto/sha256"
	"hash"
)

// SHA256Size is the SHA-256 digest length in bytes.
const SHA256Size = 32

// SHA256 computes the SHA-256 digest of message.
func SHA256(message []byte) [SHA256Size]byte {
	return sha256.Sum256(message)
}

// SHA256Slice is a convenience wrapper returning the digest as a slice.
func SHA256Slice(message []byte) []byte {
	h := sha256.Sum256(message)
	return h[:]
}

// NewSHA256 returns a streaming SHA-256 hasher for incrementally hashed
// inputs such as challenge preimages assembled from multiple fields.
func NewSHA256() hash.Hash {
	return sha256.New()
}
