package crypto

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// hashToCurveDomainSeparator is prepended to every message before the
// first hash step, binding the curve point to this scheme rather than
// to SHA-256 of the bare message.
const hashToCurveDomainSeparator = "Secp256k1_HashToCurve_Cashu_"

// maxHashToCurveAttempts bounds the counter search. The chance of
// finding a valid point is roughly 50% per iteration, so this is
// never exhausted in practice.
const maxHashToCurveAttempts = 1 << 16

// HashToCurve deterministically maps an arbitrary secret message to a
// secp256k1 point Y, with no known discrete log relative to G. It hashes
// the domain-separated message, then appends a little-endian uint32
// counter and rehashes until the result decodes as a valid compressed
// point under the even-y prefix.
func HashToCurve(message []byte) (*Point, error) {
	msgHash := sha256.Sum256(append([]byte(hashToCurveDomainSeparator), message...))

	var compressed [CompressedPointSize]byte
	compressed[0] = 0x02

	for counter := uint32(0); counter < maxHashToCurveAttempts; counter++ {
		var counterBytes [4]byte
		binary.LittleEndian.PutUint32(counterBytes[:], counter)

		candidate := sha256.Sum256(append(append([]byte{}, msgHash[:]...), counterBytes[:]...))
		copy(compressed[1:], candidate[:])

		pub, err := secp256k1.ParsePubKey(compressed[:])
		if err != nil {
			continue
		}
		return &Point{pub: pub}, nil
	}
	return nil, ErrHashToCurveExhausted
}
