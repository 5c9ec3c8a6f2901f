package broker

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/backkem/ecashswap/pkg/crypto"
)

// maxSeedDeriveAttempts bounds rejection sampling when a derived
// 32-byte block happens to land outside [1, n-1]; astronomically
// unlikely in practice, same backstop role as crypto.NewScalar's.
const maxSeedDeriveAttempts = 8

// deriveQuoteScalar derives a scalar deterministically from masterSeed
// and quoteID via HKDF-SHA256, used by a Broker running in
// deterministic-seed mode (Config.MasterSeed set) instead of drawing
// fresh entropy per quote. label distinguishes the independent scalars
// derived from the same seed and quote (the session key vs. the
// adaptor secret), and also seeds the rejection-sampling retry so a
// retry never collides with another label's output.
func deriveQuoteScalar(masterSeed []byte, quoteID uuid.UUID, label string) (*crypto.Scalar, error) {
	for attempt := 0; attempt < maxSeedDeriveAttempts; attempt++ {
		info := make([]byte, 0, len(label)+4)
		info = append(info, label...)
		var counter [4]byte
		binary.BigEndian.PutUint32(counter[:], uint32(attempt))
		info = append(info, counter[:]...)

		okm, err := crypto.HKDFSHA256(masterSeed, quoteID[:], info, crypto.ScalarSize)
		if err != nil {
			return nil, err
		}
		var buf [crypto.ScalarSize]byte
		copy(buf[:], okm)

		s, err := crypto.ScalarFromBytes(buf)
		if err == nil {
			return s, nil
		}
	}
	return nil, crypto.ErrScalarGenFailed
}
