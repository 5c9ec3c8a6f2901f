package crypto

import (
	"crypto/rand"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// maxScalarGenAttempts bounds rejection sampling. The chance of needing
// more than a handful of draws is astronomically small; this is a
// fail-closed backstop, not a realistic limit.
const maxScalarGenAttempts = 1024

// ScalarSize is the byte length of a canonical scalar encoding.
const ScalarSize = 32

// Scalar is an integer modulo the secp256k1 group order n, always held
// in [1, n-1]. The zero value is not a valid Scalar; use NewScalar or
// ScalarFromBytes.
type Scalar struct {
	s secp256k1.ModNScalar
}

// NewScalar draws a scalar from r, rejection-sampling until the result
// lands in [1, n-1].
func NewScalar(r io.Reader) (*Scalar, error) {
	for i := 0; i < maxScalarGenAttempts; i++ {
		var buf [ScalarSize]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		var s secp256k1.ModNScalar
		if overflow := s.SetByteSlice(buf[:]); overflow {
			continue
		}
		if s.IsZero() {
			continue
		}
		return &Scalar{s: s}, nil
	}
	return nil, ErrScalarGenFailed
}

// GenerateScalar is a convenience wrapper around NewScalar using
// crypto/rand as the entropy source.
func GenerateScalar() (*Scalar, error) {
	return NewScalar(rand.Reader)
}

// ScalarFromBytes decodes a 32-byte big-endian integer, rejecting zero
// and out-of-range values.
func ScalarFromBytes(b [ScalarSize]byte) (*Scalar, error) {
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(b[:]); overflow {
		return nil, ErrScalarOutOfRange
	}
	if s.IsZero() {
		return nil, ErrScalarZero
	}
	return &Scalar{s: s}, nil
}

// scalarFromHash reduces an arbitrary 32-byte digest modulo n without
// rejecting zero or overflow; used for Schnorr/adaptor challenge values,
// which spec requires to simply be "e = SHA256(...) mod n".
func scalarFromHash(h [32]byte) *Scalar {
	var s secp256k1.ModNScalar
	s.SetByteSlice(h[:])
	return &Scalar{s: s}
}

// Bytes returns the canonical 32-byte big-endian encoding.
func (s *Scalar) Bytes() [ScalarSize]byte {
	return s.s.Bytes()
}

// IsZero reports whether the scalar is zero. Always false for a Scalar
// obtained through NewScalar/ScalarFromBytes; used internally by
// challenge-derived scalars.
func (s *Scalar) IsZero() bool {
	return s.s.IsZero()
}

// Equal reports whether two scalars are congruent mod n.
func (s *Scalar) Equal(o *Scalar) bool {
	return s.s.Equals(&o.s)
}

// Add returns s + o mod n.
func (s *Scalar) Add(o *Scalar) *Scalar {
	var r secp256k1.ModNScalar
	r.Add2(&s.s, &o.s)
	return &Scalar{s: r}
}

// Sub returns s - o mod n.
func (s *Scalar) Sub(o *Scalar) *Scalar {
	var negO secp256k1.ModNScalar
	negO.NegateVal(&o.s)
	var r secp256k1.ModNScalar
	r.Add2(&s.s, &negO)
	return &Scalar{s: r}
}

// Mul returns s * o mod n.
func (s *Scalar) Mul(o *Scalar) *Scalar {
	var r secp256k1.ModNScalar
	r.Mul2(&s.s, &o.s)
	return &Scalar{s: r}
}

// Negate returns n - s mod n.
func (s *Scalar) Negate() *Scalar {
	var r secp256k1.ModNScalar
	r.NegateVal(&s.s)
	return &Scalar{s: r}
}
