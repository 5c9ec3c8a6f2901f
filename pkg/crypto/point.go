package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// CompressedPointSize is the byte length of a compressed point encoding
// (0x02/0x03 prefix || 32-byte X).
const CompressedPointSize = 33

// XOnlyPointSize is the byte length of an x-only point encoding.
const XOnlyPointSize = 32

// Point is a secp256k1 group element. Encoders and decoders never
// implicitly cross the compressed and x-only wire encodings: decoding
// an x-only value always produces the even-y lift, and callers that
// need the other root must negate explicitly.
type Point struct {
	pub *secp256k1.PublicKey
}

// BasePointMul returns s*G.
func BasePointMul(s *Scalar) *Point {
	var jr secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&s.s, &jr)
	jr.ToAffine()
	return &Point{pub: secp256k1.NewPublicKey(&jr.X, &jr.Y)}
}

// PointFromCompressed decodes a 33-byte compressed point, validating
// that it lies on the curve.
func PointFromCompressed(b [CompressedPointSize]byte) (*Point, error) {
	pub, err := secp256k1.ParsePubKey(b[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return &Point{pub: pub}, nil
}

// PointFromCompressedSlice is a convenience wrapper for callers holding
// a variable-length (but expected 33-byte) slice, as commonly arrives
// over the wire.
func PointFromCompressedSlice(b []byte) (*Point, error) {
	if len(b) != CompressedPointSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPoint, CompressedPointSize, len(b))
	}
	var arr [CompressedPointSize]byte
	copy(arr[:], b)
	return PointFromCompressed(arr)
}

// PointFromXOnly lifts a 32-byte x-only encoding to the point with that
// x-coordinate and even y. There is no "odd y" counterpart: callers
// needing the other root must call Negate on the result.
func PointFromXOnly(x [XOnlyPointSize]byte) (*Point, error) {
	var compressed [CompressedPointSize]byte
	compressed[0] = 0x02
	copy(compressed[1:], x[:])
	pub, err := secp256k1.ParsePubKey(compressed[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return &Point{pub: pub}, nil
}

// Compressed returns the 33-byte compressed encoding (0x02/0x03 || X).
func (p *Point) Compressed() [CompressedPointSize]byte {
	var out [CompressedPointSize]byte
	copy(out[:], p.pub.SerializeCompressed())
	return out
}

// XOnly returns the 32-byte x-coordinate, discarding the y parity.
func (p *Point) XOnly() [XOnlyPointSize]byte {
	var out [XOnlyPointSize]byte
	c := p.pub.SerializeCompressed()
	copy(out[:], c[1:])
	return out
}

// HasEvenY reports whether the point's y-coordinate is even.
func (p *Point) HasEvenY() bool {
	return p.pub.SerializeCompressed()[0] == 0x02
}

// Equal reports whether two points are the same group element.
func (p *Point) Equal(o *Point) bool {
	return p.pub.IsEqual(o.pub)
}

// Add returns p + o.
func (p *Point) Add(o *Point) *Point {
	var jp, jo, jr secp256k1.JacobianPoint
	p.pub.AsJacobian(&jp)
	o.pub.AsJacobian(&jo)
	secp256k1.AddNonConst(&jp, &jo, &jr)
	jr.ToAffine()
	return &Point{pub: secp256k1.NewPublicKey(&jr.X, &jr.Y)}
}

// Negate returns -p.
func (p *Point) Negate() *Point {
	var negOne secp256k1.ModNScalar
	negOne.SetInt(1)
	negOne.Negate()
	var jp, jr secp256k1.JacobianPoint
	p.pub.AsJacobian(&jp)
	secp256k1.ScalarMultNonConst(&negOne, &jp, &jr)
	jr.ToAffine()
	return &Point{pub: secp256k1.NewPublicKey(&jr.X, &jr.Y)}
}

// ScalarMul returns s*p.
func (p *Point) ScalarMul(s *Scalar) *Point {
	var jp, jr secp256k1.JacobianPoint
	p.pub.AsJacobian(&jp)
	secp256k1.ScalarMultNonConst(&s.s, &jp, &jr)
	jr.ToAffine()
	return &Point{pub: secp256k1.NewPublicKey(&jr.X, &jr.Y)}
}
