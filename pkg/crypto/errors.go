// Package crypto implements the secp256k1 arithmetic, hash-to-curve,
// blind Diffie-Hellman key exchange, and Schnorr/adaptor signature
// primitives the rest of the system is built on.
package crypto

import "errors"

// Scalar and point errors.
var (
	// ErrScalarZero is returned when a scalar is zero, which is never a
	// valid private key, nonce, or adaptor secret.
	ErrScalarZero = errors.New("crypto: scalar is zero")

	// ErrScalarOutOfRange is returned when a scalar is not in [1, n-1].
	ErrScalarOutOfRange = errors.New("crypto: scalar out of range")

	// ErrScalarGenFailed is returned when rejection sampling failed to
	// produce an in-range scalar after the attempt budget was exhausted.
	// This should never happen in practice.
	ErrScalarGenFailed = errors.New("crypto: scalar generation failed")

	// ErrInvalidPoint is returned when a byte string does not decode to
	// a point on the curve.
	ErrInvalidPoint = errors.New("crypto: invalid point encoding")

	// ErrHashToCurveExhausted is returned when no candidate point was
	// found after the full counter range. Never occurs in practice.
	ErrHashToCurveExhausted = errors.New("crypto: hash-to-curve exhausted candidate space")
)

// Schnorr and adaptor-signature errors.
var (
	// ErrSignatureInvalid is returned by Verify when the equation
	// s*G == R + e*P does not hold.
	ErrSignatureInvalid = errors.New("crypto: signature verification failed")

	// ErrAdaptorSignatureInvalid is returned by AdaptorVerify when the
	// equation s'*G == R + T + e*P does not hold.
	ErrAdaptorSignatureInvalid = errors.New("crypto: adaptor signature verification failed")

	// ErrAdaptorSecretMismatch is returned by Complete when t*G != T.
	ErrAdaptorSecretMismatch = errors.New("crypto: adaptor secret does not match commitment T")

	// ErrExtractionMismatch is returned by Extract when the recovered
	// scalar t does not satisfy t*G == T. Under honest participants this
	// indicates a critical protocol violation (e.g. mint nonce reuse),
	// never routine failure.
	ErrExtractionMismatch = errors.New("crypto: extracted secret does not match commitment T")

	// ErrSignatureMalformed is returned when a 64-byte signature or
	// adaptor-signature wire form has the wrong length or an invalid
	// component encoding.
	ErrSignatureMalformed = errors.New("crypto: malformed signature encoding")

	// ErrMismatchedR is returned by Extract when the adaptor signature
	// and completed signature do not share the same nonce R.
	ErrMismatchedR = errors.New("crypto: adaptor and completed signature nonces differ")
)
