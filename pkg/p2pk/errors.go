// Package p2pk implements the pay-to-public-key spending condition
// secret and witness, with a byte-deterministic JSON codec: the mint
// verifies a signature over the exact serialised bytes, so the encoder
// and decoder must agree field-for-field with no pretty-printing and no
// key reordering.
package p2pk

import "errors"

var (
	// ErrMalformedSecret is returned when a serialised secret does not
	// decode as the two-element ["P2PK", {...}] sequence.
	ErrMalformedSecret = errors.New("p2pk: malformed secret encoding")

	// ErrInvalidDataKey is returned when the data field does not decode
	// to a valid 32-byte x-only or 33-byte compressed public key.
	ErrInvalidDataKey = errors.New("p2pk: invalid data public key")

	// ErrInvalidNonce is returned when the nonce field is not valid hex
	// or is the wrong length.
	ErrInvalidNonce = errors.New("p2pk: invalid nonce")

	// ErrUnknownSigFlag is returned when a tag's sigflag value is
	// neither SIG_INPUTS nor SIG_ALL.
	ErrUnknownSigFlag = errors.New("p2pk: unknown sigflag")

	// ErrNoSignatures is returned when a witness carries zero
	// signatures.
	ErrNoSignatures = errors.New("p2pk: witness has no signatures")

	// ErrMalformedSignature is returned when a witness signature is not
	// exactly 128 hex characters.
	ErrMalformedSignature = errors.New("p2pk: malformed witness signature")
)
