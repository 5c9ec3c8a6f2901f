// Package token implements the token engine: composing blinded
// outputs, unblinding mint responses into spendable proofs, attaching
// P2PK witnesses, and driving a mint's mint/swap endpoints through a
// mintclient.Client.
package token

import "errors"

var (
	// ErrNoActiveKeyset is returned when a mint's keyset list has no
	// entry for the requested unit.
	ErrNoActiveKeyset = errors.New("token: no active keyset for unit")

	// ErrNoKeyForDenomination is returned when a keyset has no key for
	// a required power-of-two denomination.
	ErrNoKeyForDenomination = errors.New("token: no key for denomination")

	// ErrSignatureCountMismatch is returned when a mint returns a
	// different number of signatures than outputs submitted.
	ErrSignatureCountMismatch = errors.New("token: mint returned a different number of signatures than outputs")

	// ErrUnknownSigFlag is returned when AttachWitnesses is given a
	// sigflag other than SIG_INPUTS or SIG_ALL.
	ErrUnknownSigFlag = errors.New("token: unknown sigflag")

	// ErrInvalidKeyEncoding is returned when a keyset's hex-encoded key
	// does not decode to a valid compressed point.
	ErrInvalidKeyEncoding = errors.New("token: invalid keyset key encoding")
)
