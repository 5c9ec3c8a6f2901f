// Package ledger implements the concurrent per-mint liquidity ledger:
// balance and proof inventory bookkeeping for mints the broker holds
// funds on. Writers serialise per mint; readers may run concurrently.
package ledger

import "errors"

var (
	// ErrMintNotFound is returned when an operation targets a mint the
	// ledger has no entry for.
	ErrMintNotFound = errors.New("ledger: mint not found")

	// ErrInsufficientBalance is returned by Select when the requested
	// amount exceeds the available proof inventory for a mint.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrProofNotFound is returned by Remove when a proof's secret is
	// not present in the mint's inventory.
	ErrProofNotFound = errors.New("ledger: proof not found")

	// ErrDuplicateSecret is returned by Add when a proof with the same
	// secret already exists in the mint's inventory.
	ErrDuplicateSecret = errors.New("ledger: duplicate proof secret")
)
