// Package broker implements multi-mint swap quoting on top of the
// liquidity ledger and token engine: a client requests a quote to move
// value from a source mint to a target mint, the broker mints
// adaptor-point-locked tokens on the target mint, and completes the
// swap by claiming the client's matching deposit on the source mint
// once it reveals t.
package broker

import "errors"

var (
	// ErrSameMint is returned when sourceMint equals targetMint.
	ErrSameMint = errors.New("broker: source and target mint must differ")

	// ErrUnsupportedMint is returned when a requested mint is not in
	// the broker's registry.
	ErrUnsupportedMint = errors.New("broker: mint not supported")

	// ErrAmountOutOfRange is returned when amount falls outside
	// [minAmount, maxAmount].
	ErrAmountOutOfRange = errors.New("broker: amount out of range")

	// ErrInsufficientLiquidity is returned when the target mint's
	// ledger cannot cover the requested output amount.
	ErrInsufficientLiquidity = errors.New("broker: insufficient target liquidity")

	// ErrQuoteNotFound is returned when a quote ID has no matching
	// entry.
	ErrQuoteNotFound = errors.New("broker: quote not found")

	// ErrQuoteTableFull is returned when the broker is already
	// servicing its configured maximum number of concurrent quotes.
	ErrQuoteTableFull = errors.New("broker: quote table full")

	// ErrQuoteExpired is returned when a quote's expiresAt has passed.
	ErrQuoteExpired = errors.New("broker: quote expired")

	// ErrWrongQuoteStatus is returned when an operation is attempted
	// against a quote in the wrong status.
	ErrWrongQuoteStatus = errors.New("broker: wrong quote status for operation")
)
