package registry

import "errors"

var (
	// ErrUnknownMint is returned when a lookup names a mint the
	// registry has no entry for.
	ErrUnknownMint = errors.New("registry: unknown mint")

	// ErrAlreadyRegistered reports a URL that is already present. No
	// function in this package returns it: Register overwrites an
	// existing entry.
	ErrAlreadyRegistered = errors.New("registry: mint already registered")

	// ErrClosed reports an operation on a closed Discoverer. No
	// Discoverer method returns it: Close only stops advertising.
	ErrClosed = errors.New("registry: closed")
)
