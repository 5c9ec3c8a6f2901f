package mintclient

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps network-level failures (connection refused,
	// DNS failure, timeout before a response was received) and 5xx
	// responses. Retryable.
	ErrTransport = errors.New("mintclient: transport error")

	// ErrDecodeResponse is returned when a 2xx response body does not
	// decode into the expected wire type. Non-retryable: a malformed
	// response will not fix itself on retry.
	ErrDecodeResponse = errors.New("mintclient: failed to decode response")

	// ErrMintRejected is the sentinel MintError wraps via Unwrap, so
	// callers can errors.Is against it without caring about the status
	// code or detail text.
	ErrMintRejected = errors.New("mintclient: mint rejected request")
)

// MintError reports a non-2xx, non-5xx response from the mint: the request was
// delivered and the mint verified and rejected it. Never retryable.
type MintError struct {
	StatusCode int
	Detail     string
}

func (e *MintError) Error() string {
	return fmt.Sprintf("mintclient: mint returned %d: %s", e.StatusCode, e.Detail)
}

func (e *MintError) Unwrap() error {
	return ErrMintRejected
}
