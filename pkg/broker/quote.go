package broker

import (
	"time"

	"github.com/google/uuid"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/mintapi"
)

// QuoteStatus is a SwapQuote's lifecycle stage.
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusCompleted QuoteStatus = "completed"
	QuoteStatusExpired   QuoteStatus = "expired"
	QuoteStatusFailed    QuoteStatus = "failed"
)

// SwapQuote is the public, client-visible record of one requested swap.
type SwapQuote struct {
	ID                  uuid.UUID
	SourceMint          string
	TargetMint          string
	InputAmount         uint64
	OutputAmount        uint64
	Fee                 uint64
	FeeRate             float64
	BrokerSessionPubkey *crypto.Point
	AdaptorPoint        *crypto.Point
	CreatedAt           time.Time
	ExpiresAt           time.Time
	Status              QuoteStatus
}

// privateState is the broker-only half of a quote: the adaptor secret
// and session key must never leave this struct until the reveal phase
// that CompleteSwap performs internally.
type privateState struct {
	quote SwapQuote

	brokerSessionPrivkey *crypto.Scalar
	adaptorSecret        *crypto.Scalar

	lockedTargetProofs     []mintapi.Proof
	sourceProofsFromClient []mintapi.Proof
}
