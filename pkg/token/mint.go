package token

import (
	"context"
	"time"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/p2pk"
)

// DefaultMintQuotePollInterval is how often WaitForQuotePaid re-checks
// an unpaid mint quote.
const DefaultMintQuotePollInterval = 2 * time.Second

// RequestMintQuote requests a mint quote for amount/unit.
func (e *Engine) RequestMintQuote(ctx context.Context, amount uint64, unit string) (*mintapi.MintQuoteResponse, error) {
	return e.client.RequestMintQuote(ctx, mintapi.MintQuoteRequest{Amount: amount, Unit: unit})
}

// WaitForQuotePaid polls a mint quote until it reports paid, context
// cancellation, or a client error.
func (e *Engine) WaitForQuotePaid(ctx context.Context, quoteID string, pollInterval time.Duration) error {
	if pollInterval <= 0 {
		pollInterval = DefaultMintQuotePollInterval
	}
	for {
		q, err := e.client.CheckMintQuote(ctx, quoteID)
		if err != nil {
			return err
		}
		if q.Paid {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// MintTokens requests blind signatures for a paid quote, splitting
// amount into binary denominations under keyset. When recipient is nil
// the minted proofs are anyone-can-spend; otherwise each is P2PK-locked
// to recipient with the given tags.
func (e *Engine) MintTokens(ctx context.Context, quoteID string, amount uint64, keyset *mintapi.Keyset, recipient *crypto.Point, tags []p2pk.Tag) ([]mintapi.Proof, error) {
	outputs, err := buildOutputs(amount, keyset, recipient, tags)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Mint(ctx, mintapi.MintRequest{Quote: quoteID, Outputs: outputMessages(outputs)})
	if err != nil {
		return nil, err
	}

	return unblindAll(outputs, resp.Signatures, keyset)
}
