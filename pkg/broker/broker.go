package broker

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/ledger"
	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/mintclient"
	"github.com/backkem/ecashswap/pkg/p2pk"
	"github.com/backkem/ecashswap/pkg/registry"
	"github.com/backkem/ecashswap/pkg/token"
)

// DefaultQuoteTTL bounds how long a requested quote remains acceptable.
const DefaultQuoteTTL = 2 * time.Minute

// Config configures a Broker.
type Config struct {
	// Registry resolves a mint URL to its cached keyset and info.
	Registry *registry.Registry

	// Ledger holds the broker's own pre-funded liquidity per mint.
	Ledger *ledger.Table

	// NewEngine builds a token engine bound to one mint. Defaults to
	// wrapping mintclient.New with no extra configuration.
	NewEngine func(mintURL string) *token.Engine

	// FeeRate is charged as fee = ceil(amount * FeeRate); a per-broker
	// constant.
	FeeRate float64

	// MasterSeed, if set, puts the broker into deterministic-seed mode:
	// RequestQuote derives each quote's session keypair and adaptor
	// secret via HKDF-SHA256 over MasterSeed and the quote ID instead
	// of drawing fresh entropy, so quote state can be reconstructed
	// from the seed and the (already-persisted) quote ID alone after a
	// restart, without keeping raw scalars at rest. Defaults to nil,
	// drawing fresh entropy per quote from crypto/rand.
	MasterSeed []byte

	MinAmount uint64
	MaxAmount uint64

	// QuoteTTL bounds how long a Pending quote stays acceptable.
	QuoteTTL time.Duration

	// MaxQuotes caps concurrent in-flight quotes.
	MaxQuotes int
}

// Broker accepts quote requests, reserves target-mint liquidity, and
// drives each swap to settlement. Grounded on the exchange manager's
// shape of orchestrating work over a set of injected managers — a
// session manager and transport manager there, a liquidity ledger and
// mint-client factory here — generalized from protocol exchanges to
// swap quotes.
type Broker struct {
	cfg    Config
	quotes *quoteTable
}

// New constructs a Broker.
func New(cfg Config) *Broker {
	if cfg.QuoteTTL <= 0 {
		cfg.QuoteTTL = DefaultQuoteTTL
	}
	if cfg.NewEngine == nil {
		cfg.NewEngine = func(mintURL string) *token.Engine {
			return token.NewEngine(mintclient.New(mintclient.Config{BaseURL: mintURL}))
		}
	}
	return &Broker{
		cfg:    cfg,
		quotes: newQuoteTable(cfg.MaxQuotes),
	}
}

// ComputeFee applies the broker's fee policy: fee = ceil(amount * rate).
func ComputeFee(amount uint64, rate float64) uint64 {
	return uint64(math.Ceil(float64(amount) * rate))
}

// sessionAndSecret draws a quote's session keypair and adaptor secret.
// In deterministic-seed mode (Config.MasterSeed set) both are derived
// via HKDF-SHA256 from MasterSeed and quoteID; otherwise both are
// drawn from crypto/rand.
func (b *Broker) sessionAndSecret(quoteID uuid.UUID) (sessionPriv *crypto.Scalar, sessionPub *crypto.Point, t *crypto.Scalar, T *crypto.Point, err error) {
	if b.cfg.MasterSeed != nil {
		sessionRaw, err := deriveQuoteScalar(b.cfg.MasterSeed, quoteID, "ecashswap-broker-session")
		if err != nil {
			return nil, nil, nil, nil, err
		}
		tRaw, err := deriveQuoteScalar(b.cfg.MasterSeed, quoteID, "ecashswap-broker-adaptor")
		if err != nil {
			return nil, nil, nil, nil, err
		}
		sessionPriv, sessionPub = crypto.Canonicalize(sessionRaw)
		t, T = crypto.Canonicalize(tRaw)
		return sessionPriv, sessionPub, t, T, nil
	}

	sessionKP, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tRaw, err := crypto.GenerateScalar()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	sessionPriv, sessionPub = crypto.Canonicalize(sessionKP.Private)
	t, T = crypto.Canonicalize(tRaw)
	return sessionPriv, sessionPub, t, T, nil
}

// RequestQuote validates a proposed swap, reserves nothing yet, and
// generates the broker's session keypair and adaptor secret for it.
func (b *Broker) RequestQuote(ctx context.Context, sourceMint, targetMint string, amount uint64) (*SwapQuote, error) {
	if sourceMint == targetMint {
		return nil, ErrSameMint
	}
	if _, err := b.cfg.Registry.Lookup(sourceMint); err != nil {
		return nil, ErrUnsupportedMint
	}
	if _, err := b.cfg.Registry.Lookup(targetMint); err != nil {
		return nil, ErrUnsupportedMint
	}
	if amount < b.cfg.MinAmount || (b.cfg.MaxAmount > 0 && amount > b.cfg.MaxAmount) {
		return nil, ErrAmountOutOfRange
	}

	fee := ComputeFee(amount, b.cfg.FeeRate)
	if fee > amount {
		return nil, ErrAmountOutOfRange
	}
	outputAmount := amount - fee

	if !b.cfg.Ledger.CanServe(targetMint, outputAmount) {
		return nil, ErrInsufficientLiquidity
	}

	quoteID := uuid.New()
	sessionPriv, sessionPub, t, T, err := b.sessionAndSecret(quoteID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	state := &privateState{
		quote: SwapQuote{
			ID:                  quoteID,
			SourceMint:          sourceMint,
			TargetMint:          targetMint,
			InputAmount:         amount,
			OutputAmount:        outputAmount,
			Fee:                 fee,
			FeeRate:             b.cfg.FeeRate,
			BrokerSessionPubkey: sessionPub,
			AdaptorPoint:        T,
			CreatedAt:           now,
			ExpiresAt:           now.Add(b.cfg.QuoteTTL),
			Status:              QuoteStatusPending,
		},
		brokerSessionPrivkey: sessionPriv,
		adaptorSecret:        t,
	}

	if _, err := b.quotes.Add(state); err != nil {
		return nil, err
	}

	public := state.quote
	return &public, nil
}

// AcceptQuote mints P2PK-locked tokens on the target mint, bound to
// clientPubkey + T, from proofs it selects and removes from the
// broker's target-mint liquidity at this point.
func (b *Broker) AcceptQuote(ctx context.Context, quoteID uuid.UUID, clientPubkey *crypto.Point) ([]mintapi.Proof, error) {
	state, err := b.quotes.Get(quoteID)
	if err != nil {
		return nil, err
	}

	if state.quote.Status != QuoteStatusPending {
		return nil, ErrWrongQuoteStatus
	}
	if time.Now().After(state.quote.ExpiresAt) {
		state.quote.Status = QuoteStatusExpired
		return nil, ErrQuoteExpired
	}

	targetInfo, err := b.cfg.Registry.Lookup(state.quote.TargetMint)
	if err != nil {
		return nil, ErrUnsupportedMint
	}

	selected, err := b.cfg.Ledger.Select(state.quote.TargetMint, state.quote.OutputAmount)
	if err != nil {
		return nil, err
	}

	// The client will eventually spend this proof with the scalar
	// clientPriv + t, and Sign canonicalises that scalar (and thus its
	// derived point) to even-y before signing; the lock key stored here
	// must be that same canonical point, not the raw sum.
	clientTweaked := crypto.CanonicalizePoint(clientPubkey.Add(state.quote.AdaptorPoint))

	engine := b.cfg.NewEngine(state.quote.TargetMint)
	locked, err := engine.Swap(ctx, selected, p2pk.SigFlagInputs, anyoneSigner, state.quote.OutputAmount, &targetInfo.Keyset, clientTweaked, nil)
	if err != nil {
		return nil, err
	}

	if err := b.cfg.Ledger.Remove(state.quote.TargetMint, selected, quoteID.String()); err != nil {
		return nil, err
	}

	state.lockedTargetProofs = locked
	state.quote.Status = QuoteStatusAccepted

	out := make([]mintapi.Proof, len(locked))
	copy(out, locked)
	return out, nil
}

// CompleteSwap signs the client's source-mint deposit (locked to
// brokerPubkey + T) with the tweaked key brokerPriv + t and swaps it
// into the ledger, completing the quote. Idempotent: a quote already
// Completed returns nil without touching the ledger again.
func (b *Broker) CompleteSwap(ctx context.Context, quoteID uuid.UUID, sourceProofs []mintapi.Proof) error {
	state, err := b.quotes.Get(quoteID)
	if err != nil {
		return err
	}

	if state.quote.Status == QuoteStatusCompleted {
		return nil
	}
	if state.quote.Status != QuoteStatusAccepted {
		return ErrWrongQuoteStatus
	}

	sourceInfo, err := b.cfg.Registry.Lookup(state.quote.SourceMint)
	if err != nil {
		return ErrUnsupportedMint
	}

	tweakedPriv := state.brokerSessionPrivkey.Add(state.adaptorSecret)
	signer := token.SignerFromKey(tweakedPriv)

	engine := b.cfg.NewEngine(state.quote.SourceMint)
	claimed, err := engine.Swap(ctx, sourceProofs, p2pk.SigFlagInputs, signer, state.quote.OutputAmount, &sourceInfo.Keyset, nil, nil)
	if err != nil {
		return err
	}

	if err := b.cfg.Ledger.Add(state.quote.SourceMint, claimed, quoteID.String()); err != nil {
		return err
	}

	state.sourceProofsFromClient = sourceProofs
	state.quote.Status = QuoteStatusCompleted

	// Best-effort release of the adaptor secret and session key now
	// that the swap has settled.
	state.adaptorSecret = nil
	state.brokerSessionPrivkey = nil

	return nil
}

// CancelQuote abandons a quote that has not yet been accepted. Once
// AcceptQuote has minted target-mint tokens to the client the broker
// must run the quote to termination, matching the coordinator's own
// cancellation contract.
func (b *Broker) CancelQuote(quoteID uuid.UUID) error {
	state, err := b.quotes.Get(quoteID)
	if err != nil {
		return err
	}
	if state.quote.Status != QuoteStatusPending {
		return ErrWrongQuoteStatus
	}
	state.quote.Status = QuoteStatusFailed
	state.adaptorSecret = nil
	state.brokerSessionPrivkey = nil
	return nil
}

// Quote returns the public view of a tracked quote.
func (b *Broker) Quote(quoteID uuid.UUID) (*SwapQuote, error) {
	state, err := b.quotes.Get(quoteID)
	if err != nil {
		return nil, err
	}
	public := state.quote
	return &public, nil
}

// anyoneSigner signs nothing, for inputs drawn from the broker's own
// anyone-can-spend liquidity.
func anyoneSigner(_ [32]byte) (string, error) {
	return "", nil
}
