package swap

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/p2pk"
	"github.com/backkem/ecashswap/pkg/token"
)

// Role identifies which side of a swap a Coordinator instance acts for.
// A broker-hosted coordinator and a single-process test harness both
// play RoleResponder, since they always hold the adaptor secret t; a
// genuine peer-to-peer initiator that only ever learns T plays
// RoleInitiator.
type Role int

const (
	RoleInitiator Role = iota
	RoleResponder
)

// Party describes one side's swap parameters. Privkey is nil when this
// Coordinator instance does not act on that side's behalf.
type Party struct {
	Pubkey  *crypto.Point
	Privkey *crypto.Scalar
	MintURL string
	Amount  uint64
}

// Config carries a swap's construction-time parameters, per the
// responder/initiator/fee/expiry tuple.
type Config struct {
	Initiator  Party
	Responder  Party
	Fee        uint64
	ExpiryTime time.Time
	RevealMode RevealMode
}

// Coordinator drives one cross-mint atomic swap through its state
// machine. Every step checks and advances state under mu and returns a
// *StateError rather than panicking, mirroring the teacher's CASE
// session discipline.
type Coordinator struct {
	mu        sync.Mutex
	cfg       Config
	localRole Role
	state     State

	t            *crypto.Scalar
	adaptorPoint *crypto.Point

	initiatorLockedProofs []mintapi.Proof // minted by initiator, locked to responder's pubkey
	responderLockedProofs []mintapi.Proof // minted by responder, locked to initiator's pubkey
	initiatorDigest       [32]byte
	responderDigest       [32]byte

	responderAdaptorSig *crypto.AdaptorSignature // over initiatorDigest, by responder's key
	initiatorAdaptorSig *crypto.AdaptorSignature // over responderDigest, by initiator's key, if t was known early

	responderCompletedSig *crypto.Signature

	events chan Event
}

// NewResponder constructs a Coordinator that will generate the adaptor
// secret itself: the role spec.md's Initialise step reserves for the
// responder, and the role a broker always plays.
func NewResponder(cfg Config) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		localRole: RoleResponder,
		state:     StateIdle,
		events:    make(chan Event, 8),
	}
}

// NewInitiator constructs a Coordinator for the party that learns only
// the adaptor point T, never t directly, and must later extract it
// from the responder's published claim.
func NewInitiator(cfg Config) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		localRole: RoleInitiator,
		state:     StateIdle,
		events:    make(chan Event, 8),
	}
}

// Events returns the Coordinator's event stream.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
	}
}

func (c *Coordinator) fail(err error) error {
	c.state = StateFailed
	c.emit(Event{Type: EventFailed, Err: err})
	return err
}

// Initialise generates the canonical adaptor secret t and point T.
// Responder only.
func (c *Coordinator) Initialise() (*crypto.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.localRole != RoleResponder {
		return nil, ErrWrongRole
	}
	if c.state != StateIdle {
		return nil, newStateError("Initialise", StateIdle, c.state)
	}

	raw, err := crypto.GenerateScalar()
	if err != nil {
		return nil, c.fail(err)
	}
	t, T := crypto.Canonicalize(raw)
	c.t = t
	c.adaptorPoint = T
	c.state = StateNegotiating
	c.emit(Event{Type: EventCreated, T: T})
	return T, nil
}

// SetAdaptorPoint records a T received from the responder out of band.
// Initiator only; the counterpart of Initialise for a peer-to-peer
// instance that never learns t directly.
func (c *Coordinator) SetAdaptorPoint(T *crypto.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.localRole != RoleInitiator {
		return ErrWrongRole
	}
	if c.state != StateIdle {
		return newStateError("SetAdaptorPoint", StateIdle, c.state)
	}

	c.adaptorPoint = T
	c.state = StateNegotiating
	return nil
}

// optionalSigner returns a WitnessSigner for priv, or a no-op signer
// when priv is nil (the corresponding inputs are anyone-can-spend and
// carry no witness requirement).
func optionalSigner(priv *crypto.Scalar) token.WitnessSigner {
	if priv == nil {
		return func([32]byte) (string, error) { return "", nil }
	}
	return token.SignerFromKey(priv)
}

// digestSecrets hashes proof secrets the same way token.AttachWitnesses
// does under SIG_ALL, so an adaptor signature produced ahead of time
// matches the digest AttachWitnesses will later sign.
func digestSecrets(proofs []mintapi.Proof) [32]byte {
	var joined []byte
	for _, p := range proofs {
		joined = append(joined, []byte(p.Secret)...)
	}
	return sha256.Sum256(joined)
}

// CreateSecrets has each side convert its existing holdings into new
// proofs locked to the counterparty's pubkey, SIG_ALL. initiatorEngine
// and initiatorInputs are nil when this Coordinator instance does not
// act for the initiator (and symmetrically for the responder side),
// letting a single-role PeerExtraction instance only do its own half.
func (c *Coordinator) CreateSecrets(
	ctx context.Context,
	initiatorEngine *token.Engine,
	initiatorInputs []mintapi.Proof,
	initiatorKeyset *mintapi.Keyset,
	responderEngine *token.Engine,
	responderInputs []mintapi.Proof,
	responderKeyset *mintapi.Keyset,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateNegotiating {
		return newStateError("CreateSecrets", StateNegotiating, c.state)
	}

	tags := []p2pk.Tag{p2pk.SigFlagTag(p2pk.SigFlagAll)}

	if initiatorEngine != nil {
		locked, err := initiatorEngine.Swap(ctx, initiatorInputs, p2pk.SigFlagInputs, optionalSigner(c.cfg.Initiator.Privkey),
			c.cfg.Initiator.Amount, initiatorKeyset, c.cfg.Responder.Pubkey, tags)
		if err != nil {
			return c.fail(err)
		}
		c.initiatorLockedProofs = locked
		c.initiatorDigest = digestSecrets(locked)
	}

	if responderEngine != nil {
		locked, err := responderEngine.Swap(ctx, responderInputs, p2pk.SigFlagInputs, optionalSigner(c.cfg.Responder.Privkey),
			c.cfg.Responder.Amount, responderKeyset, c.cfg.Initiator.Pubkey, tags)
		if err != nil {
			return c.fail(err)
		}
		c.responderLockedProofs = locked
		c.responderDigest = digestSecrets(locked)
	}

	if c.initiatorLockedProofs == nil && c.responderLockedProofs == nil {
		return c.fail(ErrNoPrivateKey)
	}

	c.state = StateSecretsCreated
	return nil
}
