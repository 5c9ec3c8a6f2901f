package swap

import (
	"context"
	"encoding/hex"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/mintclient"
	"github.com/backkem/ecashswap/pkg/p2pk"
	"github.com/backkem/ecashswap/pkg/token"
)

// CreateAdaptorSignatures has each side that holds both a private key
// and t compute an adaptor signature over its own locked digest. The
// responder always qualifies once Initialise has run. The initiator
// only qualifies when t is already known to this instance (the
// BrokerKnowsT case, or a joint test instance); under genuine
// PeerExtraction the initiator has no adaptor signature of its own and
// instead relies on ordering plus ExtractSecret, matching spec.md's own
// rationale that only the responder's claim need be observed first.
func (c *Coordinator) CreateAdaptorSignatures() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSecretsCreated {
		return newStateError("CreateAdaptorSignatures", StateSecretsCreated, c.state)
	}

	var produced bool

	if c.cfg.Responder.Privkey != nil && c.t != nil && c.initiatorLockedProofs != nil {
		sig, err := crypto.AdaptorSign(c.cfg.Responder.Privkey, c.initiatorDigest, c.t)
		if err != nil {
			return c.fail(err)
		}
		c.responderAdaptorSig = sig
		produced = true
	}

	if c.cfg.Initiator.Privkey != nil && c.t != nil && c.responderLockedProofs != nil {
		sig, err := crypto.AdaptorSign(c.cfg.Initiator.Privkey, c.responderDigest, c.t)
		if err != nil {
			return c.fail(err)
		}
		c.initiatorAdaptorSig = sig
		produced = true
	}

	if !produced {
		return c.fail(ErrNoPrivateKey)
	}

	c.state = StateAdaptorSigsExchanged
	return nil
}

// VerifyAdaptorSignatures checks every adaptor signature present
// against its signer's pubkey and secret, and that both, when both are
// present, share the same T, per spec.md's requirement that T equality
// be verified before advancing to VERIFIED.
func (c *Coordinator) VerifyAdaptorSignatures() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAdaptorSigsExchanged {
		return newStateError("VerifyAdaptorSignatures", StateAdaptorSigsExchanged, c.state)
	}

	if c.responderAdaptorSig != nil {
		if !crypto.AdaptorVerify(c.cfg.Responder.Pubkey, c.initiatorDigest, c.responderAdaptorSig) {
			return c.fail(ErrAdaptorVerifyFailed)
		}
		if c.adaptorPoint != nil && !c.responderAdaptorSig.T.Equal(c.adaptorPoint) {
			return c.fail(ErrMismatchedAdaptorPoint)
		}
	}

	if c.initiatorAdaptorSig != nil {
		if !crypto.AdaptorVerify(c.cfg.Initiator.Pubkey, c.responderDigest, c.initiatorAdaptorSig) {
			return c.fail(ErrAdaptorVerifyFailed)
		}
		if c.adaptorPoint != nil && !c.initiatorAdaptorSig.T.Equal(c.adaptorPoint) {
			return c.fail(ErrMismatchedAdaptorPoint)
		}
	}

	if c.responderAdaptorSig != nil && c.initiatorAdaptorSig != nil {
		if !c.responderAdaptorSig.T.Equal(c.initiatorAdaptorSig.T) {
			return c.fail(ErrMismatchedAdaptorPoint)
		}
	}

	c.state = StateVerified
	c.emit(Event{Type: EventVerified, T: c.adaptorPoint})
	return nil
}

// ResponderClaim completes the responder's adaptor signature with t
// and spends the initiator's locked proofs on the initiator's mint.
// Requires this instance to hold t, which is always true once
// Initialise has run (responder role) or for a BrokerKnowsT instance.
func (c *Coordinator) ResponderClaim(ctx context.Context, engine *token.Engine, outputKeyset *mintapi.Keyset, outputRecipient *crypto.Point) ([]mintapi.Proof, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateVerified {
		return nil, newStateError("ResponderClaim", StateVerified, c.state)
	}
	if c.t == nil || c.responderAdaptorSig == nil {
		return nil, ErrNoPrivateKey
	}

	c.state = StateClaiming

	completed, err := crypto.Complete(c.responderAdaptorSig, c.t)
	if err != nil {
		return nil, c.fail(err)
	}
	c.responderCompletedSig = completed

	sigBytes := completed.Bytes()
	sigHex := hex.EncodeToString(sigBytes[:])
	digest := c.initiatorDigest
	signer := func(msg [32]byte) (string, error) {
		if msg != digest {
			return "", ErrMismatchedAdaptorPoint
		}
		return sigHex, nil
	}

	proofs, err := engine.Swap(ctx, c.initiatorLockedProofs, p2pk.SigFlagAll, signer, c.cfg.Initiator.Amount-c.cfg.Fee, outputKeyset, outputRecipient, nil)
	if err != nil {
		return nil, c.fail(err)
	}

	c.state = StateExtracting
	return proofs, nil
}

// ExtractSecret recovers t from the responder's published claim. If
// this instance already knows t (BrokerKnowsT, or because it generated
// t itself) that value is returned directly; otherwise it fetches the
// first initiator-locked proof's witness from the mint and extracts t
// from the completed signature it carries.
func (c *Coordinator) ExtractSecret(ctx context.Context, client *mintclient.Client) (*crypto.Scalar, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateExtracting {
		return nil, newStateError("ExtractSecret", StateExtracting, c.state)
	}
	if c.t != nil {
		return c.t, nil
	}
	if c.responderAdaptorSig == nil || len(c.initiatorLockedProofs) == 0 {
		return nil, ErrNoPrivateKey
	}

	secretBytes := []byte(c.initiatorLockedProofs[0].Secret)
	y, err := crypto.HashToCurve(secretBytes)
	if err != nil {
		return nil, c.fail(err)
	}
	yCompressed := y.Compressed()

	resp, err := client.CheckProofStates(ctx, []string{hex.EncodeToString(yCompressed[:])})
	if err != nil {
		return nil, err
	}
	if len(resp.States) == 0 || resp.States[0].Witness == "" {
		return nil, ErrExtractionFailed
	}

	w, err := p2pk.DeserializeWitness(resp.States[0].Witness)
	if err != nil || len(w.Signatures) == 0 {
		return nil, ErrExtractionFailed
	}
	sigBytes, err := hex.DecodeString(w.Signatures[0])
	if err != nil || len(sigBytes) != crypto.SignatureSize {
		return nil, ErrExtractionFailed
	}
	var sigArr [crypto.SignatureSize]byte
	copy(sigArr[:], sigBytes)
	completed, err := crypto.SignatureFromBytes(sigArr)
	if err != nil {
		return nil, ErrExtractionFailed
	}

	t, err := crypto.Extract(c.responderAdaptorSig, completed)
	if err != nil {
		return nil, c.fail(ErrExtractionFailed)
	}

	c.t = t
	return t, nil
}

// InitiatorClaim completes the initiator's spend of the responder's
// locked proofs using t, signing directly with the initiator's own key
// when no adaptor signature was pre-created for this side (the
// PeerExtraction default).
func (c *Coordinator) InitiatorClaim(ctx context.Context, engine *token.Engine, outputKeyset *mintapi.Keyset, outputRecipient *crypto.Point) ([]mintapi.Proof, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateExtracting {
		return nil, newStateError("InitiatorClaim", StateExtracting, c.state)
	}
	if c.t == nil {
		return nil, ErrNoPrivateKey
	}
	if c.cfg.Initiator.Privkey == nil {
		return nil, ErrNoPrivateKey
	}

	digest := c.responderDigest
	var signer token.WitnessSigner
	if c.initiatorAdaptorSig != nil {
		completed, err := crypto.Complete(c.initiatorAdaptorSig, c.t)
		if err != nil {
			return nil, c.fail(err)
		}
		sigBytes := completed.Bytes()
		sigHex := hex.EncodeToString(sigBytes[:])
		signer = func(msg [32]byte) (string, error) {
			if msg != digest {
				return "", ErrMismatchedAdaptorPoint
			}
			return sigHex, nil
		}
	} else {
		signer = token.SignerFromKey(c.cfg.Initiator.Privkey)
	}

	proofs, err := engine.Swap(ctx, c.responderLockedProofs, p2pk.SigFlagAll, signer, c.cfg.Responder.Amount, outputKeyset, outputRecipient, nil)
	if err != nil {
		return nil, c.fail(err)
	}

	c.state = StateCompleted
	c.emit(Event{Type: EventCompleted})
	return proofs, nil
}
