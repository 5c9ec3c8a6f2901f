package token

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/mintclient"
	"github.com/backkem/ecashswap/pkg/p2pk"
)

// Engine composes and unblinds tokens against a single mint through an
// injected mint client.
type Engine struct {
	client *mintclient.Client
}

// NewEngine wraps a mint client in a token engine.
func NewEngine(client *mintclient.Client) *Engine {
	return &Engine{client: client}
}

// pendingOutput tracks the blinding state needed to unblind a mint's
// signature once it arrives, alongside the output's own wire message.
type pendingOutput struct {
	msg       mintapi.BlindedMessage
	amount    uint64
	factor    *crypto.Scalar
	secretStr string
}

// newSecret draws a fresh secret for one output: a random 32-byte hex
// string for anyone-can-spend outputs, or a serialised P2PK secret
// locked to recipient.
func newSecret(recipient *crypto.Point, tags []p2pk.Tag) (secretBytes []byte, secretStr string, err error) {
	if recipient == nil {
		var b [32]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, "", err
		}
		s := hex.EncodeToString(b[:])
		return []byte(s), s, nil
	}

	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, "", err
	}
	secret := p2pk.NewSecret(recipient, nonce, tags)
	s := secret.Serialize()
	return []byte(s), s, nil
}

// buildOutputs splits amount into its binary denominations and blinds a
// fresh secret per denomination under keyset.
func buildOutputs(amount uint64, keyset *mintapi.Keyset, recipient *crypto.Point, tags []p2pk.Tag) ([]pendingOutput, error) {
	denoms := SplitAmount(amount)
	outputs := make([]pendingOutput, 0, len(denoms))
	for _, d := range denoms {
		secretBytes, secretStr, err := newSecret(recipient, tags)
		if err != nil {
			return nil, err
		}
		blinded, _, err := crypto.BlindMessage(secretBytes)
		if err != nil {
			return nil, err
		}
		compressed := blinded.Point.Compressed()
		outputs = append(outputs, pendingOutput{
			msg: mintapi.BlindedMessage{
				Amount: d,
				ID:     keyset.ID,
				B_:     hex.EncodeToString(compressed[:]),
			},
			amount:    d,
			factor:    blinded.BlindingFactor,
			secretStr: secretStr,
		})
	}
	return outputs, nil
}

func outputMessages(outputs []pendingOutput) []mintapi.BlindedMessage {
	msgs := make([]mintapi.BlindedMessage, len(outputs))
	for i, o := range outputs {
		msgs[i] = o.msg
	}
	return msgs
}

// unblindAll pairs each pending output with the mint's corresponding
// signature, in submission order, and assembles spendable proofs.
func unblindAll(outputs []pendingOutput, sigs []mintapi.BlindedSignature, keyset *mintapi.Keyset) ([]mintapi.Proof, error) {
	if len(outputs) != len(sigs) {
		return nil, ErrSignatureCountMismatch
	}

	proofs := make([]mintapi.Proof, len(outputs))
	for i, out := range outputs {
		key, err := KeyForAmount(keyset, out.amount)
		if err != nil {
			return nil, err
		}
		cPrimeBytes, err := hex.DecodeString(sigs[i].C_)
		if err != nil {
			return nil, ErrInvalidKeyEncoding
		}
		cPrime, err := crypto.PointFromCompressedSlice(cPrimeBytes)
		if err != nil {
			return nil, err
		}

		c := crypto.UnblindSignature(cPrime, out.factor, key)
		compressed := c.Compressed()

		proofs[i] = mintapi.Proof{
			Amount: out.amount,
			ID:     keyset.ID,
			Secret: out.secretStr,
			C:      hex.EncodeToString(compressed[:]),
		}
	}
	return proofs, nil
}
