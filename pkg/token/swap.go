package token

import (
	"context"
	"encoding/hex"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/p2pk"
)

// WitnessSigner produces a hex-encoded 64-byte Schnorr signature over a
// 32-byte message digest. SignerFromKey supplies the ordinary case; a
// swap coordinator substitutes one that completes an adaptor signature
// instead of signing directly.
type WitnessSigner func(msg [32]byte) (string, error)

// SignerFromKey returns a WitnessSigner that signs directly with priv.
func SignerFromKey(priv *crypto.Scalar) WitnessSigner {
	return func(msg [32]byte) (string, error) {
		sig, err := crypto.Sign(priv, msg)
		if err != nil {
			return "", err
		}
		b := sig.Bytes()
		return hex.EncodeToString(b[:]), nil
	}
}

// AttachWitnesses signs input proofs per sigFlag and returns a copy of
// inputs with the witness field populated. For SIG_INPUTS each proof is
// signed over its own secret's hash. For SIG_ALL a single witness,
// carried on the first proof, signs SHA256 of the concatenated secret
// strings in input order.
func AttachWitnesses(inputs []mintapi.Proof, sigFlag p2pk.SigFlag, sign WitnessSigner) ([]mintapi.Proof, error) {
	out := append([]mintapi.Proof(nil), inputs...)

	switch sigFlag {
	case p2pk.SigFlagInputs:
		for i := range out {
			msg := crypto.SHA256([]byte(out[i].Secret))
			sigHex, err := sign(msg)
			if err != nil {
				return nil, err
			}
			raw, err := p2pk.NewWitness([]string{sigHex}).Serialize()
			if err != nil {
				return nil, err
			}
			out[i].Witness = raw
		}
	case p2pk.SigFlagAll:
		if len(out) == 0 {
			return out, nil
		}
		var joined []byte
		for _, p := range out {
			joined = append(joined, []byte(p.Secret)...)
		}
		msg := crypto.SHA256(joined)
		sigHex, err := sign(msg)
		if err != nil {
			return nil, err
		}
		raw, err := p2pk.NewWitness([]string{sigHex}).Serialize()
		if err != nil {
			return nil, err
		}
		out[0].Witness = raw
	default:
		return nil, ErrUnknownSigFlag
	}

	return out, nil
}

// Swap spends inputs and mints new proofs totalling amount under
// outputKeyset, witnessed per sigFlag using sign.
func (e *Engine) Swap(
	ctx context.Context,
	inputs []mintapi.Proof,
	sigFlag p2pk.SigFlag,
	sign WitnessSigner,
	amount uint64,
	outputKeyset *mintapi.Keyset,
	recipient *crypto.Point,
	tags []p2pk.Tag,
) ([]mintapi.Proof, error) {
	witnessed, err := AttachWitnesses(inputs, sigFlag, sign)
	if err != nil {
		return nil, err
	}

	outputs, err := buildOutputs(amount, outputKeyset, recipient, tags)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Swap(ctx, mintapi.SwapRequest{
		Inputs:  witnessed,
		Outputs: outputMessages(outputs),
	})
	if err != nil {
		return nil, err
	}

	return unblindAll(outputs, resp.Signatures, outputKeyset)
}
