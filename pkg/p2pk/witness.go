package p2pk

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/backkem/ecashswap/pkg/crypto"
)

// Witness carries the signatures authorising the spend of a P2PK-locked
// proof, plus an optional hash-lock preimage.
type Witness struct {
	Signatures []string
	Preimage   string
}

// NewWitness wraps a set of hex-encoded signatures.
func NewWitness(signatures []string) *Witness {
	return &Witness{Signatures: append([]string(nil), signatures...)}
}

// Serialize encodes the witness as compact JSON, signatures first.
func (w *Witness) Serialize() (string, error) {
	if len(w.Signatures) == 0 {
		return "", ErrNoSignatures
	}
	for _, sig := range w.Signatures {
		if len(sig) != 2*crypto.SignatureSize {
			return "", ErrMalformedSignature
		}
		if _, err := hex.DecodeString(sig); err != nil {
			return "", ErrMalformedSignature
		}
	}

	var buf bytes.Buffer
	buf.WriteString(`{"signatures":[`)
	for i, sig := range w.Signatures {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(jsonString(sig))
	}
	buf.WriteByte(']')
	if w.Preimage != "" {
		buf.WriteString(`,"preimage":`)
		buf.WriteString(jsonString(w.Preimage))
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

type wireWitness struct {
	Signatures []string `json:"signatures"`
	Preimage   string   `json:"preimage,omitempty"`
}

// DeserializeWitness parses a serialised witness.
func DeserializeWitness(raw string) (*Witness, error) {
	var wire wireWitness
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, ErrMalformedSecret
	}
	if len(wire.Signatures) == 0 {
		return nil, ErrNoSignatures
	}
	return &Witness{Signatures: wire.Signatures, Preimage: wire.Preimage}, nil
}

// SignSecret produces the hex-encoded witness signature over secret's
// hash using the spender's private key.
func SignSecret(secret *Secret, priv *crypto.Scalar) (string, error) {
	sig, err := crypto.Sign(priv, secret.Hash())
	if err != nil {
		return "", err
	}
	b := sig.Bytes()
	return hex.EncodeToString(b[:]), nil
}

// VerifyWitnessSignature checks one hex-encoded witness signature
// against secret's hash under the given public key.
func VerifyWitnessSignature(secret *Secret, pub *crypto.Point, sigHex string) (bool, error) {
	if len(sigHex) != 2*crypto.SignatureSize {
		return false, ErrMalformedSignature
	}
	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil {
		return false, ErrMalformedSignature
	}
	var arr [crypto.SignatureSize]byte
	copy(arr[:], sigBytes)
	sig, err := crypto.SignatureFromBytes(arr)
	if err != nil {
		return false, err
	}
	return crypto.Verify(pub, secret.Hash(), sig), nil
}
