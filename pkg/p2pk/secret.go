package p2pk

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/backkem/ecashswap/pkg/crypto"
)

// Tag is a single [key, value] pair attached to a Secret.
type Tag [2]string

// Secret is the P2PK spending condition attached to a proof: only the
// holder of the private key for Data may produce a valid witness.
type Secret struct {
	Nonce [32]byte
	Data  *crypto.Point
	Tags  []Tag
}

// NewSecret builds a secret locking spend to recipient, with a caller
// supplied nonce (normally drawn fresh per proof to avoid secret
// collisions across mints) and an arbitrary ordered tag list.
func NewSecret(recipient *crypto.Point, nonce [32]byte, tags []Tag) *Secret {
	return &Secret{Nonce: nonce, Data: recipient, Tags: append([]Tag(nil), tags...)}
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshal of a Go string only fails on invalid UTF-8, which
		// cannot occur for the hex and enum values this package emits.
		panic(err)
	}
	return string(b)
}

// Serialize encodes the secret as the canonical compact two-element
// ["P2PK", {...}] sequence, fields in nonce/data/tags order, no
// whitespace. This exact byte sequence is what gets hashed and signed,
// so the encoding here must never diverge across calls or platforms.
func (s *Secret) Serialize() string {
	var buf bytes.Buffer
	buf.WriteString(`["P2PK",{"nonce":`)
	buf.WriteString(jsonString(hex.EncodeToString(s.Nonce[:])))
	buf.WriteString(`,"data":`)
	data := s.Data.Compressed()
	buf.WriteString(jsonString(hex.EncodeToString(data[:])))
	buf.WriteString(`,"tags":[`)
	for i, tag := range s.Tags {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		buf.WriteString(jsonString(tag[0]))
		buf.WriteByte(',')
		buf.WriteString(jsonString(tag[1]))
		buf.WriteByte(']')
	}
	buf.WriteString(`]}]`)
	return buf.String()
}

// Hash returns SHA256(utf8(Serialize())), the digest a P2PK witness
// signature is computed over.
func (s *Secret) Hash() [32]byte {
	return crypto.SHA256([]byte(s.Serialize()))
}

type wireSecretBody struct {
	Nonce string     `json:"nonce"`
	Data  string     `json:"data"`
	Tags  [][]string `json:"tags"`
}

// DeserializeSecret parses a serialised P2PK secret. Field order on
// decode is irrelevant; only Serialize's output ordering is contractual.
func DeserializeSecret(raw string) (*Secret, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &arr); err != nil || len(arr) != 2 {
		return nil, ErrMalformedSecret
	}
	var kind string
	if err := json.Unmarshal(arr[0], &kind); err != nil || kind != "P2PK" {
		return nil, ErrMalformedSecret
	}
	var body wireSecretBody
	if err := json.Unmarshal(arr[1], &body); err != nil {
		return nil, ErrMalformedSecret
	}

	nonceBytes, err := hex.DecodeString(body.Nonce)
	if err != nil || len(nonceBytes) != 32 {
		return nil, ErrInvalidNonce
	}

	dataBytes, err := hex.DecodeString(body.Data)
	if err != nil {
		return nil, ErrInvalidDataKey
	}
	point, err := liftDataKey(dataBytes)
	if err != nil {
		return nil, err
	}

	tags := make([]Tag, 0, len(body.Tags))
	for _, t := range body.Tags {
		if len(t) != 2 {
			return nil, ErrMalformedSecret
		}
		tags = append(tags, Tag{t[0], t[1]})
	}

	var secret Secret
	copy(secret.Nonce[:], nonceBytes)
	secret.Data = point
	secret.Tags = tags
	return &secret, nil
}

// liftDataKey accepts either a 33-byte compressed key or a 32-byte
// x-only key, lifting the latter to its even-y point. Loss of parity
// here would silently authorise the wrong spender, so both encodings
// are handled explicitly rather than assumed.
func liftDataKey(b []byte) (*crypto.Point, error) {
	switch len(b) {
	case crypto.CompressedPointSize:
		return crypto.PointFromCompressedSlice(b)
	case crypto.XOnlyPointSize:
		var x [crypto.XOnlyPointSize]byte
		copy(x[:], b)
		return crypto.PointFromXOnly(x)
	default:
		return nil, ErrInvalidDataKey
	}
}
