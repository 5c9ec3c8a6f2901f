package crypto

// KeyPair is a private scalar and its corresponding public point,
// derived deterministically as PublicKey = PrivateKey*G.
type KeyPair struct {
	Private *Scalar
	Public  *Point
}

// GenerateKeyPair draws a fresh key pair from crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := GenerateScalar()
	if err != nil {
		return nil, err
	}
	return &KeyPair{Private: priv, Public: BasePointMul(priv)}, nil
}

// KeyPairFromPrivate derives the key pair for a given private scalar.
func KeyPairFromPrivate(priv *Scalar) *KeyPair {
	return &KeyPair{Private: priv, Public: BasePointMul(priv)}
}

// canonicalize negates priv (and its derived point) if the point has an
// odd y, returning the canonical even-y pair. Every signer and
// adaptor-generator routes x, r, and t through this single choke point so
// that challenge hashes are computed over consistent even-y encodings
// across parties.
func canonicalize(priv *Scalar, pub *Point) (*Scalar, *Point) {
	if pub.HasEvenY() {
		return priv, pub
	}
	return priv.Negate(), pub.Negate()
}

// Canonicalize exposes the even-y canonicalisation rule for callers that
// need to pre-canonicalise a private scalar before using it in contexts
// outside this package (e.g. a coordinator tweaking a session key by an
// adaptor secret before signing with it).
func Canonicalize(priv *Scalar) (*Scalar, *Point) {
	return canonicalize(priv, BasePointMul(priv))
}

// CanonicalizePoint negates p if it has an odd y, returning the unique
// even-y point congruent to it. Sign always canonicalises the private
// scalar it is given before computing its challenge, which implicitly
// canonicalises the public point too; a caller that combines points by
// addition without holding the combined private scalar (e.g. a P2PK
// lock key built as clientPubkey + T) must apply this function to the
// result before using it as a verification key, or Sign's canonical
// key and the lock's stored key will disagree whenever the raw sum has
// odd y.
func CanonicalizePoint(p *Point) *Point {
	if p.HasEvenY() {
		return p
	}
	return p.Negate()
}
