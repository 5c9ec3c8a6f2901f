package crypto


// SignatureSize is the wire length of a serialised Signature: x-only R
// followed by the 32-byte scalar s.
const SignatureSize = XOnlyPointSize + ScalarSize

// Signature is a Schnorr signature (s, R) over secp256k1. Its challenge
// hash is e = SHA256(P_x || R_x || m), deliberately not BIP-340-tagged.
type Signature struct {
	R *Point
	S *Scalar
}

// challenge computes e = SHA256(P_x || R_x || m) and reduces it mod the
// group order. It is not a BIP-340 tagged hash: this scheme's verifier
// convention fixes the untagged form.
func challenge(p, r *Point, msg [32]byte) *Scalar {
	px := p.XOnly()
	rx := r.XOnly()
	buf := make([]byte, 0, len(px)+len(rx)+len(msg))
	buf = append(buf, px[:]...)
	buf = append(buf, rx[:]...)
	buf = append(buf, msg[:]...)
	h := SHA256Slice(buf)
	var hArr [32]byte
	copy(hArr[:], h)
	return scalarFromHash(hArr)
}

// Sign computes a Schnorr signature over a 32-byte message digest using
// private key x. Both x and the fresh nonce r are canonicalised to
// even-y before use, per the scheme's even-y-everywhere invariant.
func Sign(x *Scalar, msg [32]byte) (*Signature, error) {
	xCanon, p := Canonicalize(x)

	r, err := GenerateScalar()
	if err != nil {
		return nil, err
	}
	rCanon, rPoint := canonicalize(r, BasePointMul(r))

	e := challenge(p, rPoint, msg)
	s := rCanon.Add(e.Mul(xCanon))

	return &Signature{R: rPoint, S: s}, nil
}

// Verify checks that s*G == R + e*P for the given public key, message,
// and signature.
func Verify(p *Point, msg [32]byte, sig *Signature) bool {
	if sig.S.IsZero() {
		return false
	}
	e := challenge(p, sig.R, msg)
	lhs := BasePointMul(sig.S)
	rhs := sig.R.Add(p.ScalarMul(e))
	return lhs.Equal(rhs)
}

// Bytes serialises a signature as R_x || s, 64 bytes total.
func (sig *Signature) Bytes() [SignatureSize]byte {
	var out [SignatureSize]byte
	rx := sig.R.XOnly()
	sb := sig.S.Bytes()
	copy(out[:XOnlyPointSize], rx[:])
	copy(out[XOnlyPointSize:], sb[:])
	return out
}

// SignatureFromBytes decodes a 64-byte R_x || s signature, lifting R to
// its even-y point.
func SignatureFromBytes(b [SignatureSize]byte) (*Signature, error) {
	var rx [XOnlyPointSize]byte
	copy(rx[:], b[:XOnlyPointSize])
	r, err := PointFromXOnly(rx)
	if err != nil {
		return nil, err
	}
	var sb [ScalarSize]byte
	copy(sb[:], b[XOnlyPointSize:])
	s, err := ScalarFromBytes(sb)
	if err != nil {
		return nil, err
	}
	return &Signature{R: r, S: s}, nil
}
