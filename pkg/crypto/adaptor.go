package crypto

// AdaptorSignature is a triple (s', R, T). It verifies against a public
// key P and message m as s'*G == R + T + e*P, and only becomes a valid
// Signature once completed with the scalar t underlying T.
type AdaptorSignature struct {
	SPrime *Scalar
	R      *Point
	T      *Point
}

// AdaptorSign produces an adaptor signature over msg under private key
// x, encrypted under adaptor point T = t*G. The caller retains t; only
// T travels with the adaptor signature.
func AdaptorSign(x *Scalar, msg [32]byte, t *Scalar) (*AdaptorSignature, error) {
	xCanon, p := Canonicalize(x)
	tCanon, tPoint := Canonicalize(t)

	r, err := GenerateScalar()
	if err != nil {
		return nil, err
	}
	rCanon, rPoint := canonicalize(r, BasePointMul(r))

	e := challenge(p, rPoint, msg)
	sPrime := rCanon.Add(tCanon).Add(e.Mul(xCanon))

	return &AdaptorSignature{SPrime: sPrime, R: rPoint, T: tPoint}, nil
}

// AdaptorVerify checks that s'*G == R + T + e*P.
func AdaptorVerify(p *Point, msg [32]byte, sig *AdaptorSignature) bool {
	if sig.SPrime.IsZero() {
		return false
	}
	e := challenge(p, sig.R, msg)
	lhs := BasePointMul(sig.SPrime)
	rhs := sig.R.Add(sig.T).Add(p.ScalarMul(e))
	return lhs.Equal(rhs)
}

// Complete turns an adaptor signature into an ordinary Signature given
// the scalar t underlying T, after checking t*G == T.
func Complete(sig *AdaptorSignature, t *Scalar) (*Signature, error) {
	tCanon, tPoint := Canonicalize(t)
	if !tPoint.Equal(sig.T) {
		return nil, ErrAdaptorSecretMismatch
	}
	s := sig.SPrime.Sub(tCanon)
	return &Signature{R: sig.R, S: s}, nil
}

// Extract recovers the adaptor secret t from an adaptor signature and
// its corresponding completed signature sharing the same R, verifying
// t*G == T before returning it.
func Extract(sig *AdaptorSignature, completed *Signature) (*Scalar, error) {
	if !sig.R.Equal(completed.R) {
		return nil, ErrMismatchedR
	}
	t := sig.SPrime.Sub(completed.S)
	if !BasePointMul(t).Equal(sig.T) {
		return nil, ErrExtractionMismatch
	}
	return t, nil
}
