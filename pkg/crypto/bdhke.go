package crypto

// BlindedMessage is the result of blinding a secret for a mint to sign:
// B_ = Y + r*G, where Y = HashToCurve(secret).
type BlindedMessage struct {
	Point          *Point
	BlindingFactor *Scalar
}

// BlindMessage computes Y = HashToCurve(secret) and B_ = Y + r*G for a
// freshly drawn blinding factor r, returning both the blinded message
// and the unblinded Y so the caller can verify the eventual signature.
func BlindMessage(secret []byte) (*BlindedMessage, *Point, error) {
	y, err := HashToCurve(secret)
	if err != nil {
		return nil, nil, err
	}
	r, err := GenerateScalar()
	if err != nil {
		return nil, nil, err
	}
	blinded := y.Add(BasePointMul(r))
	return &BlindedMessage{Point: blinded, BlindingFactor: r}, y, nil
}

// BlindMessageWithFactor is BlindMessage for a caller-supplied blinding
// factor, used in tests and in deterministic-derivation paths.
func BlindMessageWithFactor(secret []byte, r *Scalar) (*BlindedMessage, *Point, error) {
	y, err := HashToCurve(secret)
	if err != nil {
		return nil, nil, err
	}
	blinded := y.Add(BasePointMul(r))
	return &BlindedMessage{Point: blinded, BlindingFactor: r}, y, nil
}

// SignBlindedMessage computes the mint-side blind signature C_ = k*B_
// for the mint's per-denomination private key k.
func SignBlindedMessage(blindedPoint *Point, mintPrivate *Scalar) *Point {
	return blindedPoint.ScalarMul(mintPrivate)
}

// UnblindSignature computes C = C_ - r*K, removing the blinding factor
// from the mint's signature using the mint's public key K for the
// relevant denomination.
func UnblindSignature(blindSig *Point, blindingFactor *Scalar, mintPublic *Point) *Point {
	return blindSig.Add(mintPublic.ScalarMul(blindingFactor).Negate())
}

// VerifyUnblindedSignature checks that C == k*HashToCurve(secret) for
// the mint's private key k, i.e. that C is a genuine signature over
// secret under k.
func VerifyUnblindedSignature(secret []byte, mintPrivate *Scalar, unblindedSig *Point) (bool, error) {
	y, err := HashToCurve(secret)
	if err != nil {
		return false, err
	}
	return y.ScalarMul(mintPrivate).Equal(unblindedSig), nil
}
