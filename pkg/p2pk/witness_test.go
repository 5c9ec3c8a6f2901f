package p2pk

import (
	"testing"

	"github.com/backkem/ecashswap/pkg/crypto"
)

func TestWitness_SignAndVerify(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	priv, pub := crypto.Canonicalize(kp.Private)

	secret := NewSecret(pub, [32]byte{5}, []Tag{SigFlagTag(SigFlagInputs)})
	sigHex, err := SignSecret(secret, priv)
	if err != nil {
		t.Fatalf("SignSecret failed: %v", err)
	}

	ok, err := VerifyWitnessSignature(secret, pub, sigHex)
	if err != nil {
		t.Fatalf("VerifyWitnessSignature failed: %v", err)
	}
	if !ok {
		t.Error("VerifyWitnessSignature rejected a valid witness signature")
	}
}

func TestWitness_WrongKeyFails(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	priv, pub := crypto.Canonicalize(kp.Private)
	other, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	_, otherPub := crypto.Canonicalize(other.Private)

	secret := NewSecret(pub, [32]byte{6}, nil)
	sigHex, err := SignSecret(secret, priv)
	if err != nil {
		t.Fatalf("SignSecret failed: %v", err)
	}

	ok, err := VerifyWitnessSignature(secret, otherPub, sigHex)
	if err != nil {
		t.Fatalf("VerifyWitnessSignature failed: %v", err)
	}
	if ok {
		t.Error("VerifyWitnessSignature accepted a signature under the wrong key")
	}
}

func TestWitness_SerializeRoundTrip(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	priv, pub := crypto.Canonicalize(kp.Private)
	secret := NewSecret(pub, [32]byte{8}, nil)

	sigHex, err := SignSecret(secret, priv)
	if err != nil {
		t.Fatalf("SignSecret failed: %v", err)
	}

	w := NewWitness([]string{sigHex})
	raw, err := w.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	decoded, err := DeserializeWitness(raw)
	if err != nil {
		t.Fatalf("DeserializeWitness failed: %v", err)
	}
	if len(decoded.Signatures) != 1 || decoded.Signatures[0] != sigHex {
		t.Errorf("round-tripped witness signatures = %v", decoded.Signatures)
	}
}

func TestWitness_EmptyRejected(t *testing.T) {
	w := NewWitness(nil)
	if _, err := w.Serialize(); err == nil {
		t.Error("Serialize succeeded with zero signatures")
	}
}

func TestWitness_MalformedSignatureRejected(t *testing.T) {
	w := NewWitness([]string{"not-hex-and-wrong-length"})
	if _, err := w.Serialize(); err == nil {
		t.Error("Serialize succeeded with a malformed signature")
	}
}
