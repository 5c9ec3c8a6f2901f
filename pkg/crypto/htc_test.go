package crypto

import (
	"encoding/hex"
	"testing"
)

func TestHashToCurve_FixedVector(t *testing.T) {
	// Fixed cross-implementation vector: hashToCurve("test_secret_123")
	// must be byte-identical across runs and across language ports.
	want, err := hex.DecodeString("02e6f7409d194f0d4505d80e043d540346abe37cae36e39bf36817323faf9b942b")
	if err != nil {
		t.Fatalf("failed to decode expected: %v", err)
	}

	point, err := HashToCurve([]byte("test_secret_123"))
	if err != nil {
		t.Fatalf("HashToCurve failed: %v", err)
	}
	got := point.Compressed()

	if hex.EncodeToString(got[:]) != hex.EncodeToString(want) {
		t.Errorf("hashToCurve mismatch\ngot:  %x\nwant: %x", got, want)
	}
}

func TestHashToCurve_Deterministic(t *testing.T) {
	msg := []byte("some arbitrary secret value")
	a, err := HashToCurve(msg)
	if err != nil {
		t.Fatalf("HashToCurve failed: %v", err)
	}
	b, err := HashToCurve(msg)
	if err != nil {
		t.Fatalf("HashToCurve failed: %v", err)
	}
	if !a.Equal(b) {
		t.Error("HashToCurve is not deterministic for identical input")
	}
}

func TestHashToCurve_DistinctMessages(t *testing.T) {
	a, err := HashToCurve([]byte("secret-one"))
	if err != nil {
		t.Fatalf("HashToCurve failed: %v", err)
	}
	b, err := HashToCurve([]byte("secret-two"))
	if err != nil {
		t.Fatalf("HashToCurve failed: %v", err)
	}
	if a.Equal(b) {
		t.Error("distinct messages hashed to the same point")
	}
}

func TestHashToCurve_EmptyMessage(t *testing.T) {
	_, err := HashToCurve(nil)
	if err != nil {
		t.Fatalf("HashToCurve failed on empty message: %v", err)
	}
}

func BenchmarkHashToCurve(b *testing.B) {
	msg := []byte("benchmark secret")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = HashToCurve(msg)
	}
}
