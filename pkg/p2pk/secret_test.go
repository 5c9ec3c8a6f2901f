package p2pk

import (
	"encoding/hex"
	"testing"

	"github.com/backkem/ecashswap/pkg/crypto"
)

func testRecipient(t *testing.T) *crypto.Point {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	_, p := crypto.Canonicalize(kp.Private)
	return p
}

func TestSecret_SerializeDeterministic(t *testing.T) {
	recipient := testRecipient(t)
	nonce := [32]byte{1, 2, 3}
	tags := []Tag{SigFlagTag(SigFlagInputs)}

	s := NewSecret(recipient, nonce, tags)
	a := s.Serialize()
	b := s.Serialize()
	if a != b {
		t.Fatal("Serialize is not deterministic")
	}

	if a[0] != '[' || a[len(a)-1] != ']' {
		t.Fatalf("serialised secret is not a JSON array: %s", a)
	}
	for _, r := range a {
		if r == ' ' || r == '\n' || r == '\t' {
			t.Fatalf("serialised secret contains whitespace: %s", a)
		}
	}
}

func TestSecret_SerializeFieldOrder(t *testing.T) {
	recipient := testRecipient(t)
	nonce := [32]byte{9}
	s := NewSecret(recipient, nonce, nil)
	out := s.Serialize()

	nonceIdx := indexOf(out, `"nonce"`)
	dataIdx := indexOf(out, `"data"`)
	tagsIdx := indexOf(out, `"tags"`)
	if nonceIdx < 0 || dataIdx < 0 || tagsIdx < 0 {
		t.Fatalf("missing expected field in %s", out)
	}
	if !(nonceIdx < dataIdx && dataIdx < tagsIdx) {
		t.Errorf("field order is not nonce, data, tags: %s", out)
	}
	if out[:8] != `["P2PK"` {
		t.Errorf("secret does not start with [\"P2PK\": %s", out)
	}
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestSecret_RoundTrip(t *testing.T) {
	recipient := testRecipient(t)
	nonce := [32]byte{7, 7, 7}
	tags := []Tag{SigFlagTag(SigFlagAll), LocktimeTag(1700000000)}
	s := NewSecret(recipient, nonce, tags)

	raw := s.Serialize()
	decoded, err := DeserializeSecret(raw)
	if err != nil {
		t.Fatalf("DeserializeSecret failed: %v", err)
	}

	if decoded.Serialize() != raw {
		t.Error("round-tripped secret re-serialises to a different string")
	}
	if !decoded.Data.Equal(recipient) {
		t.Error("round-tripped secret lost its recipient key")
	}
	flag, err := SigFlagOf(decoded.Tags)
	if err != nil {
		t.Fatalf("SigFlagOf failed: %v", err)
	}
	if flag != SigFlagAll {
		t.Errorf("SigFlagOf = %s, want SIG_ALL", flag)
	}
}

func TestSecret_XOnlyDataLiftsToEvenY(t *testing.T) {
	recipient := testRecipient(t)
	nonce := [32]byte{3}
	x := recipient.XOnly()
	raw := `["P2PK",{"nonce":"` + hex.EncodeToString(nonce[:]) + `","data":"` + hex.EncodeToString(x[:]) + `","tags":[]}]`

	decoded, err := DeserializeSecret(raw)
	if err != nil {
		t.Fatalf("DeserializeSecret failed: %v", err)
	}
	if !decoded.Data.HasEvenY() || !decoded.Data.Equal(recipient) {
		t.Error("decoded data key is not canonical even-y")
	}
}

func TestSecret_DefaultSigFlagIsInputs(t *testing.T) {
	flag, err := SigFlagOf(nil)
	if err != nil {
		t.Fatalf("SigFlagOf failed: %v", err)
	}
	if flag != SigFlagInputs {
		t.Errorf("default SigFlagOf = %s, want SIG_INPUTS", flag)
	}
}

func TestSecret_MalformedRejected(t *testing.T) {
	cases := []string{
		``,
		`["NOT_P2PK",{}]`,
		`["P2PK"]`,
		`{"nonce":"aa"}`,
		`["P2PK",{"nonce":"zz","data":"aa","tags":[]}]`,
	}
	for _, c := range cases {
		if _, err := DeserializeSecret(c); err == nil {
			t.Errorf("DeserializeSecret(%q) did not fail", c)
		}
	}
}
