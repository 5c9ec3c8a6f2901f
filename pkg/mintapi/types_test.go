package mintapi

import (
	"encoding/json"
	"testing"
)

func TestInfoResponse_Capabilities(t *testing.T) {
	info := &InfoResponse{Nuts: map[string]interface{}{
		"4":  map[string]interface{}{"methods": []interface{}{}},
		"11": map[string]interface{}{},
	}}
	if !info.SupportsP2PK() {
		t.Error("SupportsP2PK() = false, want true")
	}
	if info.SupportsHTLC() {
		t.Error("SupportsHTLC() = true, want false")
	}
}

func TestInfoResponse_NilNuts(t *testing.T) {
	var info InfoResponse
	if info.SupportsP2PK() || info.SupportsHTLC() {
		t.Error("capability query on empty InfoResponse returned true")
	}
}

func TestProof_JSONRoundTrip(t *testing.T) {
	p := Proof{Amount: 8, ID: "00ffd48b8f5ecf80", Secret: "abc", C: "02" + "aa", Witness: "{}"}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded Proof
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != p {
		t.Errorf("round trip mismatch: got %+v want %+v", decoded, p)
	}
}

func TestProof_ToleratesUnknownFields(t *testing.T) {
	raw := `{"amount":4,"id":"x","secret":"y","C":"z","dleq":{"e":"1","s":"2"}}`
	var p Proof
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal with unknown field failed: %v", err)
	}
	if p.Amount != 4 {
		t.Errorf("Amount = %d, want 4", p.Amount)
	}
}
