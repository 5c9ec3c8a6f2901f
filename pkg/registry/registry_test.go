package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/mintclient"
)

func newFakeMintServer(t *testing.T, name string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/info":
			json.NewEncoder(w).Encode(mintapi.InfoResponse{
				Name:    name,
				Version: "test/0.0.1",
				Nuts:    map[string]interface{}{"10": true, "11": true},
			})
		case "/v1/keys":
			json.NewEncoder(w).Encode(mintapi.KeysResponse{
				Keysets: []mintapi.Keyset{{ID: "00test", Unit: "sat", Active: true, Keys: map[string]string{"1": "abc"}}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRegistry_RefreshAndLookup(t *testing.T) {
	srv := newFakeMintServer(t, "Test Mint")
	defer srv.Close()

	reg := New(nil)
	info, err := reg.Refresh(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if info.Info.Name != "Test Mint" {
		t.Errorf("Name = %q, want Test Mint", info.Info.Name)
	}
	if info.Keyset.ID != "00test" {
		t.Errorf("Keyset.ID = %q, want 00test", info.Keyset.ID)
	}

	got, err := reg.Lookup(srv.URL)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.URL != srv.URL {
		t.Errorf("URL = %q, want %q", got.URL, srv.URL)
	}

	if !reg.SupportsNut(srv.URL, "11") {
		t.Error("SupportsNut(11) = false, want true")
	}
	if reg.SupportsNut(srv.URL, "99") {
		t.Error("SupportsNut(99) = true, want false")
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	reg := New(nil)
	if _, err := reg.Lookup("http://nowhere.invalid"); err != ErrUnknownMint {
		t.Errorf("expected ErrUnknownMint, got %v", err)
	}
}

func TestRegistry_RegisterAndRemove(t *testing.T) {
	reg := New(nil)
	reg.Register(MintInfo{URL: "http://a.example"})
	reg.Register(MintInfo{URL: "http://b.example"})

	if len(reg.List()) != 2 {
		t.Fatalf("List() len = %d, want 2", len(reg.List()))
	}

	reg.Remove("http://a.example")
	if len(reg.List()) != 1 {
		t.Fatalf("List() len after remove = %d, want 1", len(reg.List()))
	}

	// Removing an unknown URL is a no-op, not an error.
	reg.Remove("http://never-existed.example")
}

func TestRegistry_RefreshPropagatesClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := New(func(url string) *mintclient.Client {
		return mintclient.New(mintclient.Config{BaseURL: url})
	})
	if _, err := reg.Refresh(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error from a mint returning 500")
	}
}
