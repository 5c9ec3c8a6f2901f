package broker

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/backkem/ecashswap/pkg/crypto"
	"github.com/backkem/ecashswap/pkg/ledger"
	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/mintclient"
	"github.com/backkem/ecashswap/pkg/p2pk"
	"github.com/backkem/ecashswap/pkg/registry"
	"github.com/backkem/ecashswap/pkg/token"
)

// fakeMint is a minimal mint that signs blinded outputs with real BDHKE
// keys and serves /v1/info and /v1/keys for registry discovery,
// mirroring pkg/swap's test mint.
type fakeMint struct {
	mu   sync.Mutex
	keys map[uint64]*crypto.Scalar
}

func newFakeMint(t *testing.T, denominations []uint64) (*fakeMint, *mintapi.Keyset) {
	t.Helper()
	m := &fakeMint{keys: make(map[uint64]*crypto.Scalar)}
	keyset := &mintapi.Keyset{ID: "00broker", Unit: "sat", Active: true, Keys: make(map[string]string)}
	for _, d := range denominations {
		kp, err := crypto.GenerateKeyPair()
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}
		m.keys[d] = kp.Private
		compressed := kp.Public.Compressed()
		keyset.Keys[strconv.FormatUint(d, 10)] = hex.EncodeToString(compressed[:])
	}
	return m, keyset
}

func newFakeMintServer(t *testing.T, mint *fakeMint, keyset *mintapi.Keyset, name string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/info":
			json.NewEncoder(w).Encode(mintapi.InfoResponse{Name: name, Nuts: map[string]interface{}{"11": true}})
		case "/v1/keys":
			json.NewEncoder(w).Encode(mintapi.KeysResponse{Keysets: []mintapi.Keyset{*keyset}})
		case "/v1/swap":
			var req mintapi.SwapRequest
			json.NewDecoder(r.Body).Decode(&req)
			mint.mu.Lock()
			sigs := make([]mintapi.BlindedSignature, len(req.Outputs))
			for i, o := range req.Outputs {
				priv, ok := mint.keys[o.Amount]
				if !ok {
					mint.mu.Unlock()
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				bBytes, _ := hex.DecodeString(o.B_)
				bPoint, err := crypto.PointFromCompressedSlice(bBytes)
				if err != nil {
					mint.mu.Unlock()
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				c := crypto.SignBlindedMessage(bPoint, priv)
				compressed := c.Compressed()
				sigs[i] = mintapi.BlindedSignature{Amount: o.Amount, ID: o.ID, C_: hex.EncodeToString(compressed[:])}
			}
			mint.mu.Unlock()
			json.NewEncoder(w).Encode(mintapi.SwapResponse{Signatures: sigs})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

type brokerHarness struct {
	sourceMint, targetMint     *fakeMint
	sourceKeyset, targetKeyset *mintapi.Keyset
	sourceSrv, targetSrv       *httptest.Server
	reg                        *registry.Registry
	ledger                     *ledger.Table
	broker                     *Broker
}

func newBrokerHarness(t *testing.T, liquidity uint64) *brokerHarness {
	t.Helper()
	h := &brokerHarness{}

	h.sourceMint, h.sourceKeyset = newFakeMint(t, token.SplitAmount(liquidity))
	h.sourceSrv = newFakeMintServer(t, h.sourceMint, h.sourceKeyset, "Source Mint")

	h.targetMint, h.targetKeyset = newFakeMint(t, token.SplitAmount(liquidity))
	h.targetSrv = newFakeMintServer(t, h.targetMint, h.targetKeyset, "Target Mint")

	h.reg = registry.New(nil)
	if _, err := h.reg.Refresh(context.Background(), h.sourceSrv.URL); err != nil {
		t.Fatalf("Refresh source failed: %v", err)
	}
	if _, err := h.reg.Refresh(context.Background(), h.targetSrv.URL); err != nil {
		t.Fatalf("Refresh target failed: %v", err)
	}

	h.ledger = ledger.NewTable(8)

	// Seed the broker's target-mint liquidity with anyone-can-spend
	// proofs it already owns, the way a broker would after its own
	// deposit.
	engine := token.NewEngine(mintclient.New(mintclient.Config{BaseURL: h.targetSrv.URL}))
	seed, err := engine.MintTokens(context.Background(), "q", liquidity, h.targetKeyset, nil, nil)
	if err != nil {
		t.Fatalf("seed mint failed: %v", err)
	}
	if err := h.ledger.Add(h.targetSrv.URL, seed, ""); err != nil {
		t.Fatalf("ledger seed failed: %v", err)
	}

	h.broker = New(Config{
		Registry:  h.reg,
		Ledger:    h.ledger,
		FeeRate:   0.01,
		MinAmount: 1,
		MaxAmount: 1_000_000,
		MaxQuotes: 4,
	})

	return h
}

func (h *brokerHarness) close() {
	h.sourceSrv.Close()
	h.targetSrv.Close()
}

func TestBroker_FullQuoteLifecycle(t *testing.T) {
	const amount = 100
	h := newBrokerHarness(t, amount)
	defer h.close()

	quote, err := h.broker.RequestQuote(context.Background(), h.sourceSrv.URL, h.targetSrv.URL, amount)
	if err != nil {
		t.Fatalf("RequestQuote failed: %v", err)
	}
	if quote.Status != QuoteStatusPending {
		t.Fatalf("status = %s, want Pending", quote.Status)
	}
	wantFee := ComputeFee(amount, 0.01)
	if quote.Fee != wantFee {
		t.Errorf("Fee = %d, want %d", quote.Fee, wantFee)
	}
	if quote.OutputAmount != amount-wantFee {
		t.Errorf("OutputAmount = %d, want %d", quote.OutputAmount, amount-wantFee)
	}

	clientKP, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	_, clientPub := crypto.Canonicalize(clientKP.Private)

	lockedTarget, err := h.broker.AcceptQuote(context.Background(), quote.ID, clientPub)
	if err != nil {
		t.Fatalf("AcceptQuote failed: %v", err)
	}
	var gotAmount uint64
	for _, p := range lockedTarget {
		gotAmount += p.Amount
	}
	if gotAmount != quote.OutputAmount {
		t.Errorf("locked target sum = %d, want %d", gotAmount, quote.OutputAmount)
	}

	accepted, err := h.broker.Quote(quote.ID)
	if err != nil {
		t.Fatalf("Quote lookup failed: %v", err)
	}
	if accepted.Status != QuoteStatusAccepted {
		t.Fatalf("status = %s, want Accepted", accepted.Status)
	}

	// Simulate the client minting its own source-mint deposit locked to
	// brokerPubkey + T, then handing it (unsigned) to the broker. The
	// broker will spend it with brokerSessionPriv + t, and Sign
	// canonicalises that scalar to even-y, so the lock key here must be
	// the canonicalised sum too.
	brokerTweaked := crypto.CanonicalizePoint(quote.BrokerSessionPubkey.Add(quote.AdaptorPoint))
	sourceEngine := token.NewEngine(mintclient.New(mintclient.Config{BaseURL: h.sourceSrv.URL}))
	seedClientSide, err := sourceEngine.MintTokens(context.Background(), "q", amount, h.sourceKeyset, nil, nil)
	if err != nil {
		t.Fatalf("seed client-side mint failed: %v", err)
	}
	clientDeposit, err := sourceEngine.Swap(context.Background(), seedClientSide, p2pk.SigFlagInputs, func([32]byte) (string, error) { return "", nil },
		amount, h.sourceKeyset, brokerTweaked, nil)
	if err != nil {
		t.Fatalf("client deposit swap failed: %v", err)
	}

	if err := h.broker.CompleteSwap(context.Background(), quote.ID, clientDeposit); err != nil {
		t.Fatalf("CompleteSwap failed: %v", err)
	}

	completed, err := h.broker.Quote(quote.ID)
	if err != nil {
		t.Fatalf("Quote lookup failed: %v", err)
	}
	if completed.Status != QuoteStatusCompleted {
		t.Fatalf("status = %s, want Completed", completed.Status)
	}

	if h.ledger.Balance(h.sourceSrv.URL) != quote.OutputAmount {
		t.Errorf("source ledger balance = %d, want %d", h.ledger.Balance(h.sourceSrv.URL), quote.OutputAmount)
	}

	// Idempotent: a second CompleteSwap call is a no-op, not an error.
	if err := h.broker.CompleteSwap(context.Background(), quote.ID, clientDeposit); err != nil {
		t.Fatalf("second CompleteSwap call should be idempotent, got: %v", err)
	}
	if h.ledger.Balance(h.sourceSrv.URL) != quote.OutputAmount {
		t.Errorf("balance changed after idempotent replay: got %d, want %d", h.ledger.Balance(h.sourceSrv.URL), quote.OutputAmount)
	}
}

func TestBroker_RequestQuoteRejectsSameMint(t *testing.T) {
	h := newBrokerHarness(t, 10)
	defer h.close()
	if _, err := h.broker.RequestQuote(context.Background(), h.sourceSrv.URL, h.sourceSrv.URL, 5); err != ErrSameMint {
		t.Errorf("expected ErrSameMint, got %v", err)
	}
}

func TestBroker_RequestQuoteRejectsUnsupportedMint(t *testing.T) {
	h := newBrokerHarness(t, 10)
	defer h.close()
	if _, err := h.broker.RequestQuote(context.Background(), h.sourceSrv.URL, "http://unknown.invalid", 5); err != ErrUnsupportedMint {
		t.Errorf("expected ErrUnsupportedMint, got %v", err)
	}
}

func TestBroker_RequestQuoteRejectsInsufficientLiquidity(t *testing.T) {
	h := newBrokerHarness(t, 10)
	defer h.close()
	if _, err := h.broker.RequestQuote(context.Background(), h.sourceSrv.URL, h.targetSrv.URL, 1000); err != ErrInsufficientLiquidity {
		t.Errorf("expected ErrInsufficientLiquidity, got %v", err)
	}
}

func TestBroker_AcceptQuoteRejectsExpired(t *testing.T) {
	h := newBrokerHarness(t, 10)
	defer h.close()

	h.broker.cfg.QuoteTTL = -1 // already expired at creation
	quote, err := h.broker.RequestQuote(context.Background(), h.sourceSrv.URL, h.targetSrv.URL, 4)
	if err != nil {
		t.Fatalf("RequestQuote failed: %v", err)
	}

	clientKP, _ := crypto.GenerateKeyPair()
	_, clientPub := crypto.Canonicalize(clientKP.Private)
	if _, err := h.broker.AcceptQuote(context.Background(), quote.ID, clientPub); err != ErrQuoteExpired {
		t.Errorf("expected ErrQuoteExpired, got %v", err)
	}
}

func TestBroker_CancelQuoteBeforeAccept(t *testing.T) {
	h := newBrokerHarness(t, 10)
	defer h.close()

	quote, err := h.broker.RequestQuote(context.Background(), h.sourceSrv.URL, h.targetSrv.URL, 4)
	if err != nil {
		t.Fatalf("RequestQuote failed: %v", err)
	}
	if err := h.broker.CancelQuote(quote.ID); err != nil {
		t.Fatalf("CancelQuote failed: %v", err)
	}
	got, err := h.broker.Quote(quote.ID)
	if err != nil {
		t.Fatalf("Quote lookup failed: %v", err)
	}
	if got.Status != QuoteStatusFailed {
		t.Errorf("status = %s, want Failed", got.Status)
	}
}

func TestBroker_DeterministicSeedModeReproducesKeys(t *testing.T) {
	seed := []byte("test master seed, not for production use")
	priv, pub, t1, T1, err := sessionAndSecretForSeed(seed)
	if err != nil {
		t.Fatalf("first derivation failed: %v", err)
	}
	priv2, pub2, t2, T2, err := sessionAndSecretForSeed(seed)
	if err != nil {
		t.Fatalf("second derivation failed: %v", err)
	}

	if !priv.Equal(priv2) {
		t.Error("session privkey not reproducible from the same seed and quote ID")
	}
	if !pub.Equal(pub2) {
		t.Error("session pubkey not reproducible from the same seed and quote ID")
	}
	if !t1.Equal(t2) {
		t.Error("adaptor secret not reproducible from the same seed and quote ID")
	}
	if !T1.Equal(T2) {
		t.Error("adaptor point not reproducible from the same seed and quote ID")
	}

	otherPriv, _, _, _, err := sessionAndSecretForSeedAndID(seed, uuid.New())
	if err != nil {
		t.Fatalf("third derivation failed: %v", err)
	}
	if otherPriv.Equal(priv) {
		t.Error("different quote IDs derived the same session privkey")
	}
}

// sessionAndSecretForSeed derives against a fixed quote ID so repeated
// calls with the same seed are directly comparable.
func sessionAndSecretForSeed(seed []byte) (*crypto.Scalar, *crypto.Point, *crypto.Scalar, *crypto.Point, error) {
	fixedID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	return sessionAndSecretForSeedAndID(seed, fixedID)
}

func sessionAndSecretForSeedAndID(seed []byte, id uuid.UUID) (*crypto.Scalar, *crypto.Point, *crypto.Scalar, *crypto.Point, error) {
	b := New(Config{MasterSeed: seed})
	return b.sessionAndSecret(id)
}

func TestBroker_QuoteTableFull(t *testing.T) {
	h := newBrokerHarness(t, 1000)
	defer h.close()
	h.broker.quotes = newQuoteTable(1)

	if _, err := h.broker.RequestQuote(context.Background(), h.sourceSrv.URL, h.targetSrv.URL, 4); err != nil {
		t.Fatalf("first RequestQuote failed: %v", err)
	}
	if _, err := h.broker.RequestQuote(context.Background(), h.sourceSrv.URL, h.targetSrv.URL, 4); err != ErrQuoteTableFull {
		t.Errorf("expected ErrQuoteTableFull, got %v", err)
	}
}
