// Package mintapi defines the wire types exchanged with an external
// Cashu-style mint: keysets, blinded messages and signatures, proofs,
// and the request/response bodies of the mint's quote/mint/swap/state
// endpoints. These are plain JSON-tagged structs that tolerate unknown
// fields, since the core never defines the mint protocol, only
// consumes it.
package mintapi

// Proof is a spendable bearer token: a secret the mint has signed,
// plus (for locked secrets) a witness authorising the spend.
type Proof struct {
	Amount  uint64 `json:"amount"`
	ID      string `json:"id"`
	Secret  string `json:"secret"`
	C       string `json:"C"`
	Witness string `json:"witness,omitempty"`
}

// BlindedMessage is a client-supplied output awaiting a blind
// signature from the mint.
type BlindedMessage struct {
	Amount uint64 `json:"amount"`
	ID     string `json:"id"`
	B_     string `json:"B_"`
}

// BlindedSignature is the mint's response to a BlindedMessage.
type BlindedSignature struct {
	Amount uint64 `json:"amount"`
	ID     string `json:"id"`
	C_     string `json:"C_"`
}

// Keyset describes one mint keyset: a denomination-to-pubkey mapping
// for a given unit.
type Keyset struct {
	ID     string            `json:"id"`
	Unit   string            `json:"unit"`
	Active bool              `json:"active"`
	Keys   map[string]string `json:"keys"`
}

// KeysResponse is the body of GET /v1/keys.
type KeysResponse struct {
	Keysets []Keyset `json:"keysets"`
}

// KeysetEntry is one element of GET /v1/keysets, omitting the full key
// material.
type KeysetEntry struct {
	ID       string `json:"id"`
	Unit     string `json:"unit"`
	Active   bool   `json:"active"`
	InputFee uint64 `json:"input_fee_ppk,omitempty"`
}

// KeysetsResponse is the body of GET /v1/keysets.
type KeysetsResponse struct {
	Keysets []KeysetEntry `json:"keysets"`
}

// InfoResponse is the body of GET /v1/info, including the mint's NUT
// capability table. Nuts is intentionally untyped: capability queries
// only ever look up specific numeric keys.
type InfoResponse struct {
	Name        string                 `json:"name"`
	Version     string                 `json:"version"`
	Description string                 `json:"description,omitempty"`
	Pubkey      string                 `json:"pubkey,omitempty"`
	Nuts        map[string]interface{} `json:"nuts"`
}

// MintQuoteRequest is the body of POST /v1/mint/quote/bolt11.
type MintQuoteRequest struct {
	Amount uint64 `json:"amount"`
	Unit   string `json:"unit"`
}

// MintQuoteResponse is the shared response shape of both
// POST /v1/mint/quote/bolt11 and GET /v1/mint/quote/bolt11/{id}.
type MintQuoteResponse struct {
	Quote   string `json:"quote"`
	Request string `json:"request"`
	Paid    bool   `json:"paid"`
	Expiry  int64  `json:"expiry"`
}

// MintRequest is the body of POST /v1/mint/bolt11.
type MintRequest struct {
	Quote   string           `json:"quote"`
	Outputs []BlindedMessage `json:"outputs"`
}

// MintResponse is the body returned by POST /v1/mint/bolt11.
type MintResponse struct {
	Signatures []BlindedSignature `json:"signatures"`
}

// SwapRequest is the body of POST /v1/swap.
type SwapRequest struct {
	Inputs  []Proof          `json:"inputs"`
	Outputs []BlindedMessage `json:"outputs"`
}

// SwapResponse is the body returned by POST /v1/swap.
type SwapResponse struct {
	Signatures []BlindedSignature `json:"signatures"`
}

// ProofState is one entry of a POST /v1/checkstate response.
type ProofState struct {
	Y       string `json:"Y"`
	State   string `json:"state"`
	Witness string `json:"witness,omitempty"`
}

// CheckStateRequest is the body of POST /v1/checkstate.
type CheckStateRequest struct {
	Ys []string `json:"Ys"`
}

// CheckStateResponse is the body returned by POST /v1/checkstate.
type CheckStateResponse struct {
	States []ProofState `json:"states"`
}

// Proof state values returned by the checkstate endpoint.
const (
	ProofStateUnspent = "UNSPENT"
	ProofStateSpent   = "SPENT"
	ProofStatePending = "PENDING"
)

// MeltQuoteRequest is the body of POST /v1/melt/quote/bolt11.
type MeltQuoteRequest struct {
	Request string `json:"request"`
	Unit    string `json:"unit"`
}

// MeltQuoteResponse is the response body for a melt quote.
type MeltQuoteResponse struct {
	Quote      string `json:"quote"`
	Amount     uint64 `json:"amount"`
	FeeReserve uint64 `json:"fee_reserve"`
	Paid       bool   `json:"paid"`
	Expiry     int64  `json:"expiry"`
}
