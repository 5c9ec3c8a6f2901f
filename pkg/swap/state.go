// Package swap implements the two-mint atomic swap state machine: two
// parties, each holding locked ecash on a different mint, exchange
// Schnorr adaptor signatures so that either both claim or neither does.
package swap

// State represents the swap coordinator's state machine.
type State int

const (
	// StateIdle is the state before Initialise is called.
	StateIdle State = iota
	// StateNegotiating means the adaptor point has been generated and
	// the parties are exchanging P2PK secrets.
	StateNegotiating
	// StateSecretsCreated means both sides' locked secrets are recorded.
	StateSecretsCreated
	// StateAdaptorSigsExchanged means both adaptor signatures have been
	// recorded, pending verification.
	StateAdaptorSigsExchanged
	// StateVerified means both adaptor signatures check out against a
	// shared T.
	StateVerified
	// StateClaiming means the responder's claim is in flight or done.
	StateClaiming
	// StateExtracting means the initiator has the responder's completed
	// signature and is extracting t.
	StateExtracting
	// StateCompleted is the terminal success state.
	StateCompleted
	// StateFailed is a terminal failure state.
	StateFailed
	// StateCancelled is a terminal state reached via Cancel.
	StateCancelled
	// StateTimeout is a terminal state reached via CheckExpiry.
	StateTimeout
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateNegotiating:
		return "Negotiating"
	case StateSecretsCreated:
		return "SecretsCreated"
	case StateAdaptorSigsExchanged:
		return "AdaptorSigsExchanged"
	case StateVerified:
		return "Verified"
	case StateClaiming:
		return "Claiming"
	case StateExtracting:
		return "Extracting"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	case StateCancelled:
		return "Cancelled"
	case StateTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// terminal reports whether s has no further transitions.
func (s State) terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled, StateTimeout:
		return true
	default:
		return false
	}
}

// RevealMode labels who learns the adaptor secret t and how. The
// Coordinator stores it but does not branch on it: what each step does
// follows from the instance's role and whether it holds t.
type RevealMode int

const (
	// BrokerKnowsT means a single party (the broker) generates t and
	// holds it throughout; cmd/swapdemo runs this variant. pkg/broker
	// tweaks keys directly and constructs no Coordinator.
	BrokerKnowsT RevealMode = iota
	// PeerExtraction means neither side knows the other's t at quote
	// time; the party that claims second extracts it from the first
	// party's published signature. Required for peer-to-peer swaps.
	PeerExtraction
)
