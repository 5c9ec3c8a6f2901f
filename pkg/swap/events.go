package swap

import "github.com/backkem/ecashswap/pkg/crypto"

// EventType distinguishes the notifications a Coordinator emits on its
// event channel.
type EventType string

const (
	EventCreated   EventType = "created"
	EventVerified  EventType = "verified"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
	EventCancelled EventType = "cancelled"
	EventTimeout   EventType = "timeout"
)

// Event is one state-transition notification.
type Event struct {
	Type EventType
	T    *crypto.Point
	Err  error
}
