package broker

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultMaxQuotes is the default maximum number of concurrent quotes
// a single Broker will service.
const DefaultMaxQuotes = 1024

// quoteTable manages private quote state, keyed by quote ID. Grounded
// on the session table's allocate-with-capacity-limit discipline,
// generalized from sequential uint16 session IDs to random uuid.UUID
// quote IDs, since quotes are created independently by concurrent
// callers rather than negotiated in order over a single channel.
type quoteTable struct {
	mu        sync.RWMutex
	quotes    map[uuid.UUID]*privateState
	maxQuotes int
}

func newQuoteTable(maxQuotes int) *quoteTable {
	if maxQuotes <= 0 {
		maxQuotes = DefaultMaxQuotes
	}
	return &quoteTable{
		quotes:    make(map[uuid.UUID]*privateState),
		maxQuotes: maxQuotes,
	}
}

// Add inserts state, failing if the table is at capacity. Uses
// state.quote.ID if already set (the caller generates IDs up front so
// it can derive per-quote key material from the ID before Add is
// called), otherwise generates a fresh one.
func (t *quoteTable) Add(state *privateState) (uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.quotes) >= t.maxQuotes {
		return uuid.Nil, ErrQuoteTableFull
	}

	id := state.quote.ID
	if id == uuid.Nil {
		id = uuid.New()
		state.quote.ID = id
	}
	t.quotes[id] = state
	return id, nil
}

// Get returns the private state for id.
func (t *quoteTable) Get(id uuid.UUID) (*privateState, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.quotes[id]
	if !ok {
		return nil, ErrQuoteNotFound
	}
	return s, nil
}

// Remove drops id from the table. Not an error if absent.
func (t *quoteTable) Remove(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.quotes, id)
}

// Count returns the number of tracked quotes.
func (t *quoteTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.quotes)
}
