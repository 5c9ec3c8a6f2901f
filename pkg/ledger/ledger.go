package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/backkem/ecashswap/pkg/mintapi"
)

// EventType identifies the kind of inventory mutation an Event records.
type EventType string

const (
	EventAdd    EventType = "add"
	EventRemove EventType = "remove"
)

// Event is a record of one inventory mutation, suitable for persistence
// by a caller-supplied durable store.
type Event struct {
	MintURL      string
	Type         EventType
	Amount       uint64
	BalanceAfter uint64
	QuoteID      string
	Timestamp    time.Time
}

// mintEntry holds the balance and proof inventory for one mint. Its own
// mutex serialises writers against that single mint without blocking
// operations on other mints.
type mintEntry struct {
	mu      sync.RWMutex
	balance uint64
	proofs  map[string]mintapi.Proof
}

// Table is the concurrent per-mint liquidity ledger.
type Table struct {
	mu     sync.RWMutex
	mints  map[string]*mintEntry
	events chan Event
}

// NewTable creates an empty ledger. eventBuffer sizes the internal
// event channel; mutations never block on a full buffer, they drop the
// event instead, so a slow or absent consumer cannot stall a swap.
func NewTable(eventBuffer int) *Table {
	return &Table{
		mints:  make(map[string]*mintEntry),
		events: make(chan Event, eventBuffer),
	}
}

// Events returns the channel inventory-change events are published on.
func (t *Table) Events() <-chan Event {
	return t.events
}

func (t *Table) emit(ev Event) {
	select {
	case t.events <- ev:
	default:
	}
}

func (t *Table) entry(mintURL string) *mintEntry {
	t.mu.RLock()
	e, ok := t.mints[mintURL]
	t.mu.RUnlock()
	if ok {
		return e
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.mints[mintURL]; ok {
		return e
	}
	e = &mintEntry{proofs: make(map[string]mintapi.Proof)}
	t.mints[mintURL] = e
	return e
}

func (t *Table) lookup(mintURL string) (*mintEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.mints[mintURL]
	return e, ok
}

// Add appends proofs to mintURL's inventory, incrementing its balance
// by their summed amount. quoteID correlates the resulting event to the
// swap that produced it, and may be empty for out-of-band deposits.
func (t *Table) Add(mintURL string, proofs []mintapi.Proof, quoteID string) error {
	e := t.entry(mintURL)
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range proofs {
		if _, exists := e.proofs[p.Secret]; exists {
			return ErrDuplicateSecret
		}
	}

	var sum uint64
	for _, p := range proofs {
		e.proofs[p.Secret] = p
		sum += p.Amount
	}
	e.balance += sum

	t.emit(Event{MintURL: mintURL, Type: EventAdd, Amount: sum, BalanceAfter: e.balance, QuoteID: quoteID, Timestamp: time.Now()})
	return nil
}

// Remove deletes proofs from mintURL's inventory by unique secret,
// decrementing the balance by their summed amount.
func (t *Table) Remove(mintURL string, proofs []mintapi.Proof, quoteID string) error {
	e, ok := t.lookup(mintURL)
	if !ok {
		return ErrMintNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range proofs {
		if _, exists := e.proofs[p.Secret]; !exists {
			return ErrProofNotFound
		}
	}

	var sum uint64
	for _, p := range proofs {
		delete(e.proofs, p.Secret)
		sum += p.Amount
	}
	e.balance -= sum

	t.emit(Event{MintURL: mintURL, Type: EventRemove, Amount: sum, BalanceAfter: e.balance, QuoteID: quoteID, Timestamp: time.Now()})
	return nil
}

// Balance returns mintURL's current balance, or zero for an unknown
// mint.
func (t *Table) Balance(mintURL string) uint64 {
	e, ok := t.lookup(mintURL)
	if !ok {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.balance
}

// CanServe reports whether mintURL's balance covers amount.
func (t *Table) CanServe(mintURL string, amount uint64) bool {
	return t.Balance(mintURL) >= amount
}

// Select greedily picks largest-denomination proofs first until their
// sum is at least amount, without removing them from the inventory.
// The caller completes the reservation with a subsequent Remove of
// exactly the returned proofs.
func (t *Table) Select(mintURL string, amount uint64) ([]mintapi.Proof, error) {
	e, ok := t.lookup(mintURL)
	if !ok {
		return nil, ErrMintNotFound
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	all := make([]mintapi.Proof, 0, len(e.proofs))
	for _, p := range e.proofs {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Amount > all[j].Amount })

	selected := make([]mintapi.Proof, 0)
	var sum uint64
	for _, p := range all {
		if sum >= amount {
			break
		}
		selected = append(selected, p)
		sum += p.Amount
	}
	if sum < amount {
		return nil, ErrInsufficientBalance
	}
	return selected, nil
}
