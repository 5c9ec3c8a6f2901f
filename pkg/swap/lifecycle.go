package swap

import (
	"fmt"
	"time"
)

// Cancel abandons the swap with no on-mint effect. Valid any time before
// CLAIMING; once claiming has begun the coordinator must run to
// termination, matching spec.md's cancellation contract.
func (c *Coordinator) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.terminal() {
		return fmt.Errorf("%w: swap already in terminal state %s", ErrInvalidState, c.state)
	}
	if c.state == StateClaiming || c.state == StateExtracting {
		return ErrCannotCancel
	}

	c.state = StateCancelled
	c.t = nil
	c.emit(Event{Type: EventCancelled})
	return nil
}

// CheckExpiry transitions the coordinator to StateTimeout if now is
// past the configured expiry and the swap has not yet completed. It
// does not roll back any on-mint action already taken.
func (c *Coordinator) CheckExpiry(now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.ExpiryTime.IsZero() || c.state.terminal() {
		return nil
	}
	if !now.After(c.cfg.ExpiryTime) {
		return nil
	}

	c.state = StateTimeout
	c.emit(Event{Type: EventTimeout})
	return ErrExpired
}
