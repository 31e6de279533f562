package ws

import "time"

// Backoff is the client-side reconnect policy for the live-update
// stream: a capped number of attempts with exponentially growing
// delays.
type Backoff struct {
	MaxAttempts int
	Base        time.Duration
	Cap         time.Duration

	attempt int
}

// DefaultBackoff returns the policy clients are expected to use:
// 5 attempts, delay doubling from 1s up to a 10s ceiling.
func DefaultBackoff() *Backoff {
	return &Backoff{
		MaxAttempts: 5,
		Base:        time.Second,
		Cap:         10 * time.Second,
	}
}

// Next returns the delay before the next attempt, or false once the
// attempt budget is spent.
func (b *Backoff) Next() (time.Duration, bool) {
	if b.attempt >= b.MaxAttempts {
		return 0, false
	}
	d := b.Base << b.attempt
	if d > b.Cap {
		d = b.Cap
	}
	b.attempt++
	return d, true
}

// Reset restores the full attempt budget after a successful connect.
func (b *Backoff) Reset() {
	b.attempt = 0
}
