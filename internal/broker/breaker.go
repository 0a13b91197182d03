package broker

import (
	"sync"
	"time"

	apperrors "groww-trader/internal/errors"
)

// quoteBreaker trips after consecutive quote failures so an evaluation
// cycle over many alerts fails fast instead of waiting out a timeout
// per symbol when the API is down.
type quoteBreaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
	openUntil time.Time
	cooldown  time.Duration
}

func newQuoteBreaker(threshold int, cooldown time.Duration) *quoteBreaker {
	return &quoteBreaker{threshold: threshold, cooldown: cooldown}
}

// allow reports whether a request may proceed.
func (b *quoteBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures >= b.threshold && time.Now().Before(b.openUntil) {
		return apperrors.Wrap(apperrors.ErrConnectionFailed, "quote circuit open")
	}
	return nil
}

func (b *quoteBreaker) recordSuccess() {
	b.mu.Lock()
	b.failures = 0
	b.mu.Unlock()
}

func (b *quoteBreaker) recordFailure() {
	b.mu.Lock()
	b.failures++
	if b.failures >= b.threshold {
		b.openUntil = time.Now().Add(b.cooldown)
	}
	b.mu.Unlock()
}
