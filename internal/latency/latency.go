// Package latency delays calls by a configurable amount to make an
// in-memory backend behave like a remote one.
package latency

import (
	"context"
	"math/rand/v2"
	"time"
)

type Simulator struct {
	base   time.Duration
	jitter time.Duration
}

// New returns a Simulator that waits base plus a random duration in [0, jitter].
// A zero Simulator, or one built with New(0, 0), never waits.
func New(base, jitter time.Duration) *Simulator {
	return &Simulator{base: base, jitter: jitter}
}

func (s *Simulator) next() time.Duration {
	d := s.base
	if s.jitter > 0 {
		d += rand.N(s.jitter + 1)
	}
	return d
}

// Wait blocks for the simulated delay or until ctx is done, whichever comes
// first. It returns ctx.Err() when the wait was cut short.
func (s *Simulator) Wait(ctx context.Context) error {
	if s == nil {
		return ctx.Err()
	}

	d := s.next()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
