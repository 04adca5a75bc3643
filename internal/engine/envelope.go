// Package engine ties the API client, the aggregation pipeline, and the
// result cache into one analysis entry point per analytics kind.
//
// This file (envelope.go) tracks the rate envelope across concurrent detail
// fetches. Each resource kind keeps its own snapshot from its own responses;
// under fan-out the tracker keeps the most conservative (lowest remaining)
// known envelope so the caller sees the tightest quota observed.
package engine

import (
	"sync"
	"time"

	"github.com/aryanjha256/gitflux-sub000/internal/ghapi"
)

// cacheClockGranularity coarsens the clock used in time-anchored cache
// fingerprints so back-to-back calls share an entry.
const cacheClockGranularity = time.Hour

// envelopeTracker aggregates envelopes observed by concurrent workers.
type envelopeTracker struct {
	mu  sync.Mutex
	env ghapi.RateEnvelope
}

func newEnvelopeTracker(initial ghapi.RateEnvelope) *envelopeTracker {
	return &envelopeTracker{env: initial}
}

// observe records an envelope if it is known and tighter than the current
// one.
func (t *envelopeTracker) observe(env ghapi.RateEnvelope) {
	if !env.Known() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.env.Known() || env.Remaining < t.env.Remaining {
		t.env = env
	}
}

func (t *envelopeTracker) get() ghapi.RateEnvelope {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.env
}
