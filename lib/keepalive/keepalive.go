// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keepalive provides the per-connection ping schedule.
//
// A Ticker fires once per interval, starting one full interval after
// creation: nothing fires at time zero. The tick channel holds at most
// one pending tick, so a consumer that was busy for several intervals
// sees a single tick rather than a burst.
package keepalive

import (
	"time"

	"github.com/bureau-foundation/bnlogs/lib/clock"
)

// DefaultInterval is the period between keepalive pings.
const DefaultInterval = 10 * time.Second

// Ticker is one connection's keepalive schedule. Each connection owns
// its own Ticker; tickers are never shared.
type Ticker struct {
	// C receives one value per elapsed interval.
	C <-chan time.Time

	ticker *clock.Ticker
}

// New starts a Ticker on c. A non-positive interval selects
// DefaultInterval.
func New(c clock.Clock, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := c.NewTicker(interval)
	return &Ticker{C: ticker.C, ticker: ticker}
}

// Stop ends the schedule. No tick is delivered after Stop returns.
func (t *Ticker) Stop() {
	t.ticker.Stop()
}
