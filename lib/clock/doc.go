// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that needs the current time or a periodic ticker takes a Clock instead of calling the time package. In
// production Real() wraps the standard library. In tests Fake()
// returns a clock that only moves when Advance is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go session.Run(ctx)            // registers a keepalive ticker
//	c.WaitForTimers(1)             // wait for the registration
//	c.Advance(10 * time.Second)    // fire exactly one tick
//
// WaitForTimers closes the race between a goroutine registering its
// ticker and the test advancing time.
package clock
