// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	want := epoch.Add(5 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockTickerNoTickAtCreation(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(10 * time.Second)
	defer ticker.Stop()

	select {
	case <-ticker.C:
		t.Fatal("ticker fired before the first interval elapsed")
	default:
	}

	clock.Advance(10 * time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire after one interval")
	}
}

func TestFakeClockTickerFiresEveryInterval(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(time.Second)
	defer ticker.Stop()

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		select {
		case <-ticker.C:
		default:
			t.Fatalf("tick %d missing", i)
		}
	}
}

func TestFakeClockTickerDropsTicks(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(time.Second)
	defer ticker.Stop()

	// Five intervals with nobody reading: one tick buffered, the rest
	// dropped.
	clock.Advance(5 * time.Second)

	select {
	case <-ticker.C:
	default:
		t.Fatal("expected one buffered tick")
	}
	select {
	case <-ticker.C:
		t.Fatal("ticks should not accumulate beyond the channel buffer")
	default:
	}
}

func TestFakeClockTickerStop(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(time.Second)
	ticker.Stop()

	clock.Advance(5 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
	if clock.PendingCount() != 0 {
		t.Fatalf("PendingCount = %d after Stop, want 0", clock.PendingCount())
	}
}

func TestFakeClockTickerStopBetweenCollectAndFire(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(time.Second)

	target := epoch.Add(time.Second)
	toFire := clock.collectExpired(target)
	if len(toFire) != 1 {
		t.Fatalf("collected %d waiters, want 1", len(toFire))
	}
	ticker.Stop()
	clock.fire(toFire[0], target)

	select {
	case <-ticker.C:
		t.Fatal("ticker fired after Stop returned")
	default:
	}
}

func TestFakeClockTickerPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewTicker(0) did not panic")
		}
	}()
	Fake(epoch).NewTicker(0)
}

func TestFakeClockWaitForTimers(t *testing.T) {
	clock := Fake(epoch)

	registered := make(chan struct{})
	go func() {
		ticker := clock.NewTicker(time.Second)
		close(registered)
		<-ticker.C
		ticker.Stop()
	}()

	clock.WaitForTimers(1)
	<-registered
	clock.Advance(time.Second)
	clock.WaitForNoTimers()
}

func TestFakeClockConcurrentAccess(t *testing.T) {
	clock := Fake(epoch)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := clock.NewTicker(time.Second)
			_ = clock.Now()
			ticker.Stop()
		}()
	}
	for i := 0; i < 8; i++ {
		clock.Advance(time.Millisecond)
	}
	wg.Wait()
}

func TestClocksImplementClock(t *testing.T) {
	var _ Clock = Fake(epoch)
	var _ Clock = Real()
}
