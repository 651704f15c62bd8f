// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock pinned to initial. Time stands still until
// Advance is called; pending After channels and tickers fire when the
// clock moves past their deadlines.
//
// FakeClock is safe for concurrent use.
func Fake(initial time.Time) *FakeClock {
	fake := &FakeClock{current: initial}
	fake.registered = sync.NewCond(&fake.mu)
	return fake
}

// FakeClock is a deterministic Clock for tests. Advance is the only
// way time moves.
type FakeClock struct {
	mu         sync.Mutex
	current    time.Time
	pending    []*fakeTimer
	registered *sync.Cond
}

type fakeTimer struct {
	deadline time.Time
	channel  chan time.Time

	// interval is non-zero for tickers; the timer is rescheduled at
	// deadline+interval after each fire.
	interval time.Duration

	stopped bool
}

// Now returns the current fake time.
func (fake *FakeClock) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.current
}

// After returns a channel that fires when the clock advances past
// now+d. If d <= 0 the channel fires immediately.
func (fake *FakeClock) After(d time.Duration) <-chan time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- fake.current
		return channel
	}
	fake.pending = append(fake.pending, &fakeTimer{
		deadline: fake.current.Add(d),
		channel:  channel,
	})
	fake.registered.Broadcast()
	return channel
}

// NewTicker returns a Ticker that fires once per elapsed interval
// when the clock advances. Panics if d <= 0.
func (fake *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	channel := make(chan time.Time, 1)
	timer := &fakeTimer{
		deadline: fake.current.Add(d),
		channel:  channel,
		interval: d,
	}
	fake.pending = append(fake.pending, timer)
	fake.registered.Broadcast()

	return &Ticker{
		C: channel,
		stop: func() {
			fake.mu.Lock()
			defer fake.mu.Unlock()
			timer.stopped = true
		},
	}
}

// Advance moves the clock forward by d and fires every pending timer
// whose deadline falls within the new time, in deadline order.
// Channel sends are non-blocking: ticks that overflow a full buffer
// are dropped, matching time.Ticker.
func (fake *FakeClock) Advance(d time.Duration) {
	fake.mu.Lock()
	fake.current = fake.current.Add(d)
	target := fake.current
	fake.mu.Unlock()

	for {
		expired := fake.takeExpired(target)
		if len(expired) == 0 {
			return
		}
		sort.Slice(expired, func(i, j int) bool {
			return expired[i].deadline.Before(expired[j].deadline)
		})
		for _, timer := range expired {
			select {
			case timer.channel <- target:
			default:
			}
		}
	}
}

// WaitForTimers blocks until at least n timers or tickers are
// pending. Tests call this before Advance to close the race between
// a goroutine registering its timer and the test firing it.
func (fake *FakeClock) WaitForTimers(n int) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for fake.activeLocked() < n {
		fake.registered.Wait()
	}
}

func (fake *FakeClock) activeLocked() int {
	count := 0
	for _, timer := range fake.pending {
		if !timer.stopped {
			count++
		}
	}
	return count
}

// takeExpired removes timers due at or before target, rescheduling
// tickers for their next interval.
func (fake *FakeClock) takeExpired(target time.Time) []*fakeTimer {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	var expired, remaining []*fakeTimer
	for _, timer := range fake.pending {
		if timer.stopped {
			continue
		}
		if !timer.deadline.After(target) {
			expired = append(expired, timer)
		} else {
			remaining = append(remaining, timer)
		}
	}
	for _, timer := range expired {
		if timer.interval > 0 {
			timer.deadline = timer.deadline.Add(timer.interval)
			remaining = append(remaining, timer)
		}
	}
	fake.pending = remaining
	return expired
}
