// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for the pieces of QuizForge that wait:
// the completion grace period in the live synchronizer and the
// periodic auxiliary-panel refresh in the review TUI.
//
// Production code injects Real(). Tests inject Fake() and drive time
// with Advance, which makes grace-period and polling behavior fully
// deterministic.
package clock

import "time"

// Clock is the time source injected into timing-sensitive code.
// Anything that would call time.Now, time.After, or time.NewTicker
// takes a Clock instead.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d has elapsed. If d <= 0 the channel receives
	// immediately.
	After(d time.Duration) <-chan time.Time

	// NewTicker returns a Ticker delivering ticks on C every d.
	// Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Ticker delivers periodic ticks on C. Call Stop to release it.
// C is buffered with capacity 1; ticks the consumer misses are
// dropped, matching time.Ticker.
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop turns the ticker off. No ticks are delivered after Stop
// returns. Stop does not close C.
func (t *Ticker) Stop() { t.stop() }
