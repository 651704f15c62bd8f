// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package distribution implements the percentage-bucket model shared
// by the difficulty, question-type, and cognitive-level axes of a
// generation request. One engine, parameterized by bucket names;
// the three axes differ only in their labels.
//
// The invariant maintained across every mutation is that the active
// buckets sum to exactly 100 after Normalize. All "who absorbs the
// remainder" rules are deterministic: ties on "largest bucket" go to
// the earliest bucket in declaration order.
package distribution

import (
	"fmt"
	"math"
	"sort"
)

// enableSlice is the fixed number of points a newly enabled bucket
// takes from the current largest bucket.
const enableSlice = 10

// Set is an ordered collection of named percentage buckets, each of
// which can be toggled active or inactive. Inactive buckets hold zero
// and receive nothing from Allocate.
type Set struct {
	names  []string
	values map[string]int
	active map[string]bool
}

// New creates a Set with the given bucket names, all active, with the
// initial values from values (missing names start at zero). Call
// Normalize afterwards if the initial values do not already sum
// to 100.
func New(names []string, values map[string]int) *Set {
	set := &Set{
		names:  append([]string(nil), names...),
		values: make(map[string]int, len(names)),
		active: make(map[string]bool, len(names)),
	}
	for _, name := range names {
		set.values[name] = values[name]
		set.active[name] = true
	}
	return set
}

// Even creates a Set with the total split evenly across all buckets,
// remainder to the first.
func Even(names []string) *Set {
	set := New(names, nil)
	if len(names) == 0 {
		return set
	}
	share := 100 / len(names)
	for _, name := range names {
		set.values[name] = share
	}
	set.values[names[0]] += 100 - share*len(names)
	return set
}

// Value returns the current percentage for a bucket.
func (set *Set) Value(name string) int { return set.values[name] }

// Active reports whether a bucket is enabled.
func (set *Set) Active(name string) bool { return set.active[name] }

// Names returns the bucket names in declaration order.
func (set *Set) Names() []string { return append([]string(nil), set.names...) }

// Sum returns the total across active buckets.
func (set *Set) Sum() int {
	total := 0
	for _, name := range set.names {
		if set.active[name] {
			total += set.values[name]
		}
	}
	return total
}

// Values returns a copy of the active bucket values, suitable for a
// JobRequest distribution map.
func (set *Set) Values() map[string]int {
	values := make(map[string]int)
	for _, name := range set.names {
		if set.active[name] {
			values[name] = set.values[name]
		}
	}
	return values
}

// Validate returns an error unless the active buckets sum to exactly
// 100. This is the gate run before a job request leaves the client.
func (set *Set) Validate() error {
	if total := set.Sum(); total != 100 {
		return fmt.Errorf("distribution: active buckets sum to %d, want 100", total)
	}
	return nil
}

// Disable turns a bucket off and redistributes its value evenly among
// the remaining active buckets, remainder to the last active bucket
// in declaration order. Disabling an already-inactive or unknown
// bucket is a no-op, as is disabling the only active bucket.
func (set *Set) Disable(name string) {
	if !set.active[name] {
		return
	}
	var peers []string
	for _, peer := range set.names {
		if peer != name && set.active[peer] {
			peers = append(peers, peer)
		}
	}
	if len(peers) == 0 {
		return
	}

	freed := set.values[name]
	set.active[name] = false
	set.values[name] = 0

	share := freed / len(peers)
	for _, peer := range peers {
		set.values[peer] += share
	}
	set.values[peers[len(peers)-1]] += freed - share*len(peers)
}

// Enable turns a bucket back on with a fixed 10-point slice taken
// from the currently largest active bucket. Enabling an active or
// unknown bucket is a no-op.
func (set *Set) Enable(name string) {
	if set.active[name] {
		return
	}
	if _, known := set.values[name]; !known {
		return
	}
	donor := set.largestActive(name)
	if donor == "" {
		// Nothing else is active; the re-enabled bucket takes the
		// whole total.
		set.active[name] = true
		set.values[name] = 100
		return
	}

	slice := enableSlice
	if set.values[donor] < slice {
		slice = set.values[donor]
	}
	set.values[donor] -= slice
	set.active[name] = true
	set.values[name] = slice
}

// Adjust sets a bucket to value, taking or giving the delta from the
// single largest other active bucket. The donor is clamped at zero;
// Normalize repairs any resulting drift.
func (set *Set) Adjust(name string, value int) {
	if !set.active[name] {
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	delta := value - set.values[name]
	set.values[name] = value

	donor := set.largestActive(name)
	if donor == "" {
		return
	}
	remaining := set.values[donor] - delta
	if remaining < 0 {
		remaining = 0
	}
	set.values[donor] = remaining
}

// Normalize forces the active total to exactly 100 by adjusting the
// largest active bucket. A bucket pushed below zero by the correction
// is clamped and the residue moves to the next largest.
func (set *Set) Normalize() {
	drift := 100 - set.Sum()
	if drift == 0 {
		return
	}

	// Largest-first order; declaration order breaks ties.
	order := set.activeBysize()
	for _, name := range order {
		if drift == 0 {
			break
		}
		adjusted := set.values[name] + drift
		if adjusted < 0 {
			drift = adjusted
			set.values[name] = 0
			continue
		}
		set.values[name] = adjusted
		drift = 0
	}
}

// Allocate converts the percentage buckets into per-bucket counts for
// a batch of the given total size. Each active bucket rounds to
// nearest; the remainder (positive or negative) is absorbed by the
// largest bucket so the counts sum to exactly total.
func (set *Set) Allocate(total int) map[string]int {
	counts := make(map[string]int)
	allocated := 0
	for _, name := range set.names {
		if !set.active[name] {
			continue
		}
		count := int(math.Round(float64(set.values[name]) * float64(total) / 100))
		counts[name] = count
		allocated += count
	}
	if remainder := total - allocated; remainder != 0 {
		if largest := set.largestActive(""); largest != "" {
			counts[largest] += remainder
		}
	}
	return counts
}

// largestActive returns the largest active bucket, excluding the
// named one. Ties resolve to the earliest bucket in declaration
// order. Returns "" when no eligible bucket exists.
func (set *Set) largestActive(exclude string) string {
	best := ""
	for _, name := range set.names {
		if name == exclude || !set.active[name] {
			continue
		}
		if best == "" || set.values[name] > set.values[best] {
			best = name
		}
	}
	return best
}

// activeBysize returns active bucket names sorted largest first,
// declaration order breaking ties.
func (set *Set) activeBysize() []string {
	position := make(map[string]int, len(set.names))
	var order []string
	for index, name := range set.names {
		position[name] = index
		if set.active[name] {
			order = append(order, name)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		if set.values[order[i]] != set.values[order[j]] {
			return set.values[order[i]] > set.values[order[j]]
		}
		return position[order[i]] < position[order[j]]
	})
	return order
}
