// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package comment assembles the flat comment list returned by the
// backend into the two-level display tree: root comments in posting
// order, each with its replies in posting order.
//
// There is deliberately no local mutation: posting a comment goes
// through the API client and the caller re-fetches the thread.
// Simplicity over latency.
package comment

import (
	"sort"

	"github.com/quizforge/quizforge/lib/qapi"
)

// Thread is one root comment with its direct replies.
type Thread struct {
	Root    qapi.Comment
	Replies []qapi.Comment
}

// BuildThreads assembles threads from a flat comment list in two
// passes: first an id→comment map, then attachment. A comment whose
// parent_id is missing from the map is shown at root level rather
// than dropped. A reply whose parent is itself a reply is flattened
// onto that reply's root; display depth never exceeds two levels.
func BuildThreads(comments []qapi.Comment) []Thread {
	byID := make(map[string]qapi.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	// rootOf resolves the root-level ancestor for a comment, walking
	// at most one extra hop so nested replies land under the root.
	// Missing parents terminate the walk at the orphan itself.
	rootOf := func(c qapi.Comment) string {
		if c.ParentID == "" {
			return c.ID
		}
		parent, ok := byID[c.ParentID]
		if !ok {
			return c.ID
		}
		if parent.ParentID != "" {
			if _, ok := byID[parent.ParentID]; ok {
				return parent.ParentID
			}
		}
		return parent.ID
	}

	threadIndex := make(map[string]int)
	var threads []Thread
	for _, c := range comments {
		rootID := rootOf(c)
		if rootID == c.ID {
			// Root-level: either a true root or an orphaned reply.
			if index, exists := threadIndex[c.ID]; exists {
				threads[index].Root = c
				continue
			}
			threadIndex[c.ID] = len(threads)
			threads = append(threads, Thread{Root: c})
			continue
		}
		index, exists := threadIndex[rootID]
		if !exists {
			// Reply arrived before its root in the flat list. Create
			// the thread shell; the root fills in when reached.
			index = len(threads)
			threadIndex[rootID] = index
			threads = append(threads, Thread{Root: byID[rootID]})
		}
		threads[index].Replies = append(threads[index].Replies, c)
	}

	for i := range threads {
		sort.SliceStable(threads[i].Replies, func(a, b int) bool {
			return threads[i].Replies[a].CreatedAt.Before(threads[i].Replies[b].CreatedAt)
		})
	}
	sort.SliceStable(threads, func(a, b int) bool {
		return threads[a].Root.CreatedAt.Before(threads[b].Root.CreatedAt)
	})
	return threads
}

// Count returns the total number of comments across threads.
func Count(threads []Thread) int {
	total := 0
	for _, thread := range threads {
		total += 1 + len(thread.Replies)
	}
	return total
}
