// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package reviewui is the terminal UI for watching a generation job
// and reviewing its items.
//
// The view has two phases. While the job is generating, the live
// phase shows progress and a rolling feed of new items, driven by
// livesync events. Once the job completes, the review phase shows the
// item list and a detail pane, with single-key verdicts, field edits,
// filtering, discussion threads, and batch approve/publish.
//
// All keyboard input routes through a focus region: while any modal
// (reject, edit, comments, confirm) is open it captures every key, so
// the single-letter mnemonics never fire while the user is typing.
// Mutations run as asynchronous bubbletea commands; their results
// come back as messages and surface in the status bar, where errors
// fade after a few seconds.
package reviewui
