// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/tidwall/jsonc"
)

// KeyMap defines all key bindings for the review TUI. Single-key
// mnemonics are only consulted while no text input has focus; the
// focus router in Update suppresses them otherwise.
type KeyMap struct {
	// Navigation.
	Up       key.Binding
	Down     key.Binding
	Next     key.Binding // Next item in the review walk.
	Previous key.Binding // Previous item.
	PageUp   key.Binding
	PageDown key.Binding

	// Focus switching between the item list and the detail pane.
	FocusToggle key.Binding

	// Review verdicts.
	Approve key.Binding
	Reject  key.Binding

	// Item editing.
	EditQuestion    key.Binding
	EditAnswer      key.Binding
	EditExplanation key.Binding

	// Filter cycling. FilterReview cycles the review-status axis,
	// FilterQC cycles the QC axis.
	FilterReview key.Binding
	FilterQC     key.Binding

	// Discussion thread.
	Comments key.Binding

	// Batch operations.
	ApproveAll key.Binding
	Publish    key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Next: key.NewBinding(
		key.WithKeys("n", "right"),
		key.WithHelp("n/→", "next"),
	),
	Previous: key.NewBinding(
		key.WithKeys("p", "left"),
		key.WithHelp("p/←", "previous"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch pane"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	Reject: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reject"),
	),
	EditQuestion: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit question"),
	),
	EditAnswer: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "edit answer"),
	),
	EditExplanation: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "edit explanation"),
	),
	FilterReview: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter review"),
	),
	FilterQC: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "filter qc"),
	),
	Comments: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "comments"),
	),
	ApproveAll: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "approve all"),
	),
	Publish: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "publish"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// keymapOverride is the on-disk schema for key binding overrides: a
// map from action name to the replacement key list. The file is JSONC
// so users can comment out bindings while experimenting.
type keymapOverride map[string][]string

// LoadKeyMap returns DefaultKeyMap with any overrides from the given
// JSONC file applied. A missing file is not an error; a present but
// malformed file is. Unknown action names are rejected so typos fail
// loudly instead of silently keeping the default.
func LoadKeyMap(path string) (KeyMap, error) {
	keys := DefaultKeyMap
	if path == "" {
		return keys, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return keys, nil
	}
	if err != nil {
		return keys, fmt.Errorf("reading keymap file: %w", err)
	}

	var overrides keymapOverride
	if err := json.Unmarshal(jsonc.ToJSON(data), &overrides); err != nil {
		return keys, fmt.Errorf("parsing keymap file %s: %w", path, err)
	}

	bindings := map[string]*key.Binding{
		"up":               &keys.Up,
		"down":             &keys.Down,
		"next":             &keys.Next,
		"previous":         &keys.Previous,
		"page_up":          &keys.PageUp,
		"page_down":        &keys.PageDown,
		"focus_toggle":     &keys.FocusToggle,
		"approve":          &keys.Approve,
		"reject":           &keys.Reject,
		"edit_question":    &keys.EditQuestion,
		"edit_answer":      &keys.EditAnswer,
		"edit_explanation": &keys.EditExplanation,
		"filter_review":    &keys.FilterReview,
		"filter_qc":        &keys.FilterQC,
		"comments":         &keys.Comments,
		"approve_all":      &keys.ApproveAll,
		"publish":          &keys.Publish,
		"quit":             &keys.Quit,
	}

	for action, replacement := range overrides {
		binding, ok := bindings[action]
		if !ok {
			return keys, fmt.Errorf("keymap file %s: unknown action %q", path, action)
		}
		if len(replacement) == 0 {
			return keys, fmt.Errorf("keymap file %s: action %q has no keys", path, action)
		}
		binding.SetKeys(replacement...)
	}

	return keys, nil
}
