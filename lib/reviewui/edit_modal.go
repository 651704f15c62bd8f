// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quizforge/quizforge/lib/review"
)

// EditTarget identifies which item field an edit modal is changing.
type EditTarget int

const (
	EditQuestionText EditTarget = iota
	EditOptionText
	EditAnswer
	EditExplanationText
)

// EditModal is a prefilled text editor over one field of the current
// item. Question and explanation edits are multi-line; option and
// answer edits are single-line.
type EditModal struct {
	Target      EditTarget
	ItemID      int64
	OptionIndex int // Only meaningful for EditOptionText.

	area  textArea
	theme Theme
}

// NewEditModal creates an edit modal prefilled with the field's
// current value.
func NewEditModal(target EditTarget, itemID int64, optionIndex int, current string, theme Theme) EditModal {
	singleLine := target == EditOptionText || target == EditAnswer
	return EditModal{
		Target:      target,
		ItemID:      itemID,
		OptionIndex: optionIndex,
		area:        newTextArea(current, singleLine),
		theme:       theme,
	}
}

// Value returns the edited text.
func (modal *EditModal) Value() string { return modal.area.Value() }

// Update forwards a key message to the text editor.
func (modal *EditModal) Update(message tea.KeyMsg) {
	modal.area.Update(message)
}

func (modal *EditModal) title() string {
	switch modal.Target {
	case EditQuestionText:
		return fmt.Sprintf("Edit question (item %d)", modal.ItemID)
	case EditOptionText:
		return fmt.Sprintf("Edit option %s (item %d)", review.OptionLetter(modal.OptionIndex), modal.ItemID)
	case EditAnswer:
		return fmt.Sprintf("Edit correct answer (item %d)", modal.ItemID)
	default:
		return fmt.Sprintf("Edit explanation (item %d)", modal.ItemID)
	}
}

// Render produces the modal overlay lines.
func (modal *EditModal) Render(screenWidth, screenHeight int) []string {
	innerWidth := modalBodyWidth(screenWidth)

	innerHeight := 1
	if modal.Target == EditQuestionText || modal.Target == EditExplanationText {
		innerHeight = screenHeight - modalMargin*2 - modalChromeHeight
		if innerHeight < 5 {
			innerHeight = 5
		}
	}

	body := modal.area.renderLines(innerWidth, innerHeight, modal.theme, true)
	footer := "Ctrl+D save  Esc cancel"
	if modal.Target == EditAnswer {
		footer = "Option text or letter (A-D)  Ctrl+D save  Esc cancel"
	}
	return renderModalBox(modal.title(), body, footer, modal.theme)
}
