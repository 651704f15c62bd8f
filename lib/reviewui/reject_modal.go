// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quizforge/quizforge/lib/review"
)

// RejectModal collects a rejection verdict: at least one reason from
// the fixed taxonomy, plus an optional free-text comment. The modal
// has two focus zones: the reason checklist (up/down + space) and the
// comment textarea (Tab switches between them).
type RejectModal struct {
	Draft *review.RejectDraft

	cursor         int // Index into review.Reasons.
	commentFocused bool
	comment        textArea
	theme          Theme

	// Error line shown when submit is attempted with no reason.
	validationError string
}

// NewRejectModal creates a RejectModal around a rejection draft.
func NewRejectModal(draft *review.RejectDraft, theme Theme) RejectModal {
	return RejectModal{
		Draft:   draft,
		comment: newTextArea("", false),
		theme:   theme,
	}
}

// submit validates the draft locally and, on success, copies the
// trimmed comment text into it. Returns false (and shows the
// validation error) when no reason is selected.
func (modal *RejectModal) submit() bool {
	hasReason := false
	for _, reason := range review.Reasons {
		if modal.Draft.Selected(reason) {
			hasReason = true
			break
		}
	}
	if !hasReason {
		modal.validationError = "select at least one reason"
		return false
	}
	modal.Draft.Comment = strings.TrimSpace(modal.comment.Value())
	return true
}

// Update processes a key message. Returns true when the key was
// consumed by the modal's internal navigation; submit and cancel are
// handled by the model.
func (modal *RejectModal) Update(message tea.KeyMsg) {
	if modal.commentFocused {
		if message.Type == tea.KeyTab {
			modal.commentFocused = false
			return
		}
		modal.comment.Update(message)
		return
	}

	switch message.Type {
	case tea.KeyTab:
		modal.commentFocused = true
		return
	case tea.KeyUp:
		if modal.cursor > 0 {
			modal.cursor--
		}
		return
	case tea.KeyDown:
		if modal.cursor < len(review.Reasons)-1 {
			modal.cursor++
		}
		return
	case tea.KeySpace, tea.KeyEnter:
		modal.Draft.Toggle(review.Reasons[modal.cursor])
		modal.validationError = ""
		return
	}

	switch string(message.Runes) {
	case "k":
		if modal.cursor > 0 {
			modal.cursor--
		}
	case "j":
		if modal.cursor < len(review.Reasons)-1 {
			modal.cursor++
		}
	}
}

// Render produces the modal overlay lines.
func (modal *RejectModal) Render(screenWidth int) []string {
	innerWidth := modalBodyWidth(screenWidth)
	bgStyle := modalStyle(modal.theme)
	textStyle := bgStyle.Foreground(modal.theme.ModalForeground)
	selectedStyle := bgStyle.Foreground(modal.theme.HeaderForeground).Bold(true)
	faintStyle := bgStyle.Foreground(modal.theme.FaintText)
	errorStyle := bgStyle.Foreground(modal.theme.ErrorText)

	var body []string
	for index, reason := range review.Reasons {
		check := "[ ]"
		if modal.Draft.Selected(reason) {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, reason.Label())
		if !modal.commentFocused && index == modal.cursor {
			body = append(body, selectedStyle.Render("› "+line))
		} else {
			body = append(body, textStyle.Render("  "+line))
		}
	}

	body = append(body, faintStyle.Render(""))
	commentLabel := "  Comment (optional):"
	if modal.commentFocused {
		commentLabel = "› Comment (optional):"
	}
	body = append(body, faintStyle.Render(commentLabel))
	body = append(body, modal.comment.renderLines(innerWidth, 3, modal.theme, modal.commentFocused)...)

	if modal.validationError != "" {
		body = append(body, errorStyle.Render("  "+modal.validationError))
	}

	return renderModalBox(
		fmt.Sprintf("Reject item %d", modal.Draft.ItemID),
		body,
		"Space toggle  Tab comment  Ctrl+D submit  Esc cancel",
		modal.theme,
	)
}
