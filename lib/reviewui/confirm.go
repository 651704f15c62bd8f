// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// confirmAction identifies which pending batch operation a
// ConfirmDialog guards.
type confirmAction int

const (
	confirmApproveAll confirmAction = iota
	confirmPublish
)

// ConfirmDialog is a yes/no prompt shown before destructive batch
// operations (approve-all, publish). Enter or y confirms, Esc or n
// cancels; both are handled by the model's focus router.
type ConfirmDialog struct {
	action confirmAction
	title  string
	body   string
	theme  Theme
}

func newConfirmDialog(action confirmAction, title, body string, theme Theme) ConfirmDialog {
	return ConfirmDialog{action: action, title: title, body: body, theme: theme}
}

// Render produces the dialog overlay lines.
func (dialog ConfirmDialog) Render(screenWidth int) []string {
	innerWidth := modalBodyWidth(screenWidth)
	if innerWidth > 60 {
		innerWidth = 60
	}
	textStyle := modalStyle(dialog.theme).Foreground(dialog.theme.ModalForeground)

	var body []string
	wrapped := ansi.Wrap(dialog.body, innerWidth, " ,.;-")
	for _, line := range strings.Split(wrapped, "\n") {
		body = append(body, textStyle.Render(line))
	}

	return renderModalBox(dialog.title, body, "Enter/y confirm  Esc/n cancel", dialog.theme)
}
