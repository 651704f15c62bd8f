// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/quizforge/quizforge/lib/qapi"
)

// reviewGlyph is the single-character verdict indicator shown in the
// item list.
func reviewGlyph(status qapi.ReviewStatus) string {
	switch status {
	case qapi.ReviewApproved:
		return "✓"
	case qapi.ReviewRejected:
		return "✗"
	default:
		return "·"
	}
}

// qcGlyph is the single-character QC indicator.
func qcGlyph(status qapi.QCStatus) string {
	switch status {
	case qapi.QCPass:
		return "✓"
	case qapi.QCFail:
		return "!"
	default:
		return "·"
	}
}

// renderItemRow renders one list row: verdict glyphs, item ID,
// difficulty tag, and a truncated question excerpt. The selected row
// gets the selection background across the full width.
func renderItemRow(item qapi.DraftQuestionItem, width int, selected bool, theme Theme) string {
	reviewStyle := lipgloss.NewStyle().Foreground(theme.ReviewColor(item.ReviewStatus))
	qcStyle := lipgloss.NewStyle().Foreground(theme.QCColor(item.QCStatus))
	textStyle := lipgloss.NewStyle().Foreground(theme.NormalText)

	edited := " "
	if item.Edited {
		edited = "*"
	}

	prefix := fmt.Sprintf("%s%s%s #%-5d ",
		reviewStyle.Render(reviewGlyph(item.ReviewStatus)),
		qcStyle.Render(qcGlyph(item.QCStatus)),
		edited,
		item.ID,
	)
	prefixWidth := 4 + 7

	excerptWidth := width - prefixWidth
	if excerptWidth < 4 {
		excerptWidth = 4
	}
	excerpt := strings.ReplaceAll(item.Question, "\n", " ")
	if ansi.StringWidth(excerpt) > excerptWidth {
		excerpt = ansi.Truncate(excerpt, excerptWidth-1, "…")
	}

	row := prefix + textStyle.Render(excerpt)

	if selected {
		return lipgloss.NewStyle().
			Background(theme.SelectedBackground).
			Width(width).
			MaxWidth(width).
			Render(row)
	}
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(row)
}

// renderListPane renders the scrolled item list for the left pane.
func renderListPane(items []qapi.DraftQuestionItem, cursor, scrollOffset, width, height int, theme Theme) string {
	var rows []string
	for index := scrollOffset; index < scrollOffset+height && index < len(items); index++ {
		rows = append(rows, renderItemRow(items[index], width, index == cursor, theme))
	}
	for len(rows) < height {
		rows = append(rows, lipgloss.NewStyle().Width(width).Render(""))
	}
	return strings.Join(rows, "\n")
}
