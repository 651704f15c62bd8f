// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/quizforge/quizforge/lib/qapi"
	"github.com/quizforge/quizforge/lib/review"
)

// renderDetail renders the full detail view for one item: metadata
// line, question text, lettered options with the correct answer
// marked, the explanation as rendered markdown, and any rejection
// record. Returns the unscrolled line list; the model applies the
// scroll window.
func renderDetail(item qapi.DraftQuestionItem, width int, theme Theme) []string {
	var lines []string

	metaStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	reviewStyle := lipgloss.NewStyle().Foreground(theme.ReviewColor(item.ReviewStatus)).Bold(true)
	qcStyle := lipgloss.NewStyle().Foreground(theme.QCColor(item.QCStatus))
	difficultyStyle := lipgloss.NewStyle().Foreground(theme.DifficultyColor(item.Difficulty))
	questionStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	optionStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	correctStyle := lipgloss.NewStyle().Foreground(theme.CorrectAnswer).Bold(true)
	headingStyle := lipgloss.NewStyle().Foreground(theme.FaintText).Bold(true)

	meta := fmt.Sprintf("#%d  %s  qc:%s  %s", item.ID,
		reviewStyle.Render(string(item.ReviewStatus)),
		qcStyle.Render(string(item.QCStatus)),
		difficultyStyle.Render(item.Difficulty))
	if item.CognitiveLevel != "" {
		meta += metaStyle.Render("  " + item.CognitiveLevel)
	}
	if item.Edited {
		meta += metaStyle.Render("  edited")
	}
	if item.Published {
		meta += correctStyle.Render(fmt.Sprintf("  published → %d", item.PublishedQuestionID))
	}
	lines = append(lines, meta, "")

	for _, line := range wrapStyled(item.Question, width, questionStyle) {
		lines = append(lines, line)
	}
	lines = append(lines, "")

	for index, option := range item.Options {
		letter := review.OptionLetter(index)
		marker := "  "
		style := optionStyle
		if option == item.CorrectAnswer || letter == item.CorrectAnswer {
			marker = "✓ "
			style = correctStyle
		}
		prefix := fmt.Sprintf("%s%s) ", marker, letter)
		wrapped := ansi.Wrap(option, width-len(prefix), " ,.;-")
		for lineIndex, line := range strings.Split(wrapped, "\n") {
			if lineIndex == 0 {
				lines = append(lines, style.Render(prefix+line))
			} else {
				lines = append(lines, style.Render(strings.Repeat(" ", len(prefix))+line))
			}
		}
	}
	lines = append(lines, "")

	if item.Explanation != "" {
		lines = append(lines, headingStyle.Render("Explanation"))
		rendered := renderExplanation(item.Explanation, theme, width)
		lines = append(lines, strings.Split(rendered, "\n")...)
		lines = append(lines, "")
	}

	if item.ReviewStatus == qapi.ReviewRejected && len(item.RejectionReasons) > 0 {
		lines = append(lines, headingStyle.Render("Rejection"))
		rejectStyle := lipgloss.NewStyle().Foreground(theme.ReviewRejected)
		for _, reasonCode := range item.RejectionReasons {
			lines = append(lines, rejectStyle.Render("  • "+review.Reason(reasonCode).Label()))
		}
		if item.RejectionComment != "" {
			for _, line := range wrapStyled(item.RejectionComment, width-2, metaStyle) {
				lines = append(lines, "  "+line)
			}
		}
	}

	return lines
}

// wrapStyled word-wraps plain text to width and styles each line.
func wrapStyled(content string, width int, style lipgloss.Style) []string {
	if width < 10 {
		width = 10
	}
	wrapped := ansi.Wrap(content, width, " ,.;-")
	var result []string
	for _, line := range strings.Split(wrapped, "\n") {
		result = append(result, style.Render(line))
	}
	return result
}
