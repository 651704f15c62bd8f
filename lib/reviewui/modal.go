// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Modal chrome overhead: 2 columns border + 2 columns padding
// horizontal; 2 lines border + 1 title + 1 footer vertical.
const (
	modalChromeWidth  = 4
	modalChromeHeight = 4
	modalMinInner     = 30
	modalMargin       = 4
)

func modalStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Background(theme.ModalBackground)
}

// renderModalBox assembles the common modal chrome: a rounded border
// around a title line, body lines, and a footer hint line. Body lines
// must already be padded to a uniform width.
func renderModalBox(title string, body []string, footer string, theme Theme) []string {
	innerWidth := 0
	for _, line := range body {
		if width := ansi.StringWidth(line); width > innerWidth {
			innerWidth = width
		}
	}
	if innerWidth < modalMinInner {
		innerWidth = modalMinInner
	}

	bgStyle := modalStyle(theme)
	titleStyle := bgStyle.
		Bold(true).
		Foreground(theme.HeaderForeground)
	footerStyle := bgStyle.Foreground(theme.FaintText)

	pad := func(line string) string {
		if width := ansi.StringWidth(line); width < innerWidth {
			return line + bgStyle.Render(strings.Repeat(" ", innerWidth-width))
		}
		return line
	}

	var inner []string
	inner = append(inner, pad(titleStyle.Render(title)))
	for _, line := range body {
		inner = append(inner, pad(line))
	}
	inner = append(inner, pad(footerStyle.Render(footer)))

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Background(theme.ModalBackground)

	rendered := borderStyle.Render(strings.Join(inner, "\n"))
	return strings.Split(rendered, "\n")
}

// modalBodyWidth returns the inner text width for a modal sized to
// the current screen, clamped to the minimum.
func modalBodyWidth(screenWidth int) int {
	width := screenWidth - modalMargin*2 - modalChromeWidth
	if width < modalMinInner {
		width = modalMinInner
	}
	if width > screenWidth {
		width = screenWidth
	}
	return width
}
