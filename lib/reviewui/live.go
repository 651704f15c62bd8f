// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quizforge/quizforge/lib/qapi"
)

// renderLiveView renders the generation-progress screen shown while a
// job is running: the job header, a progress bar, pass/fail counters,
// and the rolling feed of newly generated items.
func renderLiveView(job qapi.GenerationJob, feed []qapi.DraftQuestionItem, width, height int, disconnected bool, theme Theme) string {
	headerStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	passStyle := lipgloss.NewStyle().Foreground(theme.QCPassed)
	failStyle := lipgloss.NewStyle().Foreground(theme.QCFailed)
	warnStyle := lipgloss.NewStyle().Foreground(theme.ErrorText).Bold(true)

	var lines []string

	title := job.Subject
	if job.Chapter != "" {
		title += " / " + job.Chapter
	}
	if job.BatchName != "" {
		title += "  (" + job.BatchName + ")"
	}
	header := headerStyle.Render(title) + metaStyle.Render("  "+job.ID+"  "+string(job.Status))
	if disconnected {
		header += "  " + warnStyle.Render("connection lost, showing last known state")
	}
	lines = append(lines, header, "")

	lines = append(lines, renderProgressBar(job.DisplayProgress(), width-4, theme))
	counts := fmt.Sprintf("%d/%d generated   %s   %s",
		job.DisplayGenerated(), job.RequestedCount,
		passStyle.Render(fmt.Sprintf("%d passed", job.PassedCount)),
		failStyle.Render(fmt.Sprintf("%d failed", job.FailedCount)))
	if job.RetryCount > 0 {
		counts += metaStyle.Render(fmt.Sprintf("   %d retries", job.RetryCount))
	}
	lines = append(lines, counts, "")

	lines = append(lines, metaStyle.Render(fmt.Sprintf("── latest items (%d) ──", len(feed))))

	// Newest first. The feed is ordered oldest to newest.
	feedRows := height - len(lines) - 1
	for index := len(feed) - 1; index >= 0 && feedRows > 0; index-- {
		lines = append(lines, renderItemRow(feed[index], width, false, theme))
		feedRows--
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}

// renderProgressBar renders a filled/empty bar for a 0-100 percent
// value with the number beside it.
func renderProgressBar(percent, width int, theme Theme) string {
	barWidth := width - 6
	if barWidth < 10 {
		barWidth = 10
	}
	filled := barWidth * percent / 100

	fillStyle := lipgloss.NewStyle().Foreground(theme.ProgressFill)
	emptyStyle := lipgloss.NewStyle().Foreground(theme.ProgressEmpty)

	return fillStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", barWidth-filled)) +
		fmt.Sprintf(" %3d%%", percent)
}
