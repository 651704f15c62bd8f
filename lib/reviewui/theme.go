// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/quizforge/quizforge/lib/qapi"
)

// Theme defines the color palette for the review TUI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Review verdict colors.
	ReviewPending  lipgloss.Color
	ReviewApproved lipgloss.Color
	ReviewRejected lipgloss.Color

	// QC outcome colors.
	QCPassed lipgloss.Color
	QCFailed lipgloss.Color

	// Difficulty colors (easy, medium, hard, very_hard).
	DifficultyEasy     lipgloss.Color
	DifficultyMedium   lipgloss.Color
	DifficultyHard     lipgloss.Color
	DifficultyVeryHard lipgloss.Color

	// Correct answer marker in the option list.
	CorrectAnswer lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Progress bar fill during live generation.
	ProgressFill  lipgloss.Color
	ProgressEmpty lipgloss.Color

	// Status bar error notice.
	ErrorText lipgloss.Color

	// Modal overlays.
	ModalForeground lipgloss.Color
	ModalBackground lipgloss.Color
}

// ReviewColor returns the color for a review verdict. Unknown values
// return FaintText.
func (theme Theme) ReviewColor(status qapi.ReviewStatus) lipgloss.Color {
	switch status {
	case qapi.ReviewPending:
		return theme.ReviewPending
	case qapi.ReviewApproved:
		return theme.ReviewApproved
	case qapi.ReviewRejected:
		return theme.ReviewRejected
	default:
		return theme.FaintText
	}
}

// QCColor returns the color for a QC outcome.
func (theme Theme) QCColor(status qapi.QCStatus) lipgloss.Color {
	switch status {
	case qapi.QCPass:
		return theme.QCPassed
	case qapi.QCFail:
		return theme.QCFailed
	default:
		return theme.FaintText
	}
}

// DifficultyColor returns the color for a difficulty label. Unknown
// labels return NormalText.
func (theme Theme) DifficultyColor(difficulty string) lipgloss.Color {
	switch difficulty {
	case "easy":
		return theme.DifficultyEasy
	case "medium":
		return theme.DifficultyMedium
	case "hard":
		return theme.DifficultyHard
	case "very_hard":
		return theme.DifficultyVeryHard
	default:
		return theme.NormalText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed for
// 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	ReviewPending:  lipgloss.Color("220"), // yellow/amber
	ReviewApproved: lipgloss.Color("114"), // green
	ReviewRejected: lipgloss.Color("196"), // red

	QCPassed: lipgloss.Color("114"),
	QCFailed: lipgloss.Color("208"), // orange

	DifficultyEasy:     lipgloss.Color("114"),
	DifficultyMedium:   lipgloss.Color("75"), // blue
	DifficultyHard:     lipgloss.Color("208"),
	DifficultyVeryHard: lipgloss.Color("196"),

	CorrectAnswer: lipgloss.Color("114"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	ProgressFill:  lipgloss.Color("114"),
	ProgressEmpty: lipgloss.Color("238"),

	ErrorText: lipgloss.Color("196"),

	ModalForeground: lipgloss.Color("252"),
	ModalBackground: lipgloss.Color("237"),
}
