// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// textArea is a small text editor with cursor tracking, used inside
// the modal overlays (rejection comments, field edits, discussion
// replies). Single-line mode swallows Enter so field edits can't grow
// newlines.
type textArea struct {
	lines      [][]rune
	cursorY    int
	cursorX    int
	singleLine bool
}

func newTextArea(initial string, singleLine bool) textArea {
	area := textArea{singleLine: singleLine}
	for _, line := range strings.Split(initial, "\n") {
		area.lines = append(area.lines, []rune(line))
	}
	if len(area.lines) == 0 {
		area.lines = [][]rune{{}}
	}
	area.cursorY = len(area.lines) - 1
	area.cursorX = len(area.lines[area.cursorY])
	return area
}

// Value returns the current text content.
func (area textArea) Value() string {
	parts := make([]string, len(area.lines))
	for index, line := range area.lines {
		parts[index] = string(line)
	}
	return strings.Join(parts, "\n")
}

// Update processes a key message.
func (area *textArea) Update(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			area.insertRune(character)
		}

	case tea.KeyEnter:
		if area.singleLine {
			return
		}
		line := area.lines[area.cursorY]
		before := make([]rune, area.cursorX)
		copy(before, line[:area.cursorX])
		after := make([]rune, len(line)-area.cursorX)
		copy(after, line[area.cursorX:])

		area.lines[area.cursorY] = before
		newLines := make([][]rune, len(area.lines)+1)
		copy(newLines, area.lines[:area.cursorY+1])
		newLines[area.cursorY+1] = after
		copy(newLines[area.cursorY+2:], area.lines[area.cursorY+1:])
		area.lines = newLines
		area.cursorY++
		area.cursorX = 0

	case tea.KeyBackspace:
		if area.cursorX > 0 {
			line := area.lines[area.cursorY]
			area.lines[area.cursorY] = append(line[:area.cursorX-1], line[area.cursorX:]...)
			area.cursorX--
		} else if area.cursorY > 0 {
			previous := area.lines[area.cursorY-1]
			current := area.lines[area.cursorY]
			area.cursorX = len(previous)
			area.lines[area.cursorY-1] = append(previous, current...)
			area.lines = append(area.lines[:area.cursorY], area.lines[area.cursorY+1:]...)
			area.cursorY--
		}

	case tea.KeyDelete:
		line := area.lines[area.cursorY]
		if area.cursorX < len(line) {
			area.lines[area.cursorY] = append(line[:area.cursorX], line[area.cursorX+1:]...)
		} else if area.cursorY < len(area.lines)-1 {
			next := area.lines[area.cursorY+1]
			area.lines[area.cursorY] = append(line, next...)
			area.lines = append(area.lines[:area.cursorY+1], area.lines[area.cursorY+2:]...)
		}

	case tea.KeyLeft:
		if area.cursorX > 0 {
			area.cursorX--
		} else if area.cursorY > 0 {
			area.cursorY--
			area.cursorX = len(area.lines[area.cursorY])
		}

	case tea.KeyRight:
		line := area.lines[area.cursorY]
		if area.cursorX < len(line) {
			area.cursorX++
		} else if area.cursorY < len(area.lines)-1 {
			area.cursorY++
			area.cursorX = 0
		}

	case tea.KeyUp:
		if area.cursorY > 0 {
			area.cursorY--
			if area.cursorX > len(area.lines[area.cursorY]) {
				area.cursorX = len(area.lines[area.cursorY])
			}
		}

	case tea.KeyDown:
		if area.cursorY < len(area.lines)-1 {
			area.cursorY++
			if area.cursorX > len(area.lines[area.cursorY]) {
				area.cursorX = len(area.lines[area.cursorY])
			}
		}

	case tea.KeyHome, tea.KeyCtrlA:
		area.cursorX = 0

	case tea.KeyEnd, tea.KeyCtrlE:
		area.cursorX = len(area.lines[area.cursorY])
	}
}

func (area *textArea) insertRune(character rune) {
	line := area.lines[area.cursorY]
	newLine := make([]rune, len(line)+1)
	copy(newLine, line[:area.cursorX])
	newLine[area.cursorX] = character
	copy(newLine[area.cursorX+1:], line[area.cursorX:])
	area.lines[area.cursorY] = newLine
	area.cursorX++
}

// renderLines renders the editor content with a visible cursor,
// padded to innerWidth and scrolled so the cursor line is visible
// within innerHeight rows. The showCursor flag suppresses the block
// cursor when the editor does not have focus.
func (area textArea) renderLines(innerWidth, innerHeight int, theme Theme, showCursor bool) []string {
	bgStyle := modalStyle(theme)
	textStyle := bgStyle.Foreground(theme.ModalForeground)
	cursorStyle := bgStyle.Reverse(true)

	scrollOffset := 0
	if area.cursorY >= innerHeight {
		scrollOffset = area.cursorY - innerHeight + 1
	}

	var rendered []string
	for lineIndex := scrollOffset; lineIndex < scrollOffset+innerHeight; lineIndex++ {
		var line string
		if lineIndex < len(area.lines) {
			runes := area.lines[lineIndex]
			if showCursor && lineIndex == area.cursorY {
				if area.cursorX >= len(runes) {
					line = textStyle.Render(string(runes)) + cursorStyle.Render(" ")
				} else {
					line = textStyle.Render(string(runes[:area.cursorX])) +
						cursorStyle.Render(string(runes[area.cursorX:area.cursorX+1])) +
						textStyle.Render(string(runes[area.cursorX+1:]))
				}
			} else {
				line = textStyle.Render(string(runes))
			}
		}

		if width := ansi.StringWidth(line); width < innerWidth {
			line += bgStyle.Render(strings.Repeat(" ", innerWidth-width))
		}
		rendered = append(rendered, line)
	}
	return rendered
}
