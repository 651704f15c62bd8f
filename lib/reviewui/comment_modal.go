// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/quizforge/quizforge/lib/comment"
)

// CommentModal shows an item's discussion threads and an input box
// for posting a new comment or reply. Threads render flattened to two
// levels: a root and its replies, with replies indented once.
type CommentModal struct {
	ItemID  int64
	Threads []comment.Thread

	// replyTo is the root comment ID a new post replies to; empty
	// posts a new root comment. Cycled with Tab over the visible
	// roots.
	replyTo      string
	replyCursor  int // 0 = new thread, 1..n = reply to root n-1.
	input        textArea
	inputFocused bool
	scroll       int
	theme        Theme
}

// NewCommentModal creates a CommentModal for an item's threads.
func NewCommentModal(itemID int64, threads []comment.Thread, theme Theme) CommentModal {
	return CommentModal{
		ItemID:       itemID,
		Threads:      threads,
		input:        newTextArea("", false),
		inputFocused: true,
		theme:        theme,
	}
}

// Body returns the trimmed pending comment text.
func (modal *CommentModal) Body() string {
	return strings.TrimSpace(modal.input.Value())
}

// ParentID returns the root comment ID the pending comment replies
// to, or empty for a new thread.
func (modal *CommentModal) ParentID() string { return modal.replyTo }

// Update processes a key message.
func (modal *CommentModal) Update(message tea.KeyMsg) {
	if message.Type == tea.KeyTab {
		// Cycle the reply target: new thread, then each root in order.
		modal.replyCursor++
		if modal.replyCursor > len(modal.Threads) {
			modal.replyCursor = 0
		}
		if modal.replyCursor == 0 {
			modal.replyTo = ""
		} else {
			modal.replyTo = modal.Threads[modal.replyCursor-1].Root.ID
		}
		return
	}

	// Page keys scroll the thread area; everything else edits.
	switch message.Type {
	case tea.KeyPgUp:
		if modal.scroll > 0 {
			modal.scroll--
		}
	case tea.KeyPgDown:
		modal.scroll++
	default:
		modal.input.Update(message)
	}
}

// Render produces the modal overlay lines.
func (modal *CommentModal) Render(screenWidth, screenHeight int) []string {
	innerWidth := modalBodyWidth(screenWidth)
	bgStyle := modalStyle(modal.theme)
	textStyle := bgStyle.Foreground(modal.theme.ModalForeground)
	authorStyle := bgStyle.Foreground(modal.theme.HeaderForeground).Bold(true)
	faintStyle := bgStyle.Foreground(modal.theme.FaintText)

	var body []string
	appendWrapped := func(prefix, content string) {
		wrapped := ansi.Wrap(content, innerWidth-ansi.StringWidth(prefix), " ,.;-")
		for index, line := range strings.Split(wrapped, "\n") {
			if index == 0 {
				body = append(body, textStyle.Render(prefix+line))
			} else {
				body = append(body, textStyle.Render(strings.Repeat(" ", ansi.StringWidth(prefix))+line))
			}
		}
	}

	for _, thread := range modal.Threads {
		header := fmt.Sprintf("%s  %s", thread.Root.UserName, thread.Root.CreatedAt.Format("2006-01-02 15:04"))
		body = append(body, authorStyle.Render(header))
		appendWrapped("", thread.Root.Content)
		for _, reply := range thread.Replies {
			replyHeader := fmt.Sprintf("  ↳ %s  %s", reply.UserName, reply.CreatedAt.Format("2006-01-02 15:04"))
			body = append(body, faintStyle.Render(replyHeader))
			appendWrapped("    ", reply.Content)
		}
		body = append(body, "")
	}
	if len(modal.Threads) == 0 {
		body = append(body, faintStyle.Render("No comments yet."))
		body = append(body, "")
	}

	// Clamp the thread area so the input stays on screen.
	maxThreadLines := screenHeight - modalMargin*2 - modalChromeHeight - 5
	if maxThreadLines < 3 {
		maxThreadLines = 3
	}
	if modal.scroll > len(body)-1 {
		modal.scroll = len(body) - 1
	}
	if len(body) > maxThreadLines {
		start := modal.scroll
		if start > len(body)-maxThreadLines {
			start = len(body) - maxThreadLines
		}
		body = body[start : start+maxThreadLines]
	}

	target := "new thread"
	if modal.replyTo != "" {
		target = "reply to " + modal.Threads[modal.replyCursor-1].Root.UserName
	}
	body = append(body, faintStyle.Render("── "+target+" ──"))
	body = append(body, modal.input.renderLines(innerWidth, 3, modal.theme, modal.inputFocused)...)

	title := fmt.Sprintf("Comments on item %d (%d)", modal.ItemID, comment.Count(modal.Threads))
	return renderModalBox(title, body, "Tab reply target  Ctrl+D post  Esc close", modal.theme)
}
