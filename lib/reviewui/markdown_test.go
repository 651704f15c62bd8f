// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestExplanationReflowsSoftBreaks(t *testing.T) {
	input := "The answer is B because\nclose is the only builtin\nthat ends a channel."
	output := ansi.Strip(renderExplanation(input, DefaultTheme, 200))
	if strings.Contains(output, "\n") {
		t.Errorf("soft-wrapped paragraph should reflow to one line at width 200:\n%s", output)
	}
	if !strings.Contains(output, "because close is the only builtin") {
		t.Errorf("soft breaks should become spaces:\n%s", output)
	}
}

func TestExplanationWrapsToWidth(t *testing.T) {
	input := strings.Repeat("word ", 30)
	output := ansi.Strip(renderExplanation(input, DefaultTheme, 40))
	for _, line := range strings.Split(output, "\n") {
		if ansi.StringWidth(line) > 40 {
			t.Errorf("line exceeds width 40: %q", line)
		}
	}
}

func TestExplanationRendersListBullets(t *testing.T) {
	input := "Points:\n\n- first\n- second"
	output := ansi.Strip(renderExplanation(input, DefaultTheme, 60))
	if !strings.Contains(output, "• first") || !strings.Contains(output, "• second") {
		t.Errorf("bullets missing:\n%s", output)
	}
}

func TestExplanationKeepsCodeBlockLines(t *testing.T) {
	input := "Example:\n\n```go\nclose(ch)\nch <- 1\n```"
	output := ansi.Strip(renderExplanation(input, DefaultTheme, 60))
	if !strings.Contains(output, "close(ch)") {
		t.Errorf("code block content missing:\n%s", output)
	}
	// Code lines keep their own line breaks instead of reflowing.
	closeIndex := strings.Index(output, "close(ch)")
	sendIndex := strings.Index(output, "ch <- 1")
	if closeIndex < 0 || sendIndex < 0 || !strings.Contains(output[closeIndex:sendIndex], "\n") {
		t.Errorf("code block lines reflowed:\n%s", output)
	}
}

func TestExplanationEmptyInput(t *testing.T) {
	if got := renderExplanation("", DefaultTheme, 60); got != "" {
		t.Errorf("empty input rendered %q", got)
	}
}
