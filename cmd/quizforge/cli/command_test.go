// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	ran := false
	root := &Command{
		Name: "quizforge",
		Subcommands: []*Command{
			{Name: "list", Run: func(args []string) error {
				ran = true
				return nil
			}},
		},
	}
	if err := root.Execute([]string{"list"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !ran {
		t.Error("subcommand did not run")
	}
}

func TestExecuteSuggestsClosestCommand(t *testing.T) {
	root := &Command{
		Name: "quizforge",
		Subcommands: []*Command{
			{Name: "review", Run: func([]string) error { return nil }},
			{Name: "restart", Run: func([]string) error { return nil }},
		},
	}
	err := root.Execute([]string{"reviw"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "review"`) {
		t.Errorf("error %q lacks suggestion", err)
	}
}

func TestExecuteParsesFlagsBeforeRun(t *testing.T) {
	var limit int
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.IntVar(&limit, "limit", 20, "")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected args %v", args)
			}
			return nil
		},
	}
	if err := command.Execute([]string{"--limit", "5"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if limit != 5 {
		t.Errorf("limit = %d, want 5", limit)
	}
}

func TestCommandErrorHintFormatting(t *testing.T) {
	err := Validation("count %d outside [1, 100]", 200).
		WithHint("Pass --count between 1 and 100.")
	want := "count 200 outside [1, 100]\n\nPass --count between 1 and 100."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCommandErrorCategorySurvivesWrapping(t *testing.T) {
	inner := NotFound("job %q not found", "job-9")
	wrapped := fmt.Errorf("review: %w", inner)

	var commandError *CommandError
	if !errors.As(wrapped, &commandError) {
		t.Fatal("errors.As failed to find CommandError")
	}
	if commandError.Category != CategoryNotFound {
		t.Errorf("Category = %q, want %q", commandError.Category, CategoryNotFound)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"review", "review", 0},
		{"reviw", "review", 1},
		{"lst", "list", 1},
		{"publish", "list", 6},
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
