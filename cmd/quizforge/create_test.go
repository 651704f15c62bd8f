// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"testing"

	"github.com/quizforge/quizforge/cmd/quizforge/cli"
)

func TestParseSplitValid(t *testing.T) {
	values, err := parseSplit("easy=30,medium=50,hard=15,very_hard=5", "difficulty", difficultyLevels)
	if err != nil {
		t.Fatalf("parseSplit: %v", err)
	}
	want := map[string]int{"easy": 30, "medium": 50, "hard": 15, "very_hard": 5}
	for name, percent := range want {
		if values[name] != percent {
			t.Errorf("%s = %d, want %d", name, values[name], percent)
		}
	}
}

func TestParseSplitEmptyMeansUnset(t *testing.T) {
	values, err := parseSplit("", "difficulty", difficultyLevels)
	if err != nil {
		t.Fatalf("parseSplit: %v", err)
	}
	if values != nil {
		t.Errorf("values = %v, want nil", values)
	}
}

func TestParseSplitRejectsBadSum(t *testing.T) {
	_, err := parseSplit("easy=30,medium=50", "difficulty", difficultyLevels)
	if err == nil {
		t.Fatal("expected error for sum != 100")
	}
	var commandError *cli.CommandError
	if !errors.As(err, &commandError) || commandError.Category != cli.CategoryValidation {
		t.Errorf("error %v is not a validation error", err)
	}
}

func TestParseSplitRejectsUnknownBucket(t *testing.T) {
	_, err := parseSplit("easy=50,impossible=50", "difficulty", difficultyLevels)
	if err == nil {
		t.Fatal("expected error for unknown bucket")
	}
}

func TestParseSplitRejectsDuplicateBucket(t *testing.T) {
	_, err := parseSplit("easy=50,easy=50", "difficulty", difficultyLevels)
	if err == nil {
		t.Fatal("expected error for duplicate bucket")
	}
}

func TestParseSplitRejectsMalformedPair(t *testing.T) {
	_, err := parseSplit("easy:50", "difficulty", difficultyLevels)
	if err == nil {
		t.Fatal("expected error for malformed pair")
	}
}

func TestParseSplitAllowsSpacesAroundPairs(t *testing.T) {
	values, err := parseSplit("easy=50, medium=50", "difficulty", difficultyLevels)
	if err != nil {
		t.Fatalf("parseSplit: %v", err)
	}
	if values["medium"] != 50 {
		t.Errorf("medium = %d, want 50", values["medium"])
	}
}
