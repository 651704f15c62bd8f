// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeKeymap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keymap.jsonc")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing keymap: %v", err)
	}
	return path
}

func TestLoadKeyMapMissingFileUsesDefaults(t *testing.T) {
	keys, err := LoadKeyMap(filepath.Join(t.TempDir(), "absent.jsonc"))
	if err != nil {
		t.Fatalf("LoadKeyMap: %v", err)
	}
	if !slices.Equal(keys.Approve.Keys(), []string{"a"}) {
		t.Errorf("approve keys = %v, want default", keys.Approve.Keys())
	}
}

func TestLoadKeyMapOverridesWithComments(t *testing.T) {
	path := writeKeymap(t, `{
	// swap approve onto enter
	"approve": ["enter"],
	"quit": ["ctrl+q"],
}`)
	keys, err := LoadKeyMap(path)
	if err != nil {
		t.Fatalf("LoadKeyMap: %v", err)
	}
	if !slices.Equal(keys.Approve.Keys(), []string{"enter"}) {
		t.Errorf("approve keys = %v, want [enter]", keys.Approve.Keys())
	}
	if !slices.Equal(keys.Quit.Keys(), []string{"ctrl+q"}) {
		t.Errorf("quit keys = %v, want [ctrl+q]", keys.Quit.Keys())
	}
	// Untouched bindings keep their defaults.
	if !slices.Equal(keys.Reject.Keys(), []string{"r"}) {
		t.Errorf("reject keys = %v, want default", keys.Reject.Keys())
	}
}

func TestLoadKeyMapRejectsUnknownAction(t *testing.T) {
	path := writeKeymap(t, `{"aprove": ["a"]}`)
	if _, err := LoadKeyMap(path); err == nil {
		t.Error("typo'd action name should fail")
	}
}

func TestLoadKeyMapRejectsEmptyKeyList(t *testing.T) {
	path := writeKeymap(t, `{"approve": []}`)
	if _, err := LoadKeyMap(path); err == nil {
		t.Error("empty key list should fail")
	}
}
