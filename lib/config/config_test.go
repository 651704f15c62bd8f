// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quizforge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: https://qforge.internal/api\n")
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Review.RefreshInterval.Std() != 30*time.Second {
		t.Errorf("refresh interval = %v, want default 30s", loaded.Review.RefreshInterval)
	}
	if loaded.Review.CompletionGrace.Std() != 1500*time.Millisecond {
		t.Errorf("completion grace = %v, want default 1.5s", loaded.Review.CompletionGrace)
	}
	if loaded.Paths.State == "" {
		t.Error("state dir default missing")
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://qforge.internal/api
  access_key: sekrit
review:
  completion_grace: 2s
  refresh_interval: 10s
`)
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.API.AccessKey != "sekrit" {
		t.Errorf("access key = %q", loaded.API.AccessKey)
	}
	if loaded.Review.CompletionGrace.Std() != 2*time.Second || loaded.Review.RefreshInterval.Std() != 10*time.Second {
		t.Errorf("review config = %+v", loaded.Review)
	}
}

func TestLoadFileRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, "paths:\n  state: /tmp/qf\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("config without api.base_url should fail validation")
	}
}

func TestLoadRequiresEnvVar(t *testing.T) {
	t.Setenv("QUIZFORGE_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Error("Load without QUIZFORGE_CONFIG should fail")
	}
}
