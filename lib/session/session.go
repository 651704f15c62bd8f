// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package session persists the reviewer's authenticated session (API
// token and user identity) across QuizForge invocations.
//
// The store is an explicit dependency, constructed once and injected
// into the API client, rather than package-level state. Its
// lifecycle is: Load on startup, Set after login, Clear on logout or
// when the server rejects the token with a 401.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session is the persisted credential record.
type Session struct {
	// Token is the bearer token issued at login.
	Token string `json:"token"`

	// UserID and UserName identify the reviewer; UserName is shown in
	// posted comments.
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// Store reads and writes the session file. Safe for concurrent use:
// the API client may clear it from a request goroutine while the TUI
// reads it.
type Store struct {
	path string

	mu      sync.Mutex
	current Session
	loaded  bool
}

// NewStore creates a store backed by the session file under stateDir.
// Nothing is read until Load.
func NewStore(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, "session.json")}
}

// Load reads the session file. A missing file is not an error; the
// store is simply empty and calls fall back to the static access key.
func (store *Store) Load() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := os.ReadFile(store.path)
	if errors.Is(err, os.ErrNotExist) {
		store.current = Session{}
		store.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: reading %s: %w", store.path, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("session: parsing %s: %w", store.path, err)
	}
	store.current = session
	store.loaded = true
	return nil
}

// Set stores the session and persists it with owner-only permissions.
func (store *Store) Set(session Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("session: creating state dir: %w", err)
	}
	if err := os.WriteFile(store.path, data, 0o600); err != nil {
		return fmt.Errorf("session: writing %s: %w", store.path, err)
	}
	store.current = session
	store.loaded = true
	return nil
}

// Token returns the stored bearer token, or "" when no session is
// active.
func (store *Store) Token() string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.current.Token
}

// Current returns a copy of the stored session.
func (store *Store) Current() Session {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.current
}

// Clear wipes the in-memory session and removes the session file.
// Called on explicit logout and whenever the server answers 401;
// a rejected token can never become valid again.
func (store *Store) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.current = Session{}
	err := os.Remove(store.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: removing %s: %w", store.path, err)
	}
	return nil
}
