// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package qapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quizforge/quizforge/lib/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sessions := session.NewStore(t.TempDir())
	if err := sessions.Load(); err != nil {
		t.Fatalf("loading session store: %v", err)
	}
	client, err := NewClient(Config{
		BaseURL:   server.URL,
		AccessKey: "static-key",
		Sessions:  sessions,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, sessions
}

func TestAuthHeaderPrefersSessionToken(t *testing.T) {
	var gotAuth, gotKey string
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("X-Access-Key")
		json.NewEncoder(w).Encode(GenerationJob{ID: "job-1"})
	}))

	// No session: fall back to the static key.
	if _, err := client.Job(context.Background(), "job-1"); err != nil {
		t.Fatalf("Job: %v", err)
	}
	if gotAuth != "" || gotKey != "static-key" {
		t.Errorf("without session: Authorization=%q X-Access-Key=%q, want static key only", gotAuth, gotKey)
	}

	// With a session token: bearer header, no static key.
	if err := sessions.Set(session.Session{Token: "tok-9"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := client.Job(context.Background(), "job-1"); err != nil {
		t.Fatalf("Job: %v", err)
	}
	if gotAuth != "Bearer tok-9" || gotKey != "" {
		t.Errorf("with session: Authorization=%q X-Access-Key=%q, want bearer only", gotAuth, gotKey)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	if err := sessions.Set(session.Session{Token: "expired"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, err := client.Job(context.Background(), "job-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if sessions.Token() != "" {
		t.Error("session token survived a 401")
	}
}

func TestServerDetailSurfacedInError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "job already publishing"})
	}))

	_, err := client.Publish(context.Background(), "job-1", PublishAllApproved, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Detail != "job already publishing" {
		t.Errorf("APIError = %+v, want 409 with server detail", apiErr)
	}
}

func TestNonJSONErrorBodyUsedAsDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))

	_, err := client.Job(context.Background(), "job-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Detail != "upstream exploded" {
		t.Errorf("Detail = %q, want raw body", apiErr.Detail)
	}
}

func TestCreateJobValidationBlocksRequest(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	cases := []JobRequest{
		{Subject: "Physics", Chapter: "Optics", Count: 0, Requester: "r"},
		{Subject: "Physics", Chapter: "Optics", Count: 101, Requester: "r"},
		{Subject: "Physics", Chapter: "Optics", Count: 10, Requester: "r",
			DifficultyDistribution: map[string]int{"easy": 60, "hard": 30}},
		{Subject: "Physics", Chapter: "Optics", Count: 10, Requester: "r",
			Difficulty:             "easy",
			DifficultyDistribution: map[string]int{"easy": 100}},
	}
	for _, request := range cases {
		if _, err := client.CreateJob(context.Background(), request); err == nil {
			t.Errorf("CreateJob(%+v) succeeded, want validation error", request)
		}
	}
	if requests != 0 {
		t.Errorf("%d requests reached the server, want 0", requests)
	}
}

func TestBulkUpdatePayloadShape(t *testing.T) {
	var payload struct {
		ItemIDs []int64 `json:"item_ids"`
		Patch   struct {
			ReviewStatus ReviewStatus `json:"review_status"`
		} `json:"patch"`
	}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/items/bulk-update") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		json.NewEncoder(w).Encode(BulkUpdateResult{UpdatedCount: 2, RequestedCount: 3})
	}))

	result, err := client.BulkUpdateReview(context.Background(), "job-1", []int64{4, 5, 6}, ReviewApproved)
	if err != nil {
		t.Fatalf("BulkUpdateReview: %v", err)
	}
	if len(payload.ItemIDs) != 3 || payload.Patch.ReviewStatus != ReviewApproved {
		t.Errorf("payload = %+v, want 3 ids with approved patch", payload)
	}
	if result.UpdatedCount != 2 || result.RequestedCount != 3 {
		t.Errorf("result = %+v, want partial outcome preserved", result)
	}
}

func TestStreamURLCarriesSecretAsQuery(t *testing.T) {
	client, sessions := newTestClient(t, http.NotFoundHandler())

	if got := client.StreamURL("job-1"); !strings.Contains(got, "/jobs/job-1/stream?access_key=static-key") {
		t.Errorf("StreamURL without session = %q", got)
	}
	if err := sessions.Set(session.Session{Token: "tok"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := client.StreamURL("job-1"); !strings.Contains(got, "access_key=tok") {
		t.Errorf("StreamURL with session = %q, want session token", got)
	}
}

func TestDisplayClamping(t *testing.T) {
	job := GenerationJob{RequestedCount: 10, GeneratedCount: 12, ProgressPercent: 130}
	if got := job.DisplayGenerated(); got != 10 {
		t.Errorf("DisplayGenerated = %d, want clamp to requested", got)
	}
	if got := job.DisplayProgress(); got != 100 {
		t.Errorf("DisplayProgress = %d, want 100", got)
	}
	job.ProgressPercent = -5
	if got := job.DisplayProgress(); got != 0 {
		t.Errorf("DisplayProgress = %d, want 0", got)
	}
}
