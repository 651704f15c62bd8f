// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quizforge/quizforge/lib/clock"
	"github.com/quizforge/quizforge/lib/livesync"
	"github.com/quizforge/quizforge/lib/publish"
	"github.com/quizforge/quizforge/lib/qapi"
	"github.com/quizforge/quizforge/lib/review"
	"github.com/quizforge/quizforge/lib/session"
)

// reviewBackend is a minimal job backend: serves a fixed item set,
// records PATCH and publish calls.
type reviewBackend struct {
	mu         sync.Mutex
	items      []qapi.DraftQuestionItem
	patchCount int
	published  bool
}

func (backend *reviewBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs/{id}/items", func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		json.NewEncoder(w).Encode(qapi.ItemPage{Items: backend.items, Total: len(backend.items)})
	})
	mux.HandleFunc("PATCH /jobs/{id}/items/{item}", func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		backend.patchCount++
		json.NewEncoder(w).Encode(backend.items[0])
	})
	mux.HandleFunc("POST /jobs/{id}/items/bulk-update", func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		var request struct {
			ItemIDs []int64 `json:"item_ids"`
		}
		json.NewDecoder(r.Body).Decode(&request)
		json.NewEncoder(w).Encode(qapi.BulkUpdateResult{
			UpdatedCount:   len(request.ItemIDs),
			RequestedCount: len(request.ItemIDs),
		})
	})
	mux.HandleFunc("POST /jobs/{id}/publish", func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		backend.published = true
		json.NewEncoder(w).Encode(qapi.PublishResult{PublishedCount: 1})
	})
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(qapi.GenerationJob{ID: "job-1", Status: qapi.JobCompleted})
	})
	return mux
}

func (backend *reviewBackend) patches() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.patchCount
}

func (backend *reviewBackend) publishCalled() bool {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.published
}

func testItems() []qapi.DraftQuestionItem {
	return []qapi.DraftQuestionItem{
		{
			ID: 1, JobID: "job-1",
			Question:      "What does a mutex guard?",
			Options:       []string{"Shared state", "Stack frames", "Goroutine IDs", "Channels"},
			CorrectAnswer: "Shared state",
			Difficulty:    "easy",
			QCStatus:      qapi.QCPass,
			ReviewStatus:  qapi.ReviewPending,
		},
		{
			ID: 2, JobID: "job-1",
			Question:      "Which call closes a channel?",
			Options:       []string{"end(ch)", "close(ch)", "done(ch)", "stop(ch)"},
			CorrectAnswer: "close(ch)",
			Difficulty:    "medium",
			QCStatus:      qapi.QCPass,
			ReviewStatus:  qapi.ReviewPending,
		},
	}
}

// newTestModel builds a Model in review phase over a loaded pipeline.
func newTestModel(t *testing.T, backend *reviewBackend) (Model, *reviewBackend) {
	t.Helper()
	if backend == nil {
		backend = &reviewBackend{items: testItems()}
	}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	sessions := session.NewStore(t.TempDir())
	if err := sessions.Load(); err != nil {
		t.Fatalf("loading session store: %v", err)
	}
	client, err := qapi.NewClient(qapi.Config{
		BaseURL:   server.URL,
		AccessKey: "key",
		Sessions:  sessions,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	pipeline := review.NewPipeline(client, "job-1", nil)
	if err := pipeline.Load(t.Context()); err != nil {
		t.Fatalf("pipeline load: %v", err)
	}

	model := NewModel(ModelConfig{
		Client:    client,
		Pipeline:  pipeline,
		Publisher: publish.NewCoordinator(client, nil),
		Job:       qapi.GenerationJob{ID: "job-1", Status: qapi.JobCompleted, Subject: "Go"},
		Clock:     clock.Fake(time.Unix(100, 0)),
	})
	model.loadingItems = false
	model.width = 120
	model.height = 40
	model.ready = true
	return model, backend
}

func keyRune(character rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{character}}
}

func update(t *testing.T, model Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(message)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return next, cmd
}

func TestApproveKeySendsPatch(t *testing.T) {
	model, backend := newTestModel(t, nil)

	model, cmd := update(t, model, keyRune('a'))
	if cmd == nil {
		t.Fatal("approve key produced no command")
	}
	message := cmd()
	result, ok := message.(mutationResultMsg)
	if !ok {
		t.Fatalf("approve command returned %T, want mutationResultMsg", message)
	}
	if result.err != nil {
		t.Fatalf("approve failed: %v", result.err)
	}
	if backend.patches() != 1 {
		t.Errorf("patch count = %d, want 1", backend.patches())
	}
}

func TestRejectModalCapturesMnemonics(t *testing.T) {
	model, backend := newTestModel(t, nil)

	model, _ = update(t, model, keyRune('r'))
	if model.focusRegion != FocusRejectModal {
		t.Fatalf("focus = %v, want FocusRejectModal", model.focusRegion)
	}

	// Mnemonic keys must not fire while the modal is open: 'a' is
	// checklist input, 'q' must not quit.
	model, cmd := update(t, model, keyRune('a'))
	if cmd != nil {
		t.Error("'a' inside the reject modal produced a command")
	}
	model, cmd = update(t, model, keyRune('q'))
	if cmd != nil {
		t.Error("'q' inside the reject modal produced a command")
	}
	if model.focusRegion != FocusRejectModal {
		t.Error("modal lost focus to a mnemonic key")
	}
	if backend.patches() != 0 {
		t.Errorf("patch count = %d, want 0", backend.patches())
	}
}

func TestRejectSubmitRequiresReason(t *testing.T) {
	model, _ := newTestModel(t, nil)

	model, _ = update(t, model, keyRune('r'))
	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyCtrlD})
	if cmd != nil {
		t.Error("submit with no reason produced a command")
	}
	if model.rejectModal == nil || model.focusRegion != FocusRejectModal {
		t.Error("modal closed despite failing validation")
	}

	// Toggle the first reason, then submit goes through.
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeySpace})
	model, cmd = update(t, model, tea.KeyMsg{Type: tea.KeyCtrlD})
	if cmd == nil {
		t.Fatal("submit with a reason produced no command")
	}
	if model.rejectModal != nil {
		t.Error("modal still open after submit")
	}
	if result := cmd(); result.(mutationResultMsg).err != nil {
		t.Errorf("reject failed: %v", result.(mutationResultMsg).err)
	}
}

func TestFilterCycleReviewAxis(t *testing.T) {
	model, _ := newTestModel(t, nil)

	want := []qapi.ReviewStatus{qapi.ReviewApproved, qapi.ReviewRejected, "", qapi.ReviewPending}
	for _, expected := range want {
		model, _ = update(t, model, keyRune('f'))
		if got := model.pipeline.Filter().Review; got != expected {
			t.Fatalf("filter review axis = %q, want %q", got, expected)
		}
	}
}

func TestStaleFadeDoesNotClearNewerNotice(t *testing.T) {
	model, _ := newTestModel(t, nil)

	model.setNotice("first", false)
	staleSeq := model.statusSeq
	model.setNotice("second", false)

	model, _ = update(t, model, statusFadeMsg{seq: staleSeq})
	if model.statusNotice != "second" {
		t.Errorf("notice = %q, want %q (stale fade must be ignored)", model.statusNotice, "second")
	}

	model, _ = update(t, model, statusFadeMsg{seq: model.statusSeq})
	if model.statusNotice != "" {
		t.Errorf("notice = %q, want cleared", model.statusNotice)
	}
}

func TestResultsAfterQuitDiscarded(t *testing.T) {
	model, _ := newTestModel(t, nil)

	model, cmd := update(t, model, keyRune('q'))
	if cmd == nil {
		t.Fatal("quit key produced no command")
	}

	model, _ = update(t, model, mutationResultMsg{err: http.ErrHandlerTimeout})
	if model.statusNotice != "" {
		t.Errorf("notice = %q, want empty after teardown", model.statusNotice)
	}
}

func TestCompletedEventSwitchesPhase(t *testing.T) {
	model, _ := newTestModel(t, nil)
	events := make(chan livesync.Event, 1)
	model.events = events
	model.phase = PhaseLive

	model, cmd := update(t, model, syncEventMsg{event: livesync.Completed{JobID: "job-1"}})
	if model.phase != PhaseReview {
		t.Errorf("phase = %v, want PhaseReview", model.phase)
	}
	if cmd == nil {
		t.Error("phase switch produced no follow-up commands")
	}
}

func TestFailedEventKeepsLiveViewWithMessage(t *testing.T) {
	model, _ := newTestModel(t, nil)
	events := make(chan livesync.Event, 1)
	model.events = events
	model.phase = PhaseLive

	model, _ = update(t, model, syncEventMsg{event: livesync.Failed{JobID: "job-1", Message: "generator crashed"}})
	if model.phase != PhaseLive {
		t.Errorf("phase = %v, want PhaseLive", model.phase)
	}
	if !strings.Contains(model.View(), "generator crashed") {
		t.Error("failure message missing from live view")
	}
}

func TestPublishGuardedByConfirm(t *testing.T) {
	model, backend := newTestModel(t, nil)

	model, _ = update(t, model, keyRune('P'))
	if model.focusRegion != FocusConfirm {
		t.Fatalf("focus = %v, want FocusConfirm", model.focusRegion)
	}

	// Decline: nothing published.
	model, cmd := update(t, model, keyRune('n'))
	if cmd != nil {
		t.Error("declined confirm produced a command")
	}
	if model.confirm != nil {
		t.Error("confirm dialog still open after decline")
	}

	// Confirm path.
	model, _ = update(t, model, keyRune('P'))
	model, cmd = update(t, model, keyRune('y'))
	if cmd == nil {
		t.Fatal("confirmed publish produced no command")
	}
	message := cmd()
	result, ok := message.(publishResultMsg)
	if !ok {
		t.Fatalf("publish command returned %T, want publishResultMsg", message)
	}
	if result.err != nil {
		t.Fatalf("publish failed: %v", result.err)
	}
	if !backend.publishCalled() {
		t.Error("backend never saw the publish call")
	}
}

func TestApproveAllUsesUnfilteredPending(t *testing.T) {
	items := testItems()
	items[1].ReviewStatus = qapi.ReviewRejected
	backend := &reviewBackend{items: items}
	model, _ := newTestModel(t, backend)

	// Narrow the filter to rejected items only; approve-all must
	// still target the pending item hidden by the filter.
	filter := model.pipeline.Filter()
	filter.Review = qapi.ReviewRejected
	model.pipeline.SetFilter(filter)

	model, _ = update(t, model, keyRune('A'))
	if model.focusRegion != FocusConfirm {
		t.Fatalf("focus = %v, want FocusConfirm", model.focusRegion)
	}
	if !strings.Contains(model.confirm.body, "1 pending") {
		t.Errorf("confirm body %q does not count the hidden pending item", model.confirm.body)
	}
}

func TestEditModalPrefillsCurrentValue(t *testing.T) {
	model, _ := newTestModel(t, nil)

	model, _ = update(t, model, keyRune('e'))
	if model.focusRegion != FocusEditModal {
		t.Fatalf("focus = %v, want FocusEditModal", model.focusRegion)
	}
	if got := model.editModal.Value(); got != "What does a mutex guard?" {
		t.Errorf("edit modal value = %q", got)
	}

	// Escape discards without a mutation.
	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("cancelled edit produced a command")
	}
	if model.editModal != nil {
		t.Error("edit modal still open after escape")
	}
}

func TestPollRefreshesJobInReviewPhase(t *testing.T) {
	model, _ := newTestModel(t, nil)

	model, cmd := update(t, model, pollTickMsg{})
	if cmd == nil {
		t.Fatal("poll tick produced no command")
	}
}

func TestApproveMutatesStateInUpdateNotInCommand(t *testing.T) {
	model, backend := newTestModel(t, nil)

	model, cmd := update(t, model, keyRune('a'))
	if cmd == nil {
		t.Fatal("approve key produced no command")
	}

	// The local change lands synchronously in Update; the command
	// only persists it.
	item, _ := model.pipeline.Item(1)
	if item.ReviewStatus != qapi.ReviewApproved {
		t.Fatalf("status = %s, want approved before the command runs", item.ReviewStatus)
	}
	if backend.patches() != 0 {
		t.Fatalf("patch count = %d before the command runs, want 0", backend.patches())
	}

	// Running the persist command while the program goroutine keeps
	// rendering and navigating must be safe: the command touches no
	// pipeline state.
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	for range 50 {
		model.View()
		model.pipeline.Filtered()
		model.pipeline.Next()
		model.pipeline.Previous()
	}
	result := <-done
	if err := result.(mutationResultMsg).err; err != nil {
		t.Fatalf("persist failed: %v", err)
	}
	if backend.patches() != 1 {
		t.Errorf("patch count = %d, want 1", backend.patches())
	}
}

func TestBulkApproveMutatesStateInUpdate(t *testing.T) {
	model, _ := newTestModel(t, nil)

	model, _ = update(t, model, keyRune('A'))
	if model.focusRegion != FocusConfirm {
		t.Fatalf("focus = %v, want FocusConfirm", model.focusRegion)
	}
	model, cmd := update(t, model, keyRune('y'))
	if cmd == nil {
		t.Fatal("confirmed approve-all produced no command")
	}

	// Both items flip to approved before the bulk request runs.
	for _, itemID := range []int64{1, 2} {
		item, _ := model.pipeline.Item(itemID)
		if item.ReviewStatus != qapi.ReviewApproved {
			t.Errorf("item %d status = %s, want approved before the command runs", itemID, item.ReviewStatus)
		}
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	for range 50 {
		model.View()
		model.pipeline.Filtered()
	}
	result := <-done
	if err := result.(bulkResultMsg).err; err != nil {
		t.Fatalf("bulk persist failed: %v", err)
	}
}

func TestInitArmsPollInLivePhase(t *testing.T) {
	model, _ := newTestModel(t, nil)
	fake := clock.Fake(time.Unix(100, 0))
	model.clock = fake
	model.events = make(chan livesync.Event, 1)
	model.phase = PhaseLive

	if cmd := model.Init(); cmd == nil {
		t.Fatal("Init produced no commands")
	}
	// Init must register the poll timer even on the live screen;
	// without it a dropped stream would never notice the job
	// finishing. WaitForTimers returns once the timer exists.
	fake.WaitForTimers(1)
}

func TestPollRecoversDroppedStream(t *testing.T) {
	model, _ := newTestModel(t, nil)
	model.events = make(chan livesync.Event, 1)
	model.phase = PhaseLive
	model.job.Status = qapi.JobRunning
	model.disconnected = true

	model, cmd := update(t, model, pollTickMsg{})
	if cmd == nil {
		t.Fatal("poll tick in live phase produced no command")
	}

	job := qapi.GenerationJob{ID: "job-1", Status: qapi.JobCompleted, Subject: "Go"}
	model, cmd = update(t, model, jobRefreshedMsg{job: &job})
	if model.phase != PhaseReview {
		t.Errorf("phase = %v, want PhaseReview after polled completion", model.phase)
	}
	if !model.loadingItems {
		t.Error("loadingItems not set for the post-switch reload")
	}
	if cmd == nil {
		t.Error("phase switch produced no reload command")
	}
}

func TestPolledCompletionDefersToHealthyStream(t *testing.T) {
	model, _ := newTestModel(t, nil)
	model.events = make(chan livesync.Event, 1)
	model.phase = PhaseLive
	model.job.Status = qapi.JobRunning

	// With the stream still up, the synchronizer owns the phase
	// switch (it applies the grace period first).
	job := qapi.GenerationJob{ID: "job-1", Status: qapi.JobCompleted}
	model, _ = update(t, model, jobRefreshedMsg{job: &job})
	if model.phase != PhaseLive {
		t.Errorf("phase = %v, want PhaseLive while the stream is healthy", model.phase)
	}
}

func TestPolledFailureSurfacesInLiveView(t *testing.T) {
	model, _ := newTestModel(t, nil)
	model.events = make(chan livesync.Event, 1)
	model.phase = PhaseLive
	model.job.Status = qapi.JobRunning
	model.disconnected = true

	job := qapi.GenerationJob{ID: "job-1", Status: qapi.JobFailed, Error: "generator quota exhausted"}
	model, _ = update(t, model, jobRefreshedMsg{job: &job})
	if model.phase != PhaseLive {
		t.Errorf("phase = %v, want PhaseLive", model.phase)
	}
	if !strings.Contains(model.View(), "generator quota exhausted") {
		t.Error("polled failure message missing from live view")
	}
}
