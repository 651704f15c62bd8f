// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package livesync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quizforge/quizforge/lib/clock"
	"github.com/quizforge/quizforge/lib/qapi"
	"github.com/quizforge/quizforge/lib/session"
	"github.com/quizforge/quizforge/lib/testutil"
)

// jobServer stubs the backend: a REST items endpoint for feed seeding
// and an SSE stream endpoint fed from the messages channel. Closing
// messages ends the stream, which is how tests simulate a transport
// drop.
type jobServer struct {
	server   *httptest.Server
	messages chan string
	seed     []qapi.DraftQuestionItem
}

func newJobServer(t *testing.T) *jobServer {
	t.Helper()
	js := &jobServer{messages: make(chan string)}
	js.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/stream"):
			w.Header().Set("Content-Type", "text/event-stream")
			flusher := w.(http.Flusher)
			flusher.Flush()
			for {
				select {
				case message, ok := <-js.messages:
					if !ok {
						return
					}
					fmt.Fprintf(w, "data: %s\n\n", message)
					flusher.Flush()
				case <-r.Context().Done():
					// Client hung up; stop so server.Close can finish.
					return
				}
			}
		case strings.HasSuffix(r.URL.Path, "/items"):
			json.NewEncoder(w).Encode(qapi.ItemPage{Items: js.seed, Total: len(js.seed)})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(js.server.Close)
	return js
}

func (js *jobServer) client(t *testing.T) *qapi.Client {
	t.Helper()
	sessions := session.NewStore(t.TempDir())
	if err := sessions.Load(); err != nil {
		t.Fatalf("loading session store: %v", err)
	}
	client, err := qapi.NewClient(qapi.Config{
		BaseURL:   js.server.URL,
		AccessKey: "k",
		Sessions:  sessions,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func (js *jobServer) send(t *testing.T, message qapi.StreamMessage) {
	t.Helper()
	data, err := json.Marshal(message)
	if err != nil {
		t.Fatalf("encoding stream message: %v", err)
	}
	testutil.RequireSend(t, js.messages, string(data), 5*time.Second, "sending stream message")
}

// attach starts a synchronizer against the stub for a job in the
// given state.
func attach(t *testing.T, js *jobServer, timeSource clock.Clock, status qapi.JobStatus) (*Synchronizer, <-chan Event) {
	t.Helper()
	sync, err := New(Config{Client: js.client(t), Clock: timeSource, Grace: DefaultGrace})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	events, err := sync.Attach(context.Background(), qapi.GenerationJob{
		ID:             "job-1",
		Status:         status,
		RequestedCount: 10,
	})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(sync.Close)
	return sync, events
}

// nextOfType drains events until one of type T arrives.
func nextOfType[T Event](t *testing.T, events <-chan Event) T {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatalf("event channel closed while waiting for %T", *new(T))
			}
			if typed, match := event.(T); match {
				return typed
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %T", *new(T))
		}
	}
}

func itemID(id int64) qapi.DraftQuestionItem {
	return qapi.DraftQuestionItem{ID: id, JobID: "job-1", Question: fmt.Sprintf("q%d", id)}
}

func intRef(v int) *int                      { return &v }
func statusRef(s qapi.JobStatus) *qapi.JobStatus { return &s }
func strRef(s string) *string                { return &s }

func TestDuplicateItemsDeduplicated(t *testing.T) {
	js := newJobServer(t)
	_, events := attach(t, js, clock.Real(), qapi.JobQueued)

	js.send(t, qapi.StreamMessage{
		Status:         statusRef(qapi.JobRunning),
		GeneratedCount: intRef(3),
		NewItems:       []qapi.DraftQuestionItem{itemID(1)},
	})
	feed := nextOfType[FeedUpdated](t, events)
	if len(feed.Items) != 1 {
		t.Fatalf("feed length = %d, want 1", len(feed.Items))
	}

	// A duplicate of item 1 alongside a genuinely new item: only the
	// new item changes the feed.
	js.send(t, qapi.StreamMessage{NewItems: []qapi.DraftQuestionItem{itemID(1), itemID(2)}})
	feed = nextOfType[FeedUpdated](t, events)
	if len(feed.Items) != 2 {
		t.Fatalf("feed length = %d, want 2 after duplicate discarded", len(feed.Items))
	}
	if feed.Items[0].ID != 1 || feed.Items[1].ID != 2 {
		t.Errorf("feed order = %v, want [1 2]", []int64{feed.Items[0].ID, feed.Items[1].ID})
	}
}

func TestFeedBoundedAtLimit(t *testing.T) {
	js := newJobServer(t)
	_, events := attach(t, js, clock.Real(), qapi.JobQueued)

	var feed FeedUpdated
	for batch := 0; batch < 12; batch++ {
		items := make([]qapi.DraftQuestionItem, 10)
		for i := range items {
			items[i] = itemID(int64(batch*10 + i))
		}
		js.send(t, qapi.StreamMessage{NewItems: items})
		feed = nextOfType[FeedUpdated](t, events)
	}

	if len(feed.Items) != FeedLimit {
		t.Fatalf("feed length = %d, want %d", len(feed.Items), FeedLimit)
	}
	// Oldest entries dropped, newest kept.
	if feed.Items[0].ID != 20 || feed.Items[len(feed.Items)-1].ID != 119 {
		t.Errorf("feed window = [%d..%d], want [20..119]",
			feed.Items[0].ID, feed.Items[len(feed.Items)-1].ID)
	}
	ids := make(map[int64]bool)
	for _, item := range feed.Items {
		if ids[item.ID] {
			t.Fatalf("duplicate item %d in feed", item.ID)
		}
		ids[item.ID] = true
	}
}

func TestPartialMessageMergesNotReplaces(t *testing.T) {
	js := newJobServer(t)
	_, events := attach(t, js, clock.Real(), qapi.JobQueued)

	js.send(t, qapi.StreamMessage{Status: statusRef(qapi.JobRunning), ProgressPercent: intRef(40)})
	progress := nextOfType[Progress](t, events)
	if progress.Job.Status != qapi.JobRunning || progress.Job.ProgressPercent != 40 {
		t.Fatalf("snapshot = %+v", progress.Job)
	}

	// Counter-only update must leave status and progress intact.
	js.send(t, qapi.StreamMessage{GeneratedCount: intRef(4)})
	progress = nextOfType[Progress](t, events)
	if progress.Job.Status != qapi.JobRunning || progress.Job.ProgressPercent != 40 || progress.Job.GeneratedCount != 4 {
		t.Errorf("merged snapshot = %+v, want status and progress preserved", progress.Job)
	}
}

func TestFailureSignaledOnceWithServerMessage(t *testing.T) {
	js := newJobServer(t)
	sync, events := attach(t, js, clock.Real(), qapi.JobRunning)

	js.send(t, qapi.StreamMessage{
		Status: statusRef(qapi.JobFailed),
		Error:  strRef("model quota exhausted"),
	})
	failure := nextOfType[Failed](t, events)
	if failure.Message != "model quota exhausted" {
		t.Errorf("failure message = %q, want server message", failure.Message)
	}

	close(js.messages)
	sync.Close()
	for event := range events {
		switch event.(type) {
		case Failed:
			t.Error("second failure signal emitted")
		case Completed:
			t.Error("completion signal after failure")
		}
	}
}

func TestCompletionWaitsForGracePeriod(t *testing.T) {
	js := newJobServer(t)
	fake := clock.Fake(time.Unix(0, 0))
	sync, events := attach(t, js, fake, qapi.JobRunning)

	js.send(t, qapi.StreamMessage{Status: statusRef(qapi.JobCompleted), ProgressPercent: intRef(100)})
	progress := nextOfType[Progress](t, events)
	if progress.Job.Status != qapi.JobCompleted {
		t.Fatalf("status = %s, want completed", progress.Job.Status)
	}

	// Nothing fires until the clock passes the grace deadline.
	select {
	case event := <-events:
		if _, early := event.(Completed); early {
			t.Fatal("completion signaled before the grace period")
		}
	case <-time.After(100 * time.Millisecond):
	}

	fake.WaitForTimers(1)
	fake.Advance(DefaultGrace)
	completion := nextOfType[Completed](t, events)
	if completion.JobID != "job-1" {
		t.Errorf("completion job = %q", completion.JobID)
	}

	// A follow-up published transition must not signal again.
	js.send(t, qapi.StreamMessage{Status: statusRef(qapi.JobPublished)})
	nextOfType[Progress](t, events)

	close(js.messages)
	sync.Close()
	for event := range events {
		if _, extra := event.(Completed); extra {
			t.Error("completion signaled more than once")
		}
	}
}

func TestStreamDropSignalsDisconnectedOnly(t *testing.T) {
	js := newJobServer(t)
	sync, events := attach(t, js, clock.Real(), qapi.JobRunning)

	js.send(t, qapi.StreamMessage{ProgressPercent: intRef(10)})
	nextOfType[Progress](t, events)

	close(js.messages)
	nextOfType[Disconnected](t, events)

	// The workflow is still alive: the channel stays open until the
	// owner closes the view.
	select {
	case _, ok := <-events:
		if !ok {
			t.Fatal("event channel closed by a transport drop")
		}
	case <-time.After(100 * time.Millisecond):
	}
	sync.Close()
}

func TestAttachContextCancelTearsDown(t *testing.T) {
	js := newJobServer(t)
	sync, err := New(Config{Client: js.client(t), Clock: clock.Real(), Grace: DefaultGrace})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	events, err := sync.Attach(ctx, qapi.GenerationJob{
		ID:             "job-1",
		Status:         qapi.JobRunning,
		RequestedCount: 10,
	})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	js.send(t, qapi.StreamMessage{ProgressPercent: intRef(10)})
	nextOfType[Progress](t, events)

	// Cancelling the attach context must end the stream and close
	// the event channel, same as Close.
	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				close(js.messages)
				return
			}
		case <-deadline:
			t.Fatal("event channel still open after context cancel")
		}
	}
}

func TestStreamCloseDuringGraceKeepsCompletion(t *testing.T) {
	js := newJobServer(t)
	fake := clock.Fake(time.Unix(0, 0))
	sync, events := attach(t, js, fake, qapi.JobRunning)

	js.send(t, qapi.StreamMessage{Status: statusRef(qapi.JobCompleted), ProgressPercent: intRef(100)})
	nextOfType[Progress](t, events)

	// The server hangs up right after the terminal status, before
	// the grace deadline. That is a finished job, not a drop.
	fake.WaitForTimers(1)
	close(js.messages)

	fake.Advance(DefaultGrace)
	deadline := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatal("event channel closed before the completion signal")
			}
			switch event.(type) {
			case Disconnected:
				t.Fatal("hang-up after a finished job reported as a drop")
			case Completed:
				sync.Close()
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for the completion signal")
		}
	}
}

func TestAttachSeedsFeedForInProgressJob(t *testing.T) {
	js := newJobServer(t)
	js.seed = []qapi.DraftQuestionItem{itemID(1), itemID(2), itemID(3)}
	_, events := attach(t, js, clock.Real(), qapi.JobRunning)

	feed := nextOfType[FeedUpdated](t, events)
	if len(feed.Items) != 3 {
		t.Fatalf("seeded feed length = %d, want 3", len(feed.Items))
	}

	// Streamed duplicates of seeded items are discarded.
	js.send(t, qapi.StreamMessage{NewItems: []qapi.DraftQuestionItem{itemID(2), itemID(4)}})
	feed = nextOfType[FeedUpdated](t, events)
	if len(feed.Items) != 4 {
		t.Errorf("feed length = %d, want 4", len(feed.Items))
	}
}
