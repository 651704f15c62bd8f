// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package livesync tracks one generation job in real time. It
// reconciles an initial REST snapshot against the job's streaming
// channel, maintains the bounded live feed of newly generated items,
// and drives the job-status state machine through to a single
// completion or failure signal.
package livesync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/quizforge/quizforge/lib/clock"
	"github.com/quizforge/quizforge/lib/qapi"
)

// FeedLimit is the maximum number of items held in the live feed.
// Older items fall out of the live view only; the backing store
// keeps everything.
const FeedLimit = 100

// DefaultGrace is how long the synchronizer holds a terminal
// completed/published status before signaling completion, so the
// final progress tick is visible before the view switches to review.
const DefaultGrace = 1500 * time.Millisecond

// Event is a notification from the synchronizer. The concrete types
// are Progress, FeedUpdated, Completed, Failed, and Disconnected.
type Event interface{ liveEvent() }

// Progress reports the merged job snapshot after an inbound message
// changed status, progress, or any counter.
type Progress struct{ Job qapi.GenerationJob }

// FeedUpdated reports the live feed after new items were appended.
// The slice is a copy ordered oldest to newest.
type FeedUpdated struct{ Items []qapi.DraftQuestionItem }

// Completed is emitted exactly once, after the grace period, when the
// job reaches completed or published.
type Completed struct{ JobID string }

// Failed is emitted exactly once, immediately, when the job reaches
// failed. Message is the server-supplied error when present.
type Failed struct {
	JobID   string
	Message string
}

// Disconnected reports that the streaming channel closed or errored.
// The workflow continues, with no automatic reconnect, and the
// caller downgrades the connection indicator.
type Disconnected struct{ Err error }

func (Progress) liveEvent()     {}
func (FeedUpdated) liveEvent()  {}
func (Completed) liveEvent()    {}
func (Failed) liveEvent()       {}
func (Disconnected) liveEvent() {}

// Config configures a Synchronizer.
type Config struct {
	// Client is the backend API client. Required.
	Client *qapi.Client

	// Clock drives the completion grace period. Nil means the real
	// clock.
	Clock clock.Clock

	// Grace overrides DefaultGrace when positive.
	Grace time.Duration

	// Logger is used for structured logging. Nil means slog.Default().
	Logger *slog.Logger
}

// Synchronizer owns the live view of one job. Create with New, start
// with Attach, and stop with Close when the owning view is torn down.
//
// All state mutation happens on a single goroutine; inbound messages
// are applied strictly in arrival order, and each message is a
// partial update merged into the snapshot, never a replacement.
type Synchronizer struct {
	client *qapi.Client
	clock  clock.Clock
	grace  time.Duration
	logger *slog.Logger

	cancel context.CancelFunc
	events chan Event

	// State below is owned by the run goroutine after Attach.
	job       qapi.GenerationJob
	feed      []qapi.DraftQuestionItem
	seen      map[int64]bool
	completed bool
	failed    bool
	readErr   error
}

// New creates a Synchronizer.
func New(config Config) (*Synchronizer, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("livesync: client is required")
	}
	timeSource := config.Clock
	if timeSource == nil {
		timeSource = clock.Real()
	}
	grace := config.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		client: config.Client,
		clock:  timeSource,
		grace:  grace,
		logger: logger,
		events: make(chan Event, 128),
		seen:   make(map[int64]bool),
	}, nil
}

// Attach seeds the feed from a REST snapshot and opens the job's
// streaming channel. The returned channel delivers events until the
// context is cancelled or Close is called, after which it is closed.
//
// For a job past queued (the page-reload case, where generation is
// already under way) up to FeedLimit existing items are fetched first
// so the live view does not start empty.
func (s *Synchronizer) Attach(ctx context.Context, job qapi.GenerationJob) (<-chan Event, error) {
	s.job = job

	if job.Status != qapi.JobQueued {
		page, err := s.client.Items(ctx, job.ID, qapi.ItemFilter{}, 0, FeedLimit)
		if err != nil {
			return nil, fmt.Errorf("livesync: seeding feed for job %s: %w", job.ID, err)
		}
		for _, item := range page.Items {
			s.appendItem(item)
		}
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	body, err := s.openStream(streamCtx, job.ID)
	if err != nil {
		cancel()
		return nil, err
	}

	raw := make(chan qapi.StreamMessage)
	go s.readStream(streamCtx, body, raw)
	go s.run(streamCtx, raw)

	return s.events, nil
}

// Close tears down the stream and closes the event channel. Safe to
// call once, at view unmount.
func (s *Synchronizer) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// openStream connects to the job's SSE endpoint. The shared secret is
// already embedded in the URL as a query parameter.
func (s *Synchronizer) openStream(ctx context.Context, jobID string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.StreamURL(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("livesync: creating stream request: %w", err)
	}
	request.Header.Set("Accept", "text/event-stream")

	response, err := s.client.HTTPClient().Do(request)
	if err != nil {
		return nil, fmt.Errorf("livesync: opening stream for job %s: %w", jobID, err)
	}
	if response.StatusCode != http.StatusOK {
		response.Body.Close()
		return nil, fmt.Errorf("livesync: stream for job %s returned %d", jobID, response.StatusCode)
	}
	return response, nil
}

// readStream decodes SSE payloads into StreamMessages and hands them
// to the run goroutine. Runs until the stream ends; any terminal
// error is stored in readErr before raw closes, which orders it
// before the run goroutine's Disconnected event.
func (s *Synchronizer) readStream(ctx context.Context, response *http.Response, raw chan<- qapi.StreamMessage) {
	defer close(raw)
	defer response.Body.Close()

	scanner := newSSEScanner(response.Body)
	for scanner.Next() {
		var message qapi.StreamMessage
		if err := json.Unmarshal([]byte(scanner.Data()), &message); err != nil {
			s.logger.Warn("discarding malformed stream message",
				"job_id", s.job.ID,
				"error", err,
			)
			continue
		}
		select {
		case raw <- message:
		case <-ctx.Done():
			return
		}
	}
	s.readErr = scanner.Err()
}

// run is the single goroutine that owns all synchronizer state. It
// merges inbound messages in arrival order, arms the grace timer on a
// terminal success status, and emits the completion or failure signal
// exactly once.
func (s *Synchronizer) run(ctx context.Context, raw <-chan qapi.StreamMessage) {
	defer close(s.events)

	// Deliver the seeded feed so a subscriber attaching to an
	// in-progress job does not start from an empty view.
	if len(s.feed) > 0 {
		feed := make([]qapi.DraftQuestionItem, len(s.feed))
		copy(feed, s.feed)
		s.emit(ctx, FeedUpdated{Items: feed})
	}

	var graceFire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case message, ok := <-raw:
			if !ok {
				raw = nil
				// No automatic reconnect: the indicator downgrades
				// and the workflow continues on REST alone. A close
				// with the grace timer armed is the server hanging
				// up after a finished job, not a drop, so the
				// completion signal stands alone.
				if !s.completed && !s.failed && graceFire == nil {
					s.emit(ctx, Disconnected{Err: s.readErr})
				}
				continue
			}
			if fire := s.apply(ctx, message); fire {
				if graceFire == nil && !s.completed {
					graceFire = s.clock.After(s.grace)
				}
			}
			if s.failed {
				graceFire = nil
			}

		case <-graceFire:
			graceFire = nil
			if s.completed || s.failed {
				continue
			}
			s.completed = true
			s.emit(ctx, Completed{JobID: s.job.ID})
		}
	}
}

// apply merges one partial message into the job snapshot and the
// feed. Returns true when the new status calls for the completion
// grace timer.
func (s *Synchronizer) apply(ctx context.Context, message qapi.StreamMessage) (armGrace bool) {
	changed := false

	if message.Status != nil && *message.Status != s.job.Status {
		from := s.job.Status
		s.job.Status = *message.Status
		changed = true
		s.logger.Info("job status transition",
			"job_id", s.job.ID,
			"from", from,
			"to", s.job.Status,
		)

		switch s.job.Status {
		case qapi.JobCompleted, qapi.JobPublished:
			armGrace = true
		case qapi.JobFailed:
			if !s.failed {
				s.failed = true
				failure := Failed{JobID: s.job.ID, Message: "question generation failed"}
				if message.Error != nil && *message.Error != "" {
					failure.Message = *message.Error
				} else if s.job.Error != "" {
					failure.Message = s.job.Error
				}
				s.emit(ctx, failure)
			}
		}
	}
	if message.Error != nil {
		s.job.Error = *message.Error
	}
	if message.ProgressPercent != nil {
		s.job.ProgressPercent = *message.ProgressPercent
		changed = true
	}
	if message.GeneratedCount != nil {
		s.job.GeneratedCount = *message.GeneratedCount
		changed = true
	}
	if message.PassedCount != nil {
		s.job.PassedCount = *message.PassedCount
		changed = true
	}
	if message.FailedCount != nil {
		s.job.FailedCount = *message.FailedCount
		changed = true
	}

	if changed {
		s.emit(ctx, Progress{Job: s.job})
	}

	if len(message.NewItems) > 0 {
		appended := false
		for _, item := range message.NewItems {
			if s.appendItem(item) {
				appended = true
			}
		}
		if appended {
			feed := make([]qapi.DraftQuestionItem, len(s.feed))
			copy(feed, s.feed)
			s.emit(ctx, FeedUpdated{Items: feed})
		}
	}

	return armGrace
}

// appendItem adds an item to the feed unless its id is already held,
// then truncates to the most recent FeedLimit entries. Returns true
// when the feed changed.
func (s *Synchronizer) appendItem(item qapi.DraftQuestionItem) bool {
	if s.seen[item.ID] {
		return false
	}
	s.seen[item.ID] = true
	s.feed = append(s.feed, item)
	if len(s.feed) > FeedLimit {
		s.feed = s.feed[len(s.feed)-FeedLimit:]
	}
	return true
}

func (s *Synchronizer) emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}
