// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package qapi is the typed client for the QuizForge generation
// backend. It owns request construction, auth-header attachment, and
// error normalization; everything above it (the live synchronizer, the
// review pipeline, the TUI) speaks these types and never touches HTTP.
package qapi

import (
	"fmt"
	"time"
)

// JobStatus is the generation-job lifecycle state. Transitions are
// queued → running → {completed | failed}, then
// completed → publishing → published. failed and published are
// terminal from the client's perspective; an external restart of a
// failed job re-enters queued.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobRunning    JobStatus = "running"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobPublishing JobStatus = "publishing"
	JobPublished  JobStatus = "published"
)

// Terminal reports whether no further status transitions can arrive
// without external intervention.
func (status JobStatus) Terminal() bool {
	return status == JobFailed || status == JobPublished
}

// QCStatus is the automated quality-check verdict assigned before any
// human sees the item.
type QCStatus string

const (
	QCPass QCStatus = "pass"
	QCFail QCStatus = "fail"
)

// ReviewStatus is the human verdict on an item. pending, approved,
// and rejected are all reachable from each other; a reviewer may
// re-approve a rejected item or reject a previously approved one.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether status is one of the three review states.
func (status ReviewStatus) Valid() bool {
	switch status {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// TokenUsage aggregates generation-model token consumption for a job.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerationJob is one generation batch request and its lifecycle
// record. Jobs are never deleted, only superseded.
type GenerationJob struct {
	ID              string     `json:"job_id"`
	Status          JobStatus  `json:"status"`
	BatchName       string     `json:"batch_name,omitempty"`
	Subject         string     `json:"subject,omitempty"`
	Chapter         string     `json:"chapter,omitempty"`
	RequestedCount  int        `json:"requested_count"`
	GeneratedCount  int        `json:"generated_count"`
	PassedCount     int        `json:"passed_count"`
	FailedCount     int        `json:"failed_count"`
	RetryCount      int        `json:"retry_count"`
	ProgressPercent int        `json:"progress_percent"`
	TokenUsage      TokenUsage `json:"token_usage"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Error           string     `json:"error,omitempty"`
}

// DisplayGenerated returns the generated count clamped to the
// requested count. The producer is expected to keep
// generated_count <= requested_count but does not guarantee it, so
// anything user-facing must clamp.
func (job *GenerationJob) DisplayGenerated() int {
	if job.RequestedCount > 0 && job.GeneratedCount > job.RequestedCount {
		return job.RequestedCount
	}
	return job.GeneratedCount
}

// DisplayProgress returns progress_percent clamped to [0, 100].
func (job *GenerationJob) DisplayProgress() int {
	switch {
	case job.ProgressPercent < 0:
		return 0
	case job.ProgressPercent > 100:
		return 100
	}
	return job.ProgressPercent
}

// DraftQuestionItem is one candidate multiple-choice question owned by
// exactly one job. Items are never deleted client-side: rejected items
// stay visible and filterable.
type DraftQuestionItem struct {
	ID                  int64        `json:"item_id"`
	JobID               string       `json:"job_id"`
	Question            string       `json:"question"`
	Options             []string     `json:"options"`
	CorrectAnswer       string       `json:"correct_answer"`
	Explanation         string       `json:"explanation"`
	Difficulty          string       `json:"difficulty"`
	CognitiveLevel      string       `json:"cognitive_level"`
	QuestionType        string       `json:"question_type"`
	QCStatus            QCStatus     `json:"qc_status"`
	ReviewStatus        ReviewStatus `json:"review_status"`
	Edited              bool         `json:"edited"`
	Published           bool         `json:"published"`
	PublishedQuestionID int64        `json:"published_question_id,omitempty"`
	RejectionReasons    []string     `json:"rejection_reasons,omitempty"`
	RejectionComment    string       `json:"rejection_comment,omitempty"`
}

// ReviewQueueEntry is a cross-job worklist record produced by an
// external assignment process. Read-only here.
type ReviewQueueEntry struct {
	ItemID     int64      `json:"item_id"`
	JobID      string     `json:"job_id"`
	Priority   string     `json:"priority"` // urgent, normal, low
	AssignedAt time.Time  `json:"assigned_at"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

// Comment is one entry in an item's discussion thread. ParentID, when
// set, points at the root comment this is a reply to. Comments are
// never edited or deleted.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ParentID  string    `json:"parent_id,omitempty"`
}

// JobRequest is the submission payload for a new generation job.
// Difficulty is either a single level or a percentage distribution,
// never both.
type JobRequest struct {
	Subject                  string         `json:"subject"`
	Chapter                  string         `json:"chapter"`
	Topic                    string         `json:"topic,omitempty"`
	Difficulty               string         `json:"difficulty,omitempty"`
	DifficultyDistribution   map[string]int `json:"difficulty_distribution,omitempty"`
	Count                    int            `json:"count"`
	Requester                string         `json:"requester"`
	CognitiveDistribution    map[string]int `json:"cognitive_distribution,omitempty"`
	QuestionTypeDistribution map[string]int `json:"question_type_distribution,omitempty"`
	Model                    string         `json:"model,omitempty"`
	BatchName                string         `json:"batch_name,omitempty"`
}

// Validate applies the client-side gates that must block a request
// before any network call: the count bounds and the
// distributions-sum-to-100 rule.
func (request *JobRequest) Validate() error {
	if request.Subject == "" {
		return fmt.Errorf("qapi: subject is required")
	}
	if request.Chapter == "" {
		return fmt.Errorf("qapi: chapter is required")
	}
	if request.Count < 1 || request.Count > 100 {
		return fmt.Errorf("qapi: count %d outside [1, 100]", request.Count)
	}
	if request.Difficulty != "" && len(request.DifficultyDistribution) > 0 {
		return fmt.Errorf("qapi: difficulty level and distribution are mutually exclusive")
	}
	for name, dist := range map[string]map[string]int{
		"difficulty":    request.DifficultyDistribution,
		"cognitive":     request.CognitiveDistribution,
		"question type": request.QuestionTypeDistribution,
	} {
		if len(dist) == 0 {
			continue
		}
		total := 0
		for _, percent := range dist {
			total += percent
		}
		if total != 100 {
			return fmt.Errorf("qapi: %s distribution sums to %d, want 100", name, total)
		}
	}
	return nil
}

// ItemFilter selects items along the two review axes. The zero value
// of either field means "any".
type ItemFilter struct {
	QCStatus     QCStatus
	ReviewStatus ReviewStatus
}

// ItemPage is one page of a job's items.
type ItemPage struct {
	Items []DraftQuestionItem `json:"items"`
	Total int                 `json:"total"`
}

// ItemPatch is a partial update of an item's mutable fields. Nil
// pointers (and nil slices) are omitted from the request entirely, so
// untouched fields are never overwritten.
type ItemPatch struct {
	Question         *string       `json:"question,omitempty"`
	Options          []string      `json:"options,omitempty"`
	CorrectAnswer    *string       `json:"correct_answer,omitempty"`
	Explanation      *string       `json:"explanation,omitempty"`
	ReviewStatus     *ReviewStatus `json:"review_status,omitempty"`
	RejectionReasons []string      `json:"rejection_reasons,omitempty"`
	RejectionComment *string       `json:"rejection_comment,omitempty"`
	Edited           *bool         `json:"edited,omitempty"`
}

// BulkUpdateResult reports how many of the requested items the server
// actually updated. A 2xx response with updated < requested is a
// partial outcome, not an error.
type BulkUpdateResult struct {
	UpdatedCount   int `json:"updated_count"`
	RequestedCount int `json:"requested_count"`
}

// PublishMode selects how the server resolves the publish set.
type PublishMode string

const (
	// PublishSelected publishes an explicit item-id list.
	PublishSelected PublishMode = "selected"
	// PublishAllApproved lets the server resolve the approved set at
	// publish time.
	PublishAllApproved PublishMode = "all_approved"
)

// PublishResult reports per-item publish outcomes as counts. A 2xx
// response is not unconditional success: callers must inspect
// FailedCount and SkippedCount.
type PublishResult struct {
	PublishedCount       int     `json:"published_count"`
	SkippedCount         int     `json:"skipped_count"`
	FailedCount          int     `json:"failed_count"`
	PublishedQuestionIDs []int64 `json:"published_question_ids"`
}

// StreamMessage is one inbound message on a job's live channel. Every
// field is optional: a message carries only what changed, and the
// consumer merges rather than replaces.
type StreamMessage struct {
	Status          *JobStatus          `json:"status,omitempty"`
	ProgressPercent *int                `json:"progress_percent,omitempty"`
	GeneratedCount  *int                `json:"generated_count,omitempty"`
	PassedCount     *int                `json:"passed_count,omitempty"`
	FailedCount     *int                `json:"failed_count,omitempty"`
	NewItems        []DraftQuestionItem `json:"new_items,omitempty"`

	// Error carries the server-side failure message; present only
	// when Status is failed.
	Error *string `json:"error,omitempty"`
}
