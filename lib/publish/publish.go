// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package publish promotes a reviewed batch into the permanent
// question library. Publishing is irreversible per item, but the
// server skips items that are already published, so retrying a
// failed or partial publish is always safe to offer.
package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizforge/quizforge/lib/qapi"
)

// Outcome is the per-item result breakdown of one publish call. A
// successful HTTP response with Failed > 0 is a partial outcome the
// caller must surface, not swallow.
type Outcome struct {
	Published            int
	Skipped              int
	Failed               int
	PublishedQuestionIDs []int64
}

// Partial reports whether any item failed to publish.
func (outcome Outcome) Partial() bool { return outcome.Failed > 0 }

// Summary renders the outcome for the status line.
func (outcome Outcome) Summary() string {
	if outcome.Partial() {
		return fmt.Sprintf("published %d, skipped %d, FAILED %d (retry is safe)",
			outcome.Published, outcome.Skipped, outcome.Failed)
	}
	if outcome.Skipped > 0 {
		return fmt.Sprintf("published %d (%d already published)", outcome.Published, outcome.Skipped)
	}
	return fmt.Sprintf("published %d", outcome.Published)
}

// Coordinator runs publishes against the backend.
type Coordinator struct {
	client *qapi.Client
	logger *slog.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(client *qapi.Client, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{client: client, logger: logger}
}

// Publish promotes items of a job. With PublishAllApproved the server
// resolves the approved set at publish time; with PublishSelected the
// explicit id list is required. Whole-call failure is the only error
// condition; per-item failures come back inside the Outcome.
func (c *Coordinator) Publish(ctx context.Context, jobID string, mode qapi.PublishMode, itemIDs []int64) (*Outcome, error) {
	switch mode {
	case qapi.PublishAllApproved:
		itemIDs = nil
	case qapi.PublishSelected:
		if len(itemIDs) == 0 {
			return nil, fmt.Errorf("publish: selected mode requires at least one item id")
		}
	default:
		return nil, fmt.Errorf("publish: unknown mode %q", mode)
	}

	result, err := c.client.Publish(ctx, jobID, mode, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("publish: job %s: %w", jobID, err)
	}

	outcome := &Outcome{
		Published:            result.PublishedCount,
		Skipped:              result.SkippedCount,
		Failed:               result.FailedCount,
		PublishedQuestionIDs: result.PublishedQuestionIDs,
	}
	c.logger.Info("publish finished",
		"job_id", jobID,
		"mode", mode,
		"published", outcome.Published,
		"skipped", outcome.Skipped,
		"failed", outcome.Failed,
	)
	return outcome, nil
}
