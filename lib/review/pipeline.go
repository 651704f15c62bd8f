// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package review is the per-item review state machine for a generated
// batch: filtering, navigation, approve/reject with reason capture,
// bulk operations, and in-place field edits.
//
// Review status moves pending↔approved and pending↔rejected freely;
// no item state is terminal. Only the batch has a notion of done:
// the filtered view emptying out under the active filter.
//
// Mutations are optimistic and split in two: a local mutator applies
// the change immediately and returns the patch that records it, and
// the network-only Persist methods send that patch separately. On
// failure, single-item updates keep the optimistic value and surface
// the error, while bulk updates reconcile by re-fetching the batch.
// That asymmetry is deliberate and mirrored from the original
// workflow.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizforge/quizforge/lib/qapi"
)

// ErrNoReason blocks a rejection confirmed without any selected
// reason. No request is sent.
var ErrNoReason = errors.New("review: rejection requires at least one reason")

// pageSize is the items-per-request page size used when loading the
// batch.
const pageSize = 100

// Filter is the two-axis item filter. Zero values mean "any".
type Filter struct {
	QC     qapi.QCStatus
	Review qapi.ReviewStatus
}

// DefaultFilter is the pending-biased filter the review view opens
// with.
var DefaultFilter = Filter{Review: qapi.ReviewPending}

// Matches reports whether an item passes the filter.
func (filter Filter) Matches(item qapi.DraftQuestionItem) bool {
	if filter.QC != "" && item.QCStatus != filter.QC {
		return false
	}
	if filter.Review != "" && item.ReviewStatus != filter.Review {
		return false
	}
	return true
}

// Pipeline drives the review of one job's item set. Local state is
// owned by a single event loop (the TUI's); only the network-only
// methods Persist, PersistBulkReview, and FetchItems may run on
// other goroutines, which is how the TUI keeps its command
// goroutines off the shared state.
type Pipeline struct {
	client *qapi.Client
	logger *slog.Logger
	jobID  string

	items  []qapi.DraftQuestionItem
	byID   map[int64]int
	filter Filter
	cursor int
}

// NewPipeline creates a Pipeline for a job. Call Load before use.
func NewPipeline(client *qapi.Client, jobID string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		client: client,
		logger: logger,
		jobID:  jobID,
		byID:   make(map[int64]int),
		filter: DefaultFilter,
	}
}

// FetchItems pages the complete unfiltered item set from the
// backend, until the server-reported total is reached. It touches no
// pipeline state; hand the result to Install on the owning event
// loop.
func (p *Pipeline) FetchItems(ctx context.Context) ([]qapi.DraftQuestionItem, error) {
	var items []qapi.DraftQuestionItem
	for offset := 0; ; offset += pageSize {
		page, err := p.client.Items(ctx, p.jobID, qapi.ItemFilter{}, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("review: loading batch for job %s: %w", p.jobID, err)
		}
		items = append(items, page.Items...)
		if len(page.Items) < pageSize || len(items) >= page.Total {
			break
		}
	}
	return items, nil
}

// Install replaces the working set with a fetched batch. The active
// filter survives; the navigation cursor resets.
func (p *Pipeline) Install(items []qapi.DraftQuestionItem) {
	p.items = items
	p.byID = make(map[int64]int, len(items))
	for index, item := range items {
		p.byID[item.ID] = index
	}
	p.cursor = 0
}

// Load fetches and installs the batch in one step, for callers that
// own the pipeline from a single goroutine.
func (p *Pipeline) Load(ctx context.Context) error {
	items, err := p.FetchItems(ctx)
	if err != nil {
		return err
	}
	p.Install(items)
	return nil
}

// Len returns the unfiltered batch size.
func (p *Pipeline) Len() int { return len(p.items) }

// Item returns the item with the given id.
func (p *Pipeline) Item(itemID int64) (qapi.DraftQuestionItem, bool) {
	index, ok := p.byID[itemID]
	if !ok {
		return qapi.DraftQuestionItem{}, false
	}
	return p.items[index], true
}

// Filter returns the active filter.
func (p *Pipeline) Filter() Filter { return p.filter }

// SetFilter switches the active filter. Any change resets the
// navigation cursor to the first filtered item.
func (p *Pipeline) SetFilter(filter Filter) {
	if filter == p.filter {
		return
	}
	p.filter = filter
	p.cursor = 0
}

// Filtered returns the items visible under the active filter, in
// batch order.
func (p *Pipeline) Filtered() []qapi.DraftQuestionItem {
	var visible []qapi.DraftQuestionItem
	for _, item := range p.items {
		if p.filter.Matches(item) {
			visible = append(visible, item)
		}
	}
	return visible
}

// Cursor returns the navigation index within the filtered view.
func (p *Pipeline) Cursor() int { return p.cursor }

// Current returns the item under the cursor.
func (p *Pipeline) Current() (qapi.DraftQuestionItem, bool) {
	visible := p.Filtered()
	if len(visible) == 0 {
		return qapi.DraftQuestionItem{}, false
	}
	if p.cursor >= len(visible) {
		return visible[len(visible)-1], true
	}
	return visible[p.cursor], true
}

// Next advances the cursor. Returns false at the end of the filtered
// view.
func (p *Pipeline) Next() bool {
	if p.cursor+1 >= len(p.Filtered()) {
		return false
	}
	p.cursor++
	return true
}

// Previous moves the cursor back. Returns false at the start.
func (p *Pipeline) Previous() bool {
	if p.cursor == 0 {
		return false
	}
	p.cursor--
	return true
}

// Complete reports whether the filtered view is empty: the batch is
// fully reviewed under the active filter. The caller decides whether
// to proceed to publish or broaden the filter.
func (p *Pipeline) Complete() bool {
	return len(p.Filtered()) == 0
}

// Approve marks an item approved locally and advances the cursor to
// the next filtered item. The returned patch must be sent with
// Persist; complete is true when this review emptied the filtered
// view.
func (p *Pipeline) Approve(itemID int64) (patch qapi.ItemPatch, complete bool, err error) {
	patch, err = p.applyReviewStatus(itemID, qapi.ReviewApproved, nil, "")
	if err != nil {
		return qapi.ItemPatch{}, false, err
	}
	p.advanceAfterReview(itemID)
	return patch, p.Complete(), nil
}

// RejectDraft captures the reason-selection step of a rejection. The
// item is untouched until ConfirmReject; dropping the draft is the
// cancellation path.
type RejectDraft struct {
	ItemID  int64
	Reasons []Reason
	Comment string
}

// BeginReject opens a rejection draft for an item.
func (p *Pipeline) BeginReject(itemID int64) *RejectDraft {
	return &RejectDraft{ItemID: itemID}
}

// Toggle flips a reason in or out of the draft's selection.
func (draft *RejectDraft) Toggle(reason Reason) {
	for index, selected := range draft.Reasons {
		if selected == reason {
			draft.Reasons = append(draft.Reasons[:index], draft.Reasons[index+1:]...)
			return
		}
	}
	draft.Reasons = append(draft.Reasons, reason)
}

// Selected reports whether a reason is in the draft.
func (draft *RejectDraft) Selected(reason Reason) bool {
	for _, selected := range draft.Reasons {
		if selected == reason {
			return true
		}
	}
	return false
}

// ConfirmReject validates the draft and applies the rejection with
// its reasons and optional comment, advancing the cursor. With zero
// reasons selected it returns ErrNoReason and changes nothing. The
// returned patch must be sent with Persist.
func (p *Pipeline) ConfirmReject(draft *RejectDraft) (qapi.ItemPatch, error) {
	if draft == nil || len(draft.Reasons) == 0 {
		return qapi.ItemPatch{}, ErrNoReason
	}
	reasons := make([]string, len(draft.Reasons))
	for index, reason := range draft.Reasons {
		reasons[index] = string(reason)
	}
	patch, err := p.applyReviewStatus(draft.ItemID, qapi.ReviewRejected, reasons, strings.TrimSpace(draft.Comment))
	if err != nil {
		return qapi.ItemPatch{}, err
	}
	p.advanceAfterReview(draft.ItemID)
	return patch, nil
}

// PendingIDs returns the ids of every currently pending item across
// the UNFILTERED batch. This is the approve-all input set: the
// display filter never narrows it.
func (p *Pipeline) PendingIDs() []int64 {
	var ids []int64
	for _, item := range p.items {
		if item.ReviewStatus == qapi.ReviewPending {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// ApplyBulkReview optimistically applies one review status to a set
// of items. Ids unknown to the batch are skipped. The matching
// network call is PersistBulkReview; when that fails the caller
// reconciles with a FetchItems/Install round trip instead of a
// revert.
func (p *Pipeline) ApplyBulkReview(itemIDs []int64, status qapi.ReviewStatus) {
	for _, itemID := range itemIDs {
		if index, ok := p.byID[itemID]; ok {
			p.items[index].ReviewStatus = status
		}
	}
}

// PersistBulkReview sends the single bulk request for an applied
// status change. Like Persist it touches no pipeline state. A 2xx
// response can still be partial; callers must surface UpdatedCount.
func (p *Pipeline) PersistBulkReview(ctx context.Context, itemIDs []int64, status qapi.ReviewStatus) (*qapi.BulkUpdateResult, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("review: bulk update requires a non-empty selection")
	}
	result, err := p.client.BulkUpdateReview(ctx, p.jobID, itemIDs, status)
	if err != nil {
		return nil, fmt.Errorf("review: bulk update failed: %w", err)
	}
	if result.UpdatedCount < result.RequestedCount {
		p.logger.Warn("bulk update was partial",
			"job_id", p.jobID,
			"updated", result.UpdatedCount,
			"requested", result.RequestedCount,
		)
	}
	return result, nil
}

// Persist sends a patch produced by one of the local mutators. It
// touches no pipeline state, so it may run on another goroutine
// while the owner keeps navigating and rendering.
func (p *Pipeline) Persist(ctx context.Context, itemID int64, patch qapi.ItemPatch) error {
	if _, err := p.client.PatchItem(ctx, p.jobID, itemID, patch); err != nil {
		return fmt.Errorf("review: persisting item %d: %w", itemID, err)
	}
	return nil
}

// applyReviewStatus performs the optimistic local update and builds
// the patch that records it. Single-item review changes keep the
// optimistic value when Persist later fails (the next re-fetch
// converges), so the error is surfaced without a revert.
func (p *Pipeline) applyReviewStatus(itemID int64, status qapi.ReviewStatus, reasons []string, comment string) (qapi.ItemPatch, error) {
	index, ok := p.byID[itemID]
	if !ok {
		return qapi.ItemPatch{}, fmt.Errorf("review: unknown item %d", itemID)
	}
	p.items[index].ReviewStatus = status
	p.items[index].RejectionReasons = reasons
	p.items[index].RejectionComment = comment

	patch := qapi.ItemPatch{ReviewStatus: &status}
	if status == qapi.ReviewRejected {
		patch.RejectionReasons = reasons
		patch.RejectionComment = &comment
	}
	return patch, nil
}

// advanceAfterReview moves the cursor to the next filtered item after
// a review action. When the reviewed item left the filtered view
// (the pending-filter fast path), the item now at the cursor already
// is the next one; otherwise the cursor steps forward. Either way it
// stays in bounds.
func (p *Pipeline) advanceAfterReview(itemID int64) {
	visible := p.Filtered()
	stillVisible := false
	for _, item := range visible {
		if item.ID == itemID {
			stillVisible = true
			break
		}
	}
	if stillVisible && p.cursor+1 < len(visible) {
		p.cursor++
	}
	if p.cursor >= len(visible) && p.cursor > 0 {
		p.cursor = len(visible) - 1
		if p.cursor < 0 {
			p.cursor = 0
		}
	}
}
