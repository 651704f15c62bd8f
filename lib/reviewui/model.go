// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quizforge/quizforge/lib/clock"
	"github.com/quizforge/quizforge/lib/comment"
	"github.com/quizforge/quizforge/lib/livesync"
	"github.com/quizforge/quizforge/lib/publish"
	"github.com/quizforge/quizforge/lib/qapi"
	"github.com/quizforge/quizforge/lib/review"
)

// Phase identifies which of the two screens is active. The view opens
// on the live generation screen for a job still producing items and
// switches to review once the job completes (after the grace period
// the synchronizer applies).
type Phase int

const (
	// PhaseLive shows generation progress and the rolling item feed.
	PhaseLive Phase = iota
	// PhaseReview shows the item list and detail panes.
	PhaseReview
)

// FocusRegion identifies where keyboard input routes. Any region
// other than FocusList and FocusDetail captures all input, which is
// what suppresses the single-key mnemonics while typing.
type FocusRegion int

const (
	// FocusList means navigation keys move the item list cursor.
	FocusList FocusRegion = iota
	// FocusDetail means navigation keys scroll the detail pane.
	FocusDetail
	// FocusRejectModal routes all input to the rejection modal.
	FocusRejectModal
	// FocusEditModal routes all input to the field edit modal.
	FocusEditModal
	// FocusCommentModal routes all input to the discussion modal.
	FocusCommentModal
	// FocusConfirm routes all input to a confirm dialog.
	FocusConfirm
)

// statusFadeDelay is how long a status bar notice stays visible.
const statusFadeDelay = 4 * time.Second

// syncEventMsg wraps a livesync event for delivery through the
// bubbletea message loop.
type syncEventMsg struct {
	event livesync.Event
}

// mutationResultMsg is sent when an asynchronous mutation completes.
// On error the message is displayed in the status bar; notice is an
// optional success message.
type mutationResultMsg struct {
	err    error
	notice string
}

// statusFadeMsg clears the status bar notice, but only if no newer
// notice replaced the one that scheduled it.
type statusFadeMsg struct {
	seq int
}

// pollTickMsg drives the periodic auxiliary refresh. The poll runs
// in both phases: in review it keeps the job header fresh, and in
// the live phase it is the fallback that notices a terminal job when
// the event stream has dropped.
type pollTickMsg struct{}

// itemsLoadedMsg carries the result of a background page walk. The
// fetched items are installed into the pipeline by Update, never by
// the command goroutine.
type itemsLoadedMsg struct {
	items []qapi.DraftQuestionItem
	err   error
}

// bulkResultMsg carries the outcome of a bulk review persist.
type bulkResultMsg struct {
	result *qapi.BulkUpdateResult
	err    error
}

// jobRefreshedMsg carries the result of a background job re-fetch.
type jobRefreshedMsg struct {
	job *qapi.GenerationJob
	err error
}

// commentsLoadedMsg carries a freshly built thread view for an item.
type commentsLoadedMsg struct {
	itemID  int64
	threads []comment.Thread
	err     error
}

// publishResultMsg carries the outcome of a publish call.
type publishResultMsg struct {
	outcome *publish.Outcome
	err     error
}

// ModelConfig wires the review TUI to its collaborators.
type ModelConfig struct {
	Client    *qapi.Client
	Pipeline  *review.Pipeline
	Publisher *publish.Coordinator
	Job       qapi.GenerationJob

	// Events is the live synchronizer's channel. Nil when the job is
	// already terminal, in which case the view opens directly in
	// review phase.
	Events <-chan livesync.Event

	// Clock drives the periodic refresh. Defaults to clock.Real().
	Clock clock.Clock

	// RefreshInterval is the auxiliary poll period. Defaults to 30s.
	RefreshInterval time.Duration

	Keys   KeyMap
	Theme  Theme
	Logger *slog.Logger
}

// Model is the top-level bubbletea model for the job review TUI.
type Model struct {
	client    *qapi.Client
	pipeline  *review.Pipeline
	publisher *publish.Coordinator
	clock     clock.Clock
	logger    *slog.Logger
	keys      KeyMap
	theme     Theme
	refresh   time.Duration

	width  int
	height int
	ready  bool

	phase  Phase
	job    qapi.GenerationJob
	events <-chan livesync.Event

	// Live phase state.
	feed         []qapi.DraftQuestionItem
	disconnected bool
	failMessage  string

	// Review phase state.
	focusRegion  FocusRegion
	loadingItems bool
	scrollOffset int // List pane scroll.
	detailScroll int // Detail pane scroll.

	rejectModal  *RejectModal
	editModal    *EditModal
	commentModal *CommentModal
	confirm      *ConfirmDialog

	// Status bar notice and its fade sequence counter. A stale fade
	// message (scheduled for an earlier notice) is ignored.
	statusNotice string
	statusIsErr  bool
	statusSeq    int

	// Set when tea.Quit has been issued. Async results arriving
	// afterwards are discarded instead of mutating a dead view.
	quitting bool
}

// NewModel creates the review TUI model. The phase is derived from
// the job status: non-terminal jobs open on the live screen.
func NewModel(config ModelConfig) Model {
	timeSource := config.Clock
	if timeSource == nil {
		timeSource = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	refresh := config.RefreshInterval
	if refresh <= 0 {
		refresh = 30 * time.Second
	}
	keys := config.Keys
	if keys.Quit.Keys() == nil {
		keys = DefaultKeyMap
	}

	model := Model{
		client:    config.Client,
		pipeline:  config.Pipeline,
		publisher: config.Publisher,
		clock:     timeSource,
		logger:    logger,
		keys:      keys,
		theme:     config.Theme,
		refresh:   refresh,
		job:       config.Job,
		events:    config.Events,
	}
	if model.theme.NormalText == "" {
		model.theme = DefaultTheme
	}

	if config.Events != nil && (config.Job.Status == qapi.JobQueued || config.Job.Status == qapi.JobRunning) {
		model.phase = PhaseLive
	} else {
		model.phase = PhaseReview
		model.loadingItems = true
	}
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	var commands []tea.Cmd
	if model.events != nil {
		commands = append(commands, listenForSyncEvent(model.events))
	}
	if model.phase == PhaseReview {
		commands = append(commands, model.loadItemsCmd())
	}
	commands = append(commands, model.schedulePoll())
	return tea.Batch(commands...)
}

// listenForSyncEvent blocks until the next synchronizer event and
// delivers it as a syncEventMsg.
func listenForSyncEvent(events <-chan livesync.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return syncEventMsg{event: event}
	}
}

func (model Model) loadItemsCmd() tea.Cmd {
	pipeline := model.pipeline
	return func() tea.Msg {
		items, err := pipeline.FetchItems(context.Background())
		return itemsLoadedMsg{items: items, err: err}
	}
}

// persistCmd sends one item patch to the server. The local change is
// already applied by the time this runs, so the command only reports
// the outcome.
func (model Model) persistCmd(itemID int64, patch qapi.ItemPatch, notice string) tea.Cmd {
	pipeline := model.pipeline
	return func() tea.Msg {
		if err := pipeline.Persist(context.Background(), itemID, patch); err != nil {
			return mutationResultMsg{err: err}
		}
		return mutationResultMsg{notice: notice}
	}
}

// schedulePoll arms the next auxiliary refresh tick through the
// injected clock so tests can drive it deterministically.
func (model Model) schedulePoll() tea.Cmd {
	wait := model.clock.After(model.refresh)
	return func() tea.Msg {
		<-wait
		return pollTickMsg{}
	}
}

func (model Model) refreshJobCmd() tea.Cmd {
	client := model.client
	jobID := model.job.ID
	return func() tea.Msg {
		job, err := client.Job(context.Background(), jobID)
		return jobRefreshedMsg{job: job, err: err}
	}
}

// setNotice places a message in the status bar and schedules its
// fade. Each new notice bumps the sequence so an older fade timer
// cannot clear a newer notice.
func (model *Model) setNotice(notice string, isError bool) tea.Cmd {
	model.statusNotice = notice
	model.statusIsErr = isError
	model.statusSeq++
	seq := model.statusSeq
	wait := model.clock.After(statusFadeDelay)
	return func() tea.Msg {
		<-wait
		return statusFadeMsg{seq: seq}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)

	case syncEventMsg:
		return model.handleSyncEvent(message.event)

	case itemsLoadedMsg:
		if model.quitting {
			return model, nil
		}
		model.loadingItems = false
		if message.err != nil {
			return model, model.setNotice("loading items: "+message.err.Error(), true)
		}
		model.pipeline.Install(message.items)
		model.scrollOffset = 0
		model.detailScroll = 0
		return model, nil

	case mutationResultMsg:
		if model.quitting {
			return model, nil
		}
		if message.err != nil {
			return model, model.setNotice(message.err.Error(), true)
		}
		if message.notice != "" {
			return model, model.setNotice(message.notice, false)
		}
		return model, nil

	case statusFadeMsg:
		if message.seq == model.statusSeq {
			model.statusNotice = ""
		}
		return model, nil

	case pollTickMsg:
		if model.quitting {
			return model, nil
		}
		return model, tea.Batch(model.refreshJobCmd(), model.schedulePoll())

	case jobRefreshedMsg:
		if model.quitting {
			return model, nil
		}
		if message.err != nil {
			// Background refresh failure is not worth a status
			// notice; the panel keeps showing the last known state.
			model.logger.Warn("job refresh failed", "job_id", model.job.ID, "error", message.err)
			return model, nil
		}
		model.job = *message.job
		if model.phase == PhaseLive {
			return model.handleLiveJobRefresh()
		}
		return model, nil

	case bulkResultMsg:
		if model.quitting {
			return model, nil
		}
		if message.err != nil {
			// The optimistic bulk change may be partially wrong now;
			// re-fetch so local state converges back to the server's.
			model.loadingItems = true
			return model, tea.Batch(
				model.setNotice(message.err.Error(), true),
				model.loadItemsCmd(),
			)
		}
		if message.result.UpdatedCount < message.result.RequestedCount {
			return model, model.setNotice(fmt.Sprintf(
				"approved %d of %d items", message.result.UpdatedCount, message.result.RequestedCount), true)
		}
		return model, model.setNotice(fmt.Sprintf("approved %d items", message.result.UpdatedCount), false)

	case commentsLoadedMsg:
		if model.quitting {
			return model, nil
		}
		if message.err != nil {
			return model, model.setNotice("loading comments: "+message.err.Error(), true)
		}
		modal := NewCommentModal(message.itemID, message.threads, model.theme)
		model.commentModal = &modal
		model.focusRegion = FocusCommentModal
		return model, nil

	case publishResultMsg:
		if model.quitting {
			return model, nil
		}
		if message.err != nil {
			return model, model.setNotice("publish: "+message.err.Error(), true)
		}
		model.loadingItems = true
		commands := []tea.Cmd{
			model.setNotice(message.outcome.Summary(), message.outcome.Partial()),
			model.refreshJobCmd(),
			model.loadItemsCmd(),
		}
		return model, tea.Batch(commands...)
	}

	return model, nil
}

// handleLiveJobRefresh reacts to a polled job status while still on
// the live screen. With a healthy stream the synchronizer owns the
// phase switch (it applies the grace period first), so the poll only
// takes over once the stream has dropped.
func (model Model) handleLiveJobRefresh() (tea.Model, tea.Cmd) {
	switch model.job.Status {
	case qapi.JobFailed:
		if model.failMessage == "" {
			model.failMessage = model.job.Error
			if model.failMessage == "" {
				model.failMessage = "generation failed"
			}
		}
		return model, nil

	case qapi.JobCompleted, qapi.JobPublishing, qapi.JobPublished:
		if !model.disconnected {
			return model, nil
		}
		model.phase = PhaseReview
		model.loadingItems = true
		model.focusRegion = FocusList
		return model, model.loadItemsCmd()
	}
	return model, nil
}

// handleSyncEvent applies one live synchronizer event.
func (model Model) handleSyncEvent(event livesync.Event) (tea.Model, tea.Cmd) {
	relisten := listenForSyncEvent(model.events)

	switch event := event.(type) {
	case livesync.Progress:
		model.job = event.Job
		return model, relisten

	case livesync.FeedUpdated:
		model.feed = event.Items
		return model, relisten

	case livesync.Completed:
		if model.phase == PhaseReview {
			// The poll may have switched phases already after a
			// stream drop; don't kick off a second load.
			return model, relisten
		}
		model.phase = PhaseReview
		model.loadingItems = true
		model.focusRegion = FocusList
		return model, tea.Batch(relisten, model.loadItemsCmd(), model.refreshJobCmd())

	case livesync.Failed:
		model.failMessage = event.Message
		return model, relisten

	case livesync.Disconnected:
		model.disconnected = true
		return model, relisten
	}

	return model, relisten
}

// handleKey routes keyboard input by focus region. Modal regions
// capture everything so mnemonic keys can't fire while typing.
func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, from any region.
	if message.Type == tea.KeyCtrlC {
		model.quitting = true
		return model, tea.Quit
	}

	switch model.focusRegion {
	case FocusRejectModal:
		return model.handleRejectModalKey(message)
	case FocusEditModal:
		return model.handleEditModalKey(message)
	case FocusCommentModal:
		return model.handleCommentModalKey(message)
	case FocusConfirm:
		return model.handleConfirmKey(message)
	}

	if model.phase == PhaseLive {
		return model.handleLiveKey(message)
	}
	return model.handleReviewKey(message)
}

func (model Model) handleLiveKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.Quit) {
		model.quitting = true
		return model, tea.Quit
	}
	return model, nil
}

func (model Model) handleReviewKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		model.quitting = true
		return model, tea.Quit

	case key.Matches(message, model.keys.FocusToggle):
		if model.focusRegion == FocusList {
			model.focusRegion = FocusDetail
		} else {
			model.focusRegion = FocusList
		}

	case key.Matches(message, model.keys.Up):
		if model.focusRegion == FocusDetail {
			if model.detailScroll > 0 {
				model.detailScroll--
			}
		} else if model.pipeline.Previous() {
			model.detailScroll = 0
		}

	case key.Matches(message, model.keys.Down):
		if model.focusRegion == FocusDetail {
			model.detailScroll++
		} else if model.pipeline.Next() {
			model.detailScroll = 0
		}

	case key.Matches(message, model.keys.Next):
		if model.pipeline.Next() {
			model.detailScroll = 0
		}

	case key.Matches(message, model.keys.Previous):
		if model.pipeline.Previous() {
			model.detailScroll = 0
		}

	case key.Matches(message, model.keys.PageUp):
		if model.focusRegion == FocusDetail {
			model.detailScroll -= model.contentHeight() / 2
			if model.detailScroll < 0 {
				model.detailScroll = 0
			}
		}

	case key.Matches(message, model.keys.PageDown):
		if model.focusRegion == FocusDetail {
			model.detailScroll += model.contentHeight() / 2
		}

	case key.Matches(message, model.keys.Approve):
		return model.approveCurrent()

	case key.Matches(message, model.keys.Reject):
		if current, ok := model.pipeline.Current(); ok {
			modal := NewRejectModal(model.pipeline.BeginReject(current.ID), model.theme)
			model.rejectModal = &modal
			model.focusRegion = FocusRejectModal
		}

	case key.Matches(message, model.keys.EditQuestion):
		model.openEdit(EditQuestionText, 0)

	case key.Matches(message, model.keys.EditAnswer):
		model.openEdit(EditAnswer, 0)

	case key.Matches(message, model.keys.EditExplanation):
		model.openEdit(EditExplanationText, 0)

	case key.Matches(message, model.keys.FilterReview):
		model.cycleReviewFilter()

	case key.Matches(message, model.keys.FilterQC):
		model.cycleQCFilter()

	case key.Matches(message, model.keys.Comments):
		if current, ok := model.pipeline.Current(); ok {
			return model, model.loadCommentsCmd(current.ID)
		}

	case key.Matches(message, model.keys.ApproveAll):
		pending := model.pipeline.PendingIDs()
		if len(pending) == 0 {
			return model, model.setNotice("no pending items", false)
		}
		dialog := newConfirmDialog(confirmApproveAll,
			"Approve all pending",
			fmt.Sprintf("Approve all %d pending items in this job? Items hidden by the current filter are included.", len(pending)),
			model.theme)
		model.confirm = &dialog
		model.focusRegion = FocusConfirm

	case key.Matches(message, model.keys.Publish):
		dialog := newConfirmDialog(confirmPublish,
			"Publish approved items",
			"Publish every approved item in this job to the question bank? Already-published items are skipped.",
			model.theme)
		model.confirm = &dialog
		model.focusRegion = FocusConfirm

	default:
		// Digits 1-4 edit the corresponding option.
		if len(message.Runes) == 1 && message.Runes[0] >= '1' && message.Runes[0] <= '4' {
			model.openEdit(EditOptionText, int(message.Runes[0]-'1'))
		}
	}

	return model, nil
}

func (model *Model) openEdit(target EditTarget, optionIndex int) {
	current, ok := model.pipeline.Current()
	if !ok {
		return
	}
	var value string
	switch target {
	case EditQuestionText:
		value = current.Question
	case EditOptionText:
		if optionIndex >= len(current.Options) {
			return
		}
		value = current.Options[optionIndex]
	case EditAnswer:
		value = current.CorrectAnswer
	case EditExplanationText:
		value = current.Explanation
	}
	modal := NewEditModal(target, current.ID, optionIndex, value, model.theme)
	model.editModal = &modal
	model.focusRegion = FocusEditModal
}

// cycleReviewFilter walks the review axis: pending, approved,
// rejected, then any.
func (model *Model) cycleReviewFilter() {
	filter := model.pipeline.Filter()
	switch filter.Review {
	case qapi.ReviewPending:
		filter.Review = qapi.ReviewApproved
	case qapi.ReviewApproved:
		filter.Review = qapi.ReviewRejected
	case qapi.ReviewRejected:
		filter.Review = ""
	default:
		filter.Review = qapi.ReviewPending
	}
	model.pipeline.SetFilter(filter)
	model.detailScroll = 0
	model.scrollOffset = 0
}

// cycleQCFilter walks the QC axis: any, passed, failed.
func (model *Model) cycleQCFilter() {
	filter := model.pipeline.Filter()
	switch filter.QC {
	case "":
		filter.QC = qapi.QCPass
	case qapi.QCPass:
		filter.QC = qapi.QCFail
	default:
		filter.QC = ""
	}
	model.pipeline.SetFilter(filter)
	model.detailScroll = 0
	model.scrollOffset = 0
}

// approveCurrent applies the approval locally before dispatching the
// network call, so the command goroutine never touches pipeline
// state the render path reads.
func (model Model) approveCurrent() (tea.Model, tea.Cmd) {
	current, ok := model.pipeline.Current()
	if !ok {
		return model, nil
	}
	patch, complete, err := model.pipeline.Approve(current.ID)
	if err != nil {
		return model, model.setNotice(err.Error(), true)
	}
	notice := ""
	if complete {
		notice = "all items reviewed"
	}
	model.detailScroll = 0
	return model, model.persistCmd(current.ID, patch, notice)
}

func (model Model) loadCommentsCmd(itemID int64) tea.Cmd {
	client := model.client
	return func() tea.Msg {
		comments, err := client.Comments(context.Background(), itemID)
		if err != nil {
			return commentsLoadedMsg{itemID: itemID, err: err}
		}
		return commentsLoadedMsg{itemID: itemID, threads: comment.BuildThreads(comments)}
	}
}

func (model Model) handleRejectModalKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal := model.rejectModal

	switch message.Type {
	case tea.KeyEsc:
		model.rejectModal = nil
		model.focusRegion = FocusList
		return model, nil

	case tea.KeyCtrlD:
		if !modal.submit() {
			return model, nil
		}
		draft := modal.Draft
		model.rejectModal = nil
		model.focusRegion = FocusList
		patch, err := model.pipeline.ConfirmReject(draft)
		if err != nil {
			return model, model.setNotice(err.Error(), true)
		}
		model.detailScroll = 0
		return model, model.persistCmd(draft.ItemID, patch, "")
	}

	modal.Update(message)
	return model, nil
}

func (model Model) handleEditModalKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal := model.editModal

	switch message.Type {
	case tea.KeyEsc:
		model.editModal = nil
		model.focusRegion = FocusList
		return model, nil

	case tea.KeyCtrlD:
		value := strings.TrimSpace(modal.Value())
		target := modal.Target
		itemID := modal.ItemID
		optionIndex := modal.OptionIndex
		model.editModal = nil
		model.focusRegion = FocusList
		if value == "" {
			return model, nil
		}
		var (
			patch qapi.ItemPatch
			err   error
		)
		switch target {
		case EditQuestionText:
			patch, err = model.pipeline.EditQuestion(itemID, value)
		case EditOptionText:
			patch, err = model.pipeline.EditOption(itemID, optionIndex, value)
		case EditAnswer:
			patch, err = model.pipeline.EditCorrectAnswer(itemID, value)
		case EditExplanationText:
			patch, err = model.pipeline.EditExplanation(itemID, value)
		}
		if err != nil {
			return model, model.setNotice(err.Error(), true)
		}
		return model, model.persistCmd(itemID, patch, "")
	}

	modal.Update(message)
	return model, nil
}

func (model Model) handleCommentModalKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal := model.commentModal

	switch message.Type {
	case tea.KeyEsc:
		model.commentModal = nil
		model.focusRegion = FocusList
		return model, nil

	case tea.KeyCtrlD:
		body := modal.Body()
		if body == "" {
			return model, nil
		}
		itemID := modal.ItemID
		parentID := modal.ParentID()
		client := model.client
		model.commentModal = nil
		model.focusRegion = FocusList
		return model, func() tea.Msg {
			if err := client.PostComment(context.Background(), itemID, body, parentID); err != nil {
				return mutationResultMsg{err: err}
			}
			return mutationResultMsg{notice: "comment posted"}
		}
	}

	modal.Update(message)
	return model, nil
}

func (model Model) handleConfirmKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	dialog := model.confirm

	confirmed := message.Type == tea.KeyEnter || string(message.Runes) == "y"
	cancelled := message.Type == tea.KeyEsc || string(message.Runes) == "n"

	if cancelled {
		model.confirm = nil
		model.focusRegion = FocusList
		return model, nil
	}
	if !confirmed {
		return model, nil
	}

	model.confirm = nil
	model.focusRegion = FocusList

	switch dialog.action {
	case confirmApproveAll:
		pipeline := model.pipeline
		ids := pipeline.PendingIDs()
		pipeline.ApplyBulkReview(ids, qapi.ReviewApproved)
		return model, func() tea.Msg {
			result, err := pipeline.PersistBulkReview(context.Background(), ids, qapi.ReviewApproved)
			return bulkResultMsg{result: result, err: err}
		}

	case confirmPublish:
		publisher := model.publisher
		jobID := model.job.ID
		return model, func() tea.Msg {
			outcome, err := publisher.Publish(context.Background(), jobID, qapi.PublishAllApproved, nil)
			return publishResultMsg{outcome: outcome, err: err}
		}
	}

	return model, nil
}

// contentHeight is the rows available between the header line and the
// status bar.
func (model Model) contentHeight() int {
	height := model.height - 2
	if height < 1 {
		height = 1
	}
	return height
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	var output string
	if model.phase == PhaseLive {
		output = model.viewLive()
	} else {
		output = model.viewReview()
	}

	output += "\n" + model.renderStatusBar()

	switch {
	case model.rejectModal != nil:
		lines := model.rejectModal.Render(model.width)
		anchorX, anchorY := centerOverlay(lines, model.width, model.height)
		output = spliceOverlay(output, lines, anchorX, anchorY)
	case model.editModal != nil:
		lines := model.editModal.Render(model.width, model.height)
		anchorX, anchorY := centerOverlay(lines, model.width, model.height)
		output = spliceOverlay(output, lines, anchorX, anchorY)
	case model.commentModal != nil:
		lines := model.commentModal.Render(model.width, model.height)
		anchorX, anchorY := centerOverlay(lines, model.width, model.height)
		output = spliceOverlay(output, lines, anchorX, anchorY)
	case model.confirm != nil:
		lines := model.confirm.Render(model.width)
		anchorX, anchorY := centerOverlay(lines, model.width, model.height)
		output = spliceOverlay(output, lines, anchorX, anchorY)
	}

	return output
}

func (model Model) viewLive() string {
	body := renderLiveView(model.job, model.feed, model.width, model.contentHeight()+1, model.disconnected, model.theme)
	if model.failMessage != "" {
		failStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText).Bold(true)
		lines := strings.Split(body, "\n")
		lines[len(lines)-1] = failStyle.Render("FAILED: " + model.failMessage)
		body = strings.Join(lines, "\n")
	}
	return body
}

func (model Model) viewReview() string {
	header := model.renderReviewHeader()

	if model.loadingItems {
		placeholder := lipgloss.Place(model.width, model.contentHeight(),
			lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("Loading items..."))
		return header + "\n" + placeholder
	}

	items := model.pipeline.Filtered()
	cursor := model.pipeline.Cursor()
	contentHeight := model.contentHeight()

	listWidth := model.width * 2 / 5
	if listWidth < 24 {
		listWidth = 24
	}
	detailWidth := model.width - listWidth - 3

	// Keep the cursor visible in the list window.
	scrollOffset := model.scrollOffset
	if cursor < scrollOffset {
		scrollOffset = cursor
	}
	if cursor >= scrollOffset+contentHeight {
		scrollOffset = cursor - contentHeight + 1
	}

	listView := renderListPane(items, cursor, scrollOffset, listWidth, contentHeight, model.theme)

	var detailView string
	if current, ok := model.pipeline.Current(); ok {
		detailLines := renderDetail(current, detailWidth, model.theme)
		scroll := model.detailScroll
		if scroll > len(detailLines)-1 {
			scroll = len(detailLines) - 1
		}
		if scroll < 0 {
			scroll = 0
		}
		end := scroll + contentHeight
		if end > len(detailLines) {
			end = len(detailLines)
		}
		detailView = strings.Join(detailLines[scroll:end], "\n")
	} else {
		detailView = lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("No items match the filter.")
	}

	dividerStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	dividerLines := make([]string, contentHeight)
	for index := range dividerLines {
		dividerLines[index] = "│"
	}
	divider := dividerStyle.Render(strings.Join(dividerLines, "\n"))

	listStyle := lipgloss.NewStyle().Width(listWidth).Height(contentHeight)
	detailStyle := lipgloss.NewStyle().Width(detailWidth).Height(contentHeight).PaddingLeft(1)

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Render(listView), divider, detailStyle.Render(detailView))

	return header + "\n" + content
}

// renderReviewHeader renders the top line: job identity, filter
// state, and review progress counts.
func (model Model) renderReviewHeader() string {
	headerStyle := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true)
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	filter := model.pipeline.Filter()
	reviewAxis := "any"
	if filter.Review != "" {
		reviewAxis = string(filter.Review)
	}
	qcAxis := "any"
	if filter.QC != "" {
		qcAxis = string(filter.QC)
	}

	pending := len(model.pipeline.PendingIDs())
	left := headerStyle.Render(model.job.Subject) +
		faintStyle.Render(fmt.Sprintf("  %s  %d items  %d pending  filter: review=%s qc=%s",
			model.job.ID, model.pipeline.Len(), pending, reviewAxis, qcAxis))
	return left
}

// renderStatusBar renders the bottom help/status line. Notices
// replace the help text until their fade timer fires.
func (model Model) renderStatusBar() string {
	helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	if model.statusNotice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(model.theme.QCPassed).Bold(true)
		if model.statusIsErr {
			noticeStyle = lipgloss.NewStyle().Foreground(model.theme.ErrorText).Bold(true)
		}
		return noticeStyle.Render(" " + model.statusNotice)
	}

	if model.phase == PhaseLive {
		return helpStyle.Render(" q quit")
	}

	focusIndicator := "LIST"
	switch model.focusRegion {
	case FocusDetail:
		focusIndicator = "DETAIL"
	case FocusRejectModal:
		focusIndicator = "REJECT"
	case FocusEditModal:
		focusIndicator = "EDIT"
	case FocusCommentModal:
		focusIndicator = "COMMENTS"
	case FocusConfirm:
		focusIndicator = "CONFIRM"
	}

	help := fmt.Sprintf(
		" [%s] a approve  r reject  e/E/x/1-4 edit  n/p next/prev  f/F filter  c comments  A approve-all  P publish  q quit",
		focusIndicator)
	return helpStyle.Render(help)
}
