// Copyright 2026 The QuizForge Authors
// SPDX-License-Identifier: Apache-2.0

package qapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/quizforge/quizforge/lib/session"
)

// maxResponseBytes bounds how much of a response body the client will
// read. Item pages cap at 100 entries, so anything past this is a
// misbehaving server.
const maxResponseBytes = 8 << 20

// Config holds everything needed to construct a Client.
type Config struct {
	// BaseURL is the backend API root (e.g. "https://qforge.internal/api").
	BaseURL string

	// AccessKey is the static shared key sent when no session token
	// is available, and the secret carried by the stream URL.
	AccessKey string

	// Sessions supplies the bearer token and absorbs 401s. Required.
	Sessions *session.Store

	// HTTPClient is used for all requests. Nil means http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Nil means slog.Default().
	Logger *slog.Logger
}

// Client is the typed backend API client. All methods are safe for
// concurrent use.
type Client struct {
	baseURL    string
	accessKey  string
	sessions   *session.Store
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the configuration and builds a Client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("qapi: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("qapi: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if config.Sessions == nil {
		return nil, fmt.Errorf("qapi: session store is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		accessKey:  config.AccessKey,
		sessions:   config.Sessions,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CreateJob submits a new generation job. Validation failures are
// returned before any network call.
func (c *Client) CreateJob(ctx context.Context, request JobRequest) (*GenerationJob, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/jobs", nil, request)
	if err != nil {
		return nil, fmt.Errorf("qapi: creating job: %w", err)
	}
	return decode[GenerationJob](body, "job")
}

// Job fetches one job snapshot by id.
func (c *Client) Job(ctx context.Context, jobID string) (*GenerationJob, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("qapi: fetching job %s: %w", jobID, err)
	}
	return decode[GenerationJob](body, "job")
}

// Jobs lists jobs, most recent first.
func (c *Client) Jobs(ctx context.Context, limit, offset int) ([]GenerationJob, error) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/jobs", query, nil)
	if err != nil {
		return nil, fmt.Errorf("qapi: listing jobs: %w", err)
	}
	var page struct {
		Jobs []GenerationJob `json:"jobs"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("qapi: parsing job list: %w", err)
	}
	return page.Jobs, nil
}

// Items fetches one page of a job's items, optionally filtered along
// the QC and review axes.
func (c *Client) Items(ctx context.Context, jobID string, filter ItemFilter, offset, limit int) (*ItemPage, error) {
	query := url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	if filter.QCStatus != "" {
		query.Set("qc_status", string(filter.QCStatus))
	}
	if filter.ReviewStatus != "" {
		query.Set("review_status", string(filter.ReviewStatus))
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobID)+"/items", query, nil)
	if err != nil {
		return nil, fmt.Errorf("qapi: fetching items for job %s: %w", jobID, err)
	}
	return decode[ItemPage](body, "item page")
}

// PatchItem partially updates one item's mutable fields and returns
// the updated item.
func (c *Client) PatchItem(ctx context.Context, jobID string, itemID int64, patch ItemPatch) (*DraftQuestionItem, error) {
	path := "/jobs/" + url.PathEscape(jobID) + "/items/" + strconv.FormatInt(itemID, 10)
	body, err := c.doRequest(ctx, http.MethodPatch, path, nil, patch)
	if err != nil {
		return nil, fmt.Errorf("qapi: patching item %d: %w", itemID, err)
	}
	return decode[DraftQuestionItem](body, "item")
}

// BulkUpdateReview applies one review status to a set of items in a
// single request.
func (c *Client) BulkUpdateReview(ctx context.Context, jobID string, itemIDs []int64, status ReviewStatus) (*BulkUpdateResult, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("qapi: bulk update requires at least one item id")
	}
	if !status.Valid() {
		return nil, fmt.Errorf("qapi: invalid review status %q", status)
	}
	request := map[string]any{
		"item_ids": itemIDs,
		"patch":    map[string]any{"review_status": status},
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/jobs/"+url.PathEscape(jobID)+"/items/bulk-update", nil, request)
	if err != nil {
		return nil, fmt.Errorf("qapi: bulk updating %d items: %w", len(itemIDs), err)
	}
	return decode[BulkUpdateResult](body, "bulk update result")
}

// Publish promotes items into the permanent question library. The
// server skips already-published items, so retrying a publish is
// always safe.
func (c *Client) Publish(ctx context.Context, jobID string, mode PublishMode, itemIDs []int64) (*PublishResult, error) {
	request := map[string]any{"publish_mode": mode}
	if len(itemIDs) > 0 {
		request["item_ids"] = itemIDs
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/jobs/"+url.PathEscape(jobID)+"/publish", nil, request)
	if err != nil {
		return nil, fmt.Errorf("qapi: publishing job %s: %w", jobID, err)
	}
	return decode[PublishResult](body, "publish result")
}

// RestartJob asks the backend to restart a failed job. The restarted
// job re-enters queued.
func (c *Client) RestartJob(ctx context.Context, jobID string) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/jobs/"+url.PathEscape(jobID)+"/restart", nil, nil); err != nil {
		return fmt.Errorf("qapi: restarting job %s: %w", jobID, err)
	}
	return nil
}

// Comments fetches the flat comment list for an item. Tree assembly
// happens in the comment package.
func (c *Client) Comments(ctx context.Context, itemID int64) ([]Comment, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/items/"+strconv.FormatInt(itemID, 10)+"/comments", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("qapi: fetching comments for item %d: %w", itemID, err)
	}
	var response struct {
		Comments []Comment `json:"comments"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("qapi: parsing comments: %w", err)
	}
	return response.Comments, nil
}

// PostComment adds a comment to an item. parentID is empty for a root
// comment, or the id of the root comment this replies to.
func (c *Client) PostComment(ctx context.Context, itemID int64, content, parentID string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("qapi: comment content is required")
	}
	request := map[string]any{"content": content}
	if parentID != "" {
		request["parent_id"] = parentID
	}
	if _, err := c.doRequest(ctx, http.MethodPost, "/items/"+strconv.FormatInt(itemID, 10)+"/comments", nil, request); err != nil {
		return fmt.Errorf("qapi: posting comment on item %d: %w", itemID, err)
	}
	return nil
}

// ReviewQueue fetches the cross-job worklist assigned to the current
// reviewer.
func (c *Client) ReviewQueue(ctx context.Context) ([]ReviewQueueEntry, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/review-queue", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("qapi: fetching review queue: %w", err)
	}
	var response struct {
		Entries []ReviewQueueEntry `json:"entries"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("qapi: parsing review queue: %w", err)
	}
	return response.Entries, nil
}

// StreamURL returns the live-channel endpoint for a job. The secret
// travels as a query parameter because the streaming transport cannot
// attach custom headers at connect time. The session token is
// preferred over the static key, matching header precedence on REST
// calls.
func (c *Client) StreamURL(jobID string) string {
	secret := c.sessions.Token()
	if secret == "" {
		secret = c.accessKey
	}
	return c.baseURL + "/jobs/" + url.PathEscape(jobID) + "/stream?access_key=" + url.QueryEscape(secret)
}

// HTTPClient exposes the underlying transport for the stream opener,
// which shares connection pooling with REST calls.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// doRequest performs one HTTP round trip. On 2xx it returns the body.
// On 401 it clears the session and returns ErrUnauthorized. On any
// other non-2xx it returns an *APIError carrying the status and the
// server's detail string.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, requestBody any) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	// Header precedence: bearer token from the session store when one
	// exists, otherwise the static shared key.
	if token := c.sessions.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	} else if c.accessKey != "" {
		request.Header.Set("X-Access-Key", c.accessKey)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	if response.StatusCode == http.StatusUnauthorized {
		// The token is dead. Clear the persisted session so the next
		// invocation starts from the login flow instead of looping on
		// the same rejected credential.
		if clearErr := c.sessions.Clear(); clearErr != nil {
			c.logger.Warn("failed to clear session after 401", "error", clearErr)
		}
		return nil, ErrUnauthorized
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(responseBody, &detail); err != nil || detail.Detail == "" {
		detail.Detail = strings.TrimSpace(string(responseBody))
	}
	return nil, &APIError{StatusCode: response.StatusCode, Detail: detail.Detail}
}

func decode[T any](body []byte, what string) (*T, error) {
	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, fmt.Errorf("qapi: parsing %s response: %w", what, err)
	}
	return &value, nil
}
