package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/promptkeeper/promptkeeper/internal/common"
)

const (
	// DefaultBaseURL is the documented base path of the Notion API.
	DefaultBaseURL = "https://api.notion.com/v1"

	// APIVersion is sent as the Notion-Version header on every request.
	APIVersion = "2022-06-28"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 15 * time.Second
)

// TransportError reports a non-success response that is neither an auth
// failure nor throttling. It carries the status code and the reason returned
// by the service.
type TransportError struct {
	Status int
	Reason string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("notion: unexpected status %d: %s", e.Status, e.Reason)
}

// Client issues authenticated requests against one Notion workspace.
// Stateless aside from the stored bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken stores the bearer token used by all subsequent calls. No
// validation is performed at set time.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) request(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.token == "" {
		return fmt.Errorf("token not set: %w", common.ErrUnauthorized)
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("credential rejected (status %d): %w", resp.StatusCode, common.ErrUnauthorized)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("service throttling (status %d): %w", resp.StatusCode, common.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		reason := resp.Status
		if b, err := io.ReadAll(io.LimitReader(resp.Body, 2048)); err == nil && len(b) > 0 {
			reason = strings.TrimSpace(string(b))
		}
		return &TransportError{Status: resp.StatusCode, Reason: reason}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

type queryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	Sorts       []Sort  `json:"sorts,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
}

// QueryDatabase issues one page-query request. startCursor resumes a prior
// paginated query; pass "" for the first page.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter *Filter, sorts []Sort, startCursor string) (*QueryResult, error) {
	body := queryRequest{Filter: filter, Sorts: sorts, StartCursor: startCursor}

	var result QueryResult
	err := c.request(ctx, http.MethodPost, "databases/"+databaseID+"/query", body, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPage fetches a single page by id.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.request(ctx, http.MethodGet, "pages/"+pageID, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type createPageRequest struct {
	Parent     pageParent          `json:"parent"`
	Properties map[string]Property `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePage creates a page under the given database.
func (c *Client) CreatePage(ctx context.Context, parentDatabaseID string, properties map[string]Property) (*Page, error) {
	body := createPageRequest{
		Parent:     pageParent{DatabaseID: parentDatabaseID},
		Properties: properties,
	}
	var page Page
	if err := c.request(ctx, http.MethodPost, "pages", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type updatePageRequest struct {
	Properties map[string]Property `json:"properties,omitempty"`
	Archived   *bool               `json:"archived,omitempty"`
}

// UpdatePage replaces the given properties of an existing page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]Property) (*Page, error) {
	body := updatePageRequest{Properties: properties}
	var page Page
	if err := c.request(ctx, http.MethodPost, "pages/"+pageID, body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ArchivePage marks a page as archived.
func (c *Client) ArchivePage(ctx context.Context, pageID string) (*Page, error) {
	archived := true
	body := updatePageRequest{Archived: &archived}
	var page Page
	if err := c.request(ctx, http.MethodPost, "pages/"+pageID, body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
