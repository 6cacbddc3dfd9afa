// Package did talks to the D-ID rendering API. The client covers exactly the
// two calls the platform needs: submitting a talk and reading its status.
package did

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Static errors for D-ID client operations.
var (
	// ErrAPIKeyRequired is returned when no API key is configured.
	ErrAPIKeyRequired = errors.New("did: api key is required")
	// ErrTalkIDRequired is returned when the talk ID is not provided.
	ErrTalkIDRequired = errors.New("did: talk id is required")
	// ErrNoTalkIDReturned is returned when the create response contains no talk ID.
	ErrNoTalkIDReturned = errors.New("did: create failed: no talk id returned")
	// ErrRateLimited is returned when the service answers 429.
	ErrRateLimited = errors.New("did: rate limited")
	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("did: request timed out")
	// ErrRequestFailed is returned for any other non-2xx response.
	ErrRequestFailed = errors.New("did: request failed")
)

// TalksClient is the surface the video service depends on.
type TalksClient interface {
	// CreateTalk submits a render job and returns it with its assigned ID.
	CreateTalk(ctx context.Context, req TalkRequest) (*Talk, error)
	// GetTalk reads the current state of a render job.
	GetTalk(ctx context.Context, talkID string) (*Talk, error)
}

// Client is the HTTP implementation of TalksClient.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    *http.Client
	submitTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL; used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSubmitTimeout bounds CreateTalk; the default is 25 seconds.
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.submitTimeout = d
		}
	}
}

// NewClient creates a D-ID API client. Keys in "username:secret" form are
// sent as Basic credentials; anything else is sent verbatim, matching the
// two key formats the vendor issues.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	c := &Client{
		apiKey:        apiKey,
		baseURL:       "https://api.d-id.com",
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		submitTimeout: 25 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateTalk submits a render job. The call carries its own bounded timeout
// so a stalled vendor cannot hold the caller's request open indefinitely.
func (c *Client) CreateTalk(ctx context.Context, req TalkRequest) (*Talk, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("did: marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	var talk Talk
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/talks", body, &talk); err != nil {
		return nil, err
	}
	if talk.ID == "" {
		return nil, ErrNoTalkIDReturned
	}
	return &talk, nil
}

// GetTalk reads the current state of a render job.
func (c *Client) GetTalk(ctx context.Context, talkID string) (*Talk, error) {
	if talkID == "" {
		return nil, ErrTalkIDRequired
	}
	var talk Talk
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/talks/"+talkID, nil, &talk); err != nil {
		return nil, err
	}
	return &talk, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("did: create request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("did: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("did: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ErrRateLimited, strings.TrimSpace(string(respBody)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("did: unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) authHeader() string {
	if strings.Contains(c.apiKey, ":") {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.apiKey))
	}
	return c.apiKey
}

var _ TalksClient = (*Client)(nil)
