package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 16 * 1024 * 1024
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL    string
	Version    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the Notion REST API.
type Client struct {
	baseURL    string
	version    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.RWMutex
	creds dashboard.Credentials
}

// NewClient creates a new Client.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		version:    opts.Version,
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.version == "" {
		c.version = DefaultVersion
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// SetCredentials replaces the current credential set.
func (c *Client) SetCredentials(creds dashboard.Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

// Credentials returns a copy of the current credential set.
func (c *Client) Credentials() dashboard.Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/me", token, "", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetDatabase fetches database metadata.
func (c *Client) GetDatabase(ctx context.Context, token, databaseID string) (*Database, error) {
	var db Database
	path := "/databases/" + url.PathEscape(databaseID)
	if err := c.do(ctx, http.MethodGet, path, token, databaseID, nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// QueryDatabase returns the first page of rows of a database.
func (c *Client) QueryDatabase(ctx context.Context, token, databaseID string, req QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	path := "/databases/" + url.PathEscape(databaseID) + "/query"
	if err := c.do(ctx, http.MethodPost, path, token, databaseID, req, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []Page{}
	}
	if resp.HasMore {
		c.logger.Debug("query has more results than the first page", "database_id", databaseID)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path, token, datasetID string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err, datasetID)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return classifyTransportError(ctx, err, datasetID)
	}

	c.logger.Debug("notion request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode, data, datasetID)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return dashboard.NewRemoteError(dashboard.ErrRemoteAPI, datasetID, "malformed response body", err)
	}
	return nil
}

func classifyStatus(status int, body []byte, datasetID string) error {
	switch status {
	case http.StatusUnauthorized:
		return dashboard.NewRemoteError(dashboard.ErrInvalidCredential, datasetID, "", nil)
	case http.StatusNotFound:
		return dashboard.NewRemoteError(dashboard.ErrDatasetNotFound, datasetID, "", nil)
	}

	var apiErr apiError
	message := ""
	if err := json.Unmarshal(body, &apiErr); err == nil {
		message = apiErr.Message
	}
	if message == "" {
		message = fmt.Sprintf("status %d", status)
	}
	return dashboard.NewRemoteError(dashboard.ErrRemoteAPI, datasetID, message, nil)
}

// classifyTransportError maps a failure that happened before a complete
// response was read. Cancellation by the caller is returned as is.
func classifyTransportError(ctx context.Context, err error, datasetID string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return dashboard.NewRemoteError(dashboard.ErrTimeout, datasetID, "", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return dashboard.NewRemoteError(dashboard.ErrTimeout, datasetID, "", err)
	}
	return dashboard.NewRemoteError(dashboard.ErrNetworkUnavailable, datasetID, "", err)
}
