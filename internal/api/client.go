// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the client for the remote Riley backend.
//
// The backend exposes the assistant chat endpoint, per-session history,
// and the vault asset listing. All payloads are JSON over HTTPS with a
// bearer token supplied by a TokenSource.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Configuration constants for the Riley API.
const (
	// DefaultTimeout bounds every request. The original client had no
	// timeout at all on chat submits; this internal bound is a deliberate
	// enhancement, the externally observable behavior (no user-facing
	// abort) is unchanged.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// chatRatePerSec and chatBurst bound client-side chat submissions so
	// a scripted caller cannot hammer the inference backend.
	chatRatePerSec = 1
	chatBurst      = 3
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client for all Riley API requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoToken indicates the auth provider produced no bearer token.
	// Terminal for the operation that needed it; the caller renders it,
	// no retry is attempted.
	ErrNoToken = errors.New("no auth token available")

	// ErrRateLimited indicates the client-side limiter refused the call.
	ErrRateLimited = errors.New("rate limited")
)

// Error is a non-2xx response from the backend, carrying enough detail
// (status + body) to render a useful error turn.
type Error struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("riley backend error (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("riley backend error (HTTP %d): %s", e.Status, body)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// Mode selects the assistant's effort level for one query.
type Mode string

const (
	ModeFast Mode = "fast"
	ModeDeep Mode = "deep"
)

// ParseMode maps a string to a Mode, defaulting to fast.
func ParseMode(s string) Mode {
	if s == string(ModeDeep) {
		return ModeDeep
	}
	return ModeFast
}

// ChatRequest is the chat endpoint payload.
type ChatRequest struct {
	Query     string `json:"query"`
	TenantID  string `json:"tenantId"`
	Mode      Mode   `json:"mode"`
	SessionID string `json:"sessionId"`
}

// ChatResponse is the chat endpoint reply.
type ChatResponse struct {
	Response     string `json:"response"`
	SourcesCount int    `json:"sourcesCount,omitempty"`
}

// HistoryTurn is one prior exchange entry as the backend stores it.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// VaultAsset is one entry from the vault asset listing.
type VaultAsset struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Kind        string    `json:"kind"`
	Campaign    string    `json:"campaignId"`
	SizeBytes   int64     `json:"sizeBytes"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// =============================================================================
// TOKEN SOURCE
// =============================================================================

// TokenSource supplies the bearer token for each request. Token
// acquisition and refresh belong to the auth provider, not this client.
type TokenSource interface {
	// Token returns the current bearer token, or "" if none is available.
	Token() string
}

// StaticToken is a TokenSource for a fixed token from config.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Riley backend for one tenant.
type Client struct {
	baseURL    string
	tokenSrc   TokenSource
	tenantID   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the given backend. An empty token from
// tokenSrc does not fail construction; requests fail with ErrNoToken.
func NewClient(baseURL string, tokenSrc TokenSource, tenantID string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokenSrc:   tokenSrc,
		tenantID:   tenantID,
		httpClient: sharedHTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(chatRatePerSec), chatBurst),
	}
}

// WithTimeout sets the request timeout. This clones the transport-shared
// client rather than mutating the package-level one.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	clone := *sharedHTTPClient
	clone.Timeout = timeout
	c.httpClient = &clone
	return c
}

// WithLimiter replaces the client-side chat limiter.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// TenantID returns the tenant this client is scoped to.
func (c *Client) TenantID() string {
	return c.tenantID
}

// IsConfigured returns true if a bearer token is currently available.
func (c *Client) IsConfigured() bool {
	return c.tokenSrc != nil && c.tokenSrc.Token() != ""
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Chat submits a query for a session and returns the assistant reply.
// No automatic retry: a chat submit is a write, and the caller surfaces
// failure as a visible assistant turn instead.
func (c *Client) Chat(ctx context.Context, query, sessionID string, mode Mode) (*ChatResponse, error) {
	if !c.limiter.Allow() {
		return nil, fmt.Errorf("%w: slow down and try again", ErrRateLimited)
	}

	body, err := json.Marshal(ChatRequest{
		Query:     query,
		TenantID:  c.tenantID,
		Mode:      mode,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/assistant/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &chatResp, nil
}

// History fetches the prior turns for a session in stored order.
// A 404 is the normal brand-new-session case and returns an empty slice,
// not an error.
func (c *Client) History(ctx context.Context, sessionID string) ([]HistoryTurn, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/assistant/history/"+sessionID, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var turns []HistoryTurn
	if err := json.Unmarshal(respBody, &turns); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return turns, nil
}

// ClearSession deletes a session's stored history ("Clear Context").
func (c *Client) ClearSession(ctx context.Context, sessionID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/assistant/history/"+sessionID, nil)
	if IsNotFound(err) {
		// Nothing stored for the session; already clear.
		return nil
	}
	return err
}

// ListAssets fetches the tenant's vault asset listing, which feeds the
// local citation index.
func (c *Client) ListAssets(ctx context.Context) ([]VaultAsset, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/vault/assets", nil)
	if err != nil {
		return nil, err
	}

	var assets []VaultAsset
	if err := json.Unmarshal(respBody, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse assets: %w", err)
	}
	return assets, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do runs one request and returns the response body. Non-2xx statuses
// come back as *Error with the body attached.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	token := ""
	if c.tokenSrc != nil {
		token = c.tokenSrc.Token()
	}
	if token == "" {
		return nil, ErrNoToken
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, token)

	logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	// SECURITY: Clear Authorization header after the request so request
	// dumps can never leak the token.
	req.Header.Del("Authorization")

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	logResponse(resp, duration)

	respBody, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

// setHeaders sets the required headers for Riley API requests.
func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "riley-tui/0.3.0")
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// readResponse reads the body with a size cap.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// logRequest logs a request without exposing sensitive data.
// Neither headers (auth) nor bodies (campaign content) are logged.
func logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs a response status and duration, never the body.
func logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}
