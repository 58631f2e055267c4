// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, StaticToken("test-token"), "alderaan")
	c.WithLimiter(rate.NewLimiter(rate.Inf, 1))
	return c
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_SendsExpectedPayload(t *testing.T) {
	var gotReq ChatRequest
	var gotAuth string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/assistant/chat", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(ChatResponse{Response: "The pass is held.", SourcesCount: 2})
	})

	resp, err := c.Chat(context.Background(), "who holds the pass?", "riley_alderaan_u1_123", ModeDeep)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "who holds the pass?", gotReq.Query)
	assert.Equal(t, "alderaan", gotReq.TenantID)
	assert.Equal(t, ModeDeep, gotReq.Mode)
	assert.Equal(t, "riley_alderaan_u1_123", gotReq.SessionID)
	assert.Equal(t, "The pass is held.", resp.Response)
	assert.Equal(t, 2, resp.SourcesCount)
}

func TestChat_NonOKSurfacesStatusAndBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("inference backend unavailable"))
	})

	_, err := c.Chat(context.Background(), "q", "sid", ModeFast)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Body, "inference backend unavailable")
	assert.Contains(t, err.Error(), "502")
}

func TestChat_NoToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server without a token")
	})
	c.tokenSrc = StaticToken("")

	_, err := c.Chat(context.Background(), "q", "sid", ModeFast)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestChat_NoAutomaticRetry(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Chat(context.Background(), "q", "sid", ModeFast)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "chat submits must not be retried")
}

func TestChat_ClientSideRateLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{Response: "ok"})
	})
	c.WithLimiter(rate.NewLimiter(0, 0))

	_, err := c.Chat(context.Background(), "q", "sid", ModeFast)
	assert.ErrorIs(t, err, ErrRateLimited)
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestHistory_ReturnsTurnsInOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/assistant/history/riley_alderaan_u1_123", r.URL.Path)
		json.NewEncoder(w).Encode([]HistoryTurn{
			{Role: "user", Content: "q1"},
			{Role: "assistant", Content: "a1"},
		})
	})

	turns, err := c.History(context.Background(), "riley_alderaan_u1_123")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "a1", turns[1].Content)
}

func TestHistory_NotFoundIsEmptyNotError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	turns, err := c.History(context.Background(), "riley_new_session")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestHistory_ServerErrorIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.History(context.Background(), "sid")
	assert.Error(t, err)
}

// =============================================================================
// CLEAR / ASSETS TESTS
// =============================================================================

func TestClearSession(t *testing.T) {
	cleared := ""
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		cleared = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.ClearSession(context.Background(), "riley_alderaan_u1_123"))
	assert.Equal(t, "/assistant/history/riley_alderaan_u1_123", cleared)
}

func TestClearSession_NotFoundIsAlreadyClear(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.NoError(t, c.ClearSession(context.Background(), "sid"))
}

func TestListAssets(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vault/assets", r.URL.Path)
		json.NewEncoder(w).Encode([]VaultAsset{
			{ID: "asset-1", DisplayName: "northern-pass.md", Kind: "document"},
		})
	})

	assets, err := c.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "northern-pass.md", assets[0].DisplayName)
}

// =============================================================================
// MISC TESTS
// =============================================================================

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeDeep, ParseMode("deep"))
	assert.Equal(t, ModeFast, ParseMode("fast"))
	assert.Equal(t, ModeFast, ParseMode(""))
	assert.Equal(t, ModeFast, ParseMode("bogus"))
}

func TestIsConfigured(t *testing.T) {
	c := NewClient("http://example.test", StaticToken("tok"), "t")
	assert.True(t, c.IsConfigured())
	c.tokenSrc = StaticToken("")
	assert.False(t, c.IsConfigured())
	c.tokenSrc = nil
	assert.False(t, c.IsConfigured())
}
