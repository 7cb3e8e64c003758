package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/stock-tracker/internal/api/handlers"
	"github.com/donaldgifford/stock-tracker/internal/engine"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListStores(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock-tracker not running")
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"cycle already in progress"}` + "\n"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Check(context.Background(), "")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.False(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, `API error (HTTP 409): {"detail":"cycle already in progress"}`, err.Error())
}

func TestClient_Check(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/check", r.URL.Path)
		assert.Equal(t, "de", r.URL.Query().Get("store"))
		assert.Equal(t, "stkctl", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"reports":[{"store":"de","outcome":"ok","items":4,"notified":2}]}`))
	}))
	defer srv.Close()

	reports, err := New(srv.URL + "/").Check(context.Background(), "de")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, engine.OutcomeOK, reports[0].Outcome)
	assert.Equal(t, 4, reports[0].Items)
	assert.Equal(t, 2, reports[0].Notified)
}

func TestClient_ListCooldowns(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stores/de/cooldowns", r.URL.Path)
		assert.Equal(t, "basket", r.URL.Query().Get("domain"))
		_ = json.NewEncoder(w).Encode([]handlers.CooldownView{{ID: "1", Buyability: "n/a"}})
	}))
	defer srv.Close()

	got, err := New(srv.URL).ListCooldowns(context.Background(), "de", "basket")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestClient_ClearCooldown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/stores/de/cooldowns/a%2Fb", r.URL.EscapedPath())
		assert.Empty(t, r.URL.RawQuery)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).ClearCooldown(context.Background(), "de", "a/b", ""))
}

func TestCooldownPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/api/v1/stores/de/cooldowns", cooldownPath("de", "", ""))
	assert.Equal(t, "/api/v1/stores/de/cooldowns/9?domain=stock", cooldownPath("de", "9", "stock"))
}
