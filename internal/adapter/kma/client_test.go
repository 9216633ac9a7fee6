package kma

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		authKey:    "test-key",
		stationID:  "0",
		httpClient: &http.Client{Timeout: time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_FetchASOS(t *testing.T) {
	const payload = "# START7777\n202501011300 108 5.2\n# END7777"

	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		io.WriteString(w, payload)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	target := time.Date(2025, 1, 1, 13, 45, 12, 0, time.UTC)

	body, err := c.FetchASOS(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, payload, body)
	assert.Equal(t, "/kma_sfctm2.php", gotPath)
	assert.Equal(t, []string{"202501011300"}, gotQuery["tm"], "minutes truncated to the hour")
	assert.Equal(t, []string{"0"}, gotQuery["stn"])
	assert.Equal(t, []string{"test-key"}, gotQuery["authKey"])
}

func TestClient_FetchPM10(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, "202501011300,108,42")
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	from := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)

	body, err := c.FetchPM10(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, "202501011300,108,42", body)
	assert.Equal(t, []string{"202501011200"}, gotQuery["tm1"])
	assert.Equal(t, []string{"202501011300"}, gotQuery["tm2"])
}

func TestClient_FetchUV(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, "202501011300 108 0.031 1.25 0.08")
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	body, err := c.FetchUV(context.Background(), time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "/kma_sfctm_uv.php", gotPath)
	assert.NotEmpty(t, body)
}

func TestClient_FetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "auth failed", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.FetchASOS(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchASOS(ctx, time.Now())
	require.Error(t, err)
}
