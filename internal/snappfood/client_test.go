package snappfood

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"menu-reconciler/internal/common/config"
	"menu-reconciler/internal/common/database"
	"menu-reconciler/internal/common/errors"
	commonhttp "menu-reconciler/internal/common/http"
	"menu-reconciler/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 3,
		Backoff:    time.Millisecond,
		Latitude:   "35.6892",
		Longitude:  "51.3890",
		AppVersion: "4.6.1",
		Locale:     "fa_IR",
		UserAgent:  "test-agent",
		Referer:    "https://snappfood.ir/",
		CacheTTL:   time.Minute,
	}
}

func TestFetchSuccess(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("vendorCode")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"data":{"vendor":{"title":"Test"}}}`))
	}))
	defer server.Close()

	f := NewFetcher(testConfig(server.URL), commonhttp.NewClient(2*time.Second), nil, logger.NewNoOpLogger())

	payload, err := f.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	assert.NoError(t, f.LastError())
	assert.Equal(t, "abc123", gotQuery)
	assert.Equal(t, "test-agent", gotAgent)
	assert.Contains(t, payload, "data")
}

func TestFetchNotFoundIsTerminal(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(testConfig(server.URL), commonhttp.NewClient(2*time.Second), nil, logger.NewNoOpLogger())

	_, err := f.Fetch(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeVendorNotFound, errors.CodeOf(err))
	assert.False(t, errors.IsRetryable(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests), "terminal status must not be retried")
}

func TestFetchBadRequestIsTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	f := NewFetcher(testConfig(server.URL), commonhttp.NewClient(2*time.Second), nil, logger.NewNoOpLogger())

	_, err := f.Fetch(context.Background(), "bad")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeVendorNotFound, errors.CodeOf(err))
}

func TestFetchMalformedBodyIsTerminal(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	f := NewFetcher(testConfig(server.URL), commonhttp.NewClient(2*time.Second), nil, logger.NewNoOpLogger())

	_, err := f.Fetch(context.Background(), "v1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeMalformedPayload, errors.CodeOf(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests), "undecodable body must not be retried")
}

func TestFetchServerErrorsExhaustRetries(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 2
	f := NewFetcher(cfg, commonhttp.NewClient(2*time.Second), nil, logger.NewNoOpLogger())

	_, err := f.Fetch(context.Background(), "v1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRetriesExhausted, errors.CodeOf(err))
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))

	// the slot keeps the per-attempt cause, not the exhaustion wrapper
	assert.Equal(t, errors.ErrCodeNetworkError, errors.CodeOf(f.LastError()))
}

func TestFetchTimeoutExhaustsRetries(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 2
	f := NewFetcher(cfg, commonhttp.NewClient(30*time.Millisecond), nil, logger.NewNoOpLogger())

	_, err := f.Fetch(context.Background(), "slow")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRetriesExhausted, errors.CodeOf(err))
	assert.Equal(t, errors.ErrCodeFetchTimeout, errors.CodeOf(f.LastError()))
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
}

func TestFetchMissingUserAgent(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.UserAgent = ""
	f := NewFetcher(cfg, commonhttp.NewClient(2*time.Second), nil, logger.NewNoOpLogger())

	_, err := f.Fetch(context.Background(), "v1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeHeadersMisconfig, errors.CodeOf(err))
	assert.EqualValues(t, 0, atomic.LoadInt32(&requests), "no request without a User-Agent")
}

func TestFetchServesSecondCallFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(`{"data":{"vendor":{"title":"Cached"}}}`))
	}))
	defer server.Close()

	f := NewFetcher(testConfig(server.URL), commonhttp.NewClient(2*time.Second), rdb, logger.NewNoOpLogger())

	_, err = f.Fetch(context.Background(), "v1")
	require.NoError(t, err)

	payload, err := f.Fetch(context.Background(), "v1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests), "second fetch must hit the cache")
	assert.Contains(t, payload, "data")
}
