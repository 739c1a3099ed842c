package snappfood

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"menu-reconciler/internal/common/errors"
	commonhttp "menu-reconciler/internal/common/http"
	"menu-reconciler/internal/common/logger"
	"menu-reconciler/internal/common/metrics"
)

// Cache is the read-through payload cache contract. Satisfied by the Redis
// client wrapper; nil disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

const cacheKeyPrefix = "sf:menu:"

// Fetcher retrieves a vendor's raw menu payload from the live API.
//
// A Fetcher serves one identifier per call and keeps the most recent failure
// in a last-error slot so callers can surface it even after a later step
// succeeds partially. Fetcher is not safe for concurrent use.
type Fetcher struct {
	config    *Config
	client    *commonhttp.Client
	cache     Cache
	logger    logger.Logger
	lastError error
}

// NewFetcher creates a Fetcher. cache may be nil.
func NewFetcher(cfg *Config, client *commonhttp.Client, cache Cache, log logger.Logger) *Fetcher {
	return &Fetcher{
		config: cfg,
		client: client,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "snappfood_fetcher"}),
	}
}

// LastError returns the failure recorded during the most recent Fetch, or nil.
func (f *Fetcher) LastError() error {
	return f.lastError
}

// Fetch retrieves and decodes the vendor payload, retrying transient failures
// up to the configured ceiling with a linearly growing backoff. HTTP 400 and
// 404 are terminal (vendor invalid or unknown); an undecodable body is
// terminal (retrying yields the same bytes).
func (f *Fetcher) Fetch(ctx context.Context, vendorCode string) (map[string]interface{}, error) {
	f.lastError = nil

	if err := f.config.Validate(); err != nil {
		f.logger.Error("request configuration invalid", map[string]interface{}{
			"vendorCode": vendorCode,
			"error":      err.Error(),
		})
		return nil, f.fail(err)
	}

	if payload, ok := f.cacheGet(ctx, vendorCode); ok {
		return payload, nil
	}

	var attemptErr error
	for attempt := 1; attempt <= f.config.MaxRetries; attempt++ {
		payload, err := f.attempt(ctx, vendorCode, attempt)
		if err == nil {
			metrics.FetchAttempts.WithLabelValues("success").Inc()
			f.cacheSet(ctx, vendorCode, payload)
			return payload, nil
		}

		attemptErr = err
		f.lastError = err

		if !errors.IsRetryable(err) {
			metrics.FetchFailures.WithLabelValues(string(errors.CodeOf(err))).Inc()
			return nil, err
		}

		f.logger.Warn("fetch attempt failed, retrying", map[string]interface{}{
			"vendorCode": vendorCode,
			"attempt":    attempt,
			"error":      err.Error(),
		})

		if attempt < f.config.MaxRetries {
			if err := f.backoff(ctx, attempt); err != nil {
				return nil, f.fail(errors.NewNetworkError(vendorCode, attempt, err))
			}
		}
	}

	f.logger.Error("failed to fetch vendor menu after retries", map[string]interface{}{
		"vendorCode": vendorCode,
		"attempts":   f.config.MaxRetries,
	})
	exhausted := errors.NewRetriesExhaustedError(vendorCode, f.config.MaxRetries)
	if attemptErr != nil {
		// keep the per-attempt failure in the slot, it names the real cause
		f.lastError = attemptErr
	} else {
		f.lastError = exhausted
	}
	metrics.FetchFailures.WithLabelValues(string(errors.ErrCodeRetriesExhausted)).Inc()
	return nil, exhausted
}

func (f *Fetcher) attempt(ctx context.Context, vendorCode string, attempt int) (map[string]interface{}, error) {
	req, err := f.buildRequest(ctx, vendorCode)
	if err != nil {
		return nil, errors.NewNetworkError(vendorCode, attempt, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.FetchAttempts.WithLabelValues("error").Inc()
		if isTimeout(err) {
			return nil, errors.NewFetchTimeoutError(vendorCode, attempt)
		}
		return nil, errors.NewNetworkError(vendorCode, attempt, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		metrics.FetchAttempts.WithLabelValues("not_found").Inc()
		f.logger.Warn("vendor invalid or not found, skipping", map[string]interface{}{
			"vendorCode": vendorCode,
			"status":     resp.StatusCode,
		})
		return nil, errors.NewVendorNotFoundError(vendorCode, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		metrics.FetchAttempts.WithLabelValues("error").Inc()
		return nil, errors.NewNetworkError(vendorCode, attempt,
			stderrors.New("unexpected status "+resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.FetchAttempts.WithLabelValues("error").Inc()
		if isTimeout(err) {
			return nil, errors.NewFetchTimeoutError(vendorCode, attempt)
		}
		return nil, errors.NewNetworkError(vendorCode, attempt, err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.FetchAttempts.WithLabelValues("malformed").Inc()
		return nil, errors.NewMalformedPayloadError(vendorCode, "undecodable response body: "+err.Error())
	}

	return payload, nil
}

func (f *Fetcher) buildRequest(ctx context.Context, vendorCode string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.config.BaseURL, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("lat", f.config.Latitude)
	q.Set("long", f.config.Longitude)
	q.Set("optionalClient", "WEBSITE")
	q.Set("client", "WEBSITE")
	q.Set("deviceType", "WEBSITE")
	q.Set("appVersion", f.config.AppVersion)
	q.Set("UDID", f.config.UDID)
	q.Set("locationCacheKey", f.config.LocationCacheKey)
	q.Set("show_party", "1")
	q.Set("fetch-static-data", "1")
	q.Set("locale", f.config.Locale)
	q.Set("vendorCode", vendorCode)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if f.config.Referer != "" {
		req.Header.Set("Referer", f.config.Referer)
	}
	return req, nil
}

// backoff sleeps attempt * 1.5 * base, honoring context cancellation.
func (f *Fetcher) backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(float64(attempt) * 1.5 * float64(f.config.Backoff))
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetcher) fail(err error) error {
	f.lastError = err
	metrics.FetchFailures.WithLabelValues(string(errors.CodeOf(err))).Inc()
	return err
}

func (f *Fetcher) cacheGet(ctx context.Context, vendorCode string) (map[string]interface{}, bool) {
	if f.cache == nil {
		return nil, false
	}
	val, err := f.cache.Get(ctx, cacheKeyPrefix+vendorCode)
	if err != nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		metrics.CacheHits.WithLabelValues("invalid").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	f.logger.Debug("payload served from cache", map[string]interface{}{
		"vendorCode": vendorCode,
	})
	return payload, true
}

func (f *Fetcher) cacheSet(ctx context.Context, vendorCode string, payload map[string]interface{}) {
	if f.cache == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := f.cache.Set(ctx, cacheKeyPrefix+vendorCode, data, f.config.CacheTTL); err != nil {
		f.logger.Debug("payload cache write failed", map[string]interface{}{
			"vendorCode": vendorCode,
			"error":      err.Error(),
		})
	}
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return stderrors.As(err, &nerr) && nerr.Timeout()
}
