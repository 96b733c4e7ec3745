package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ktpPortalAPI/internal/leetcode"
)

const (
	leetcodeFetchTimeout  = 10 * time.Second
	leetcodeFetchAttempts = 3
	leetcodeRetryDelay    = 2 * time.Second
)

type FetchErrorKind int

const (
	FetchErrNetwork FetchErrorKind = iota
	FetchErrHTTPStatus
	FetchErrInvalidPayload
)

// FetchError is the final failure of a stats fetch after all retries.
type FetchError struct {
	Kind   FetchErrorKind
	Status int
	Detail string
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchErrHTTPStatus:
		return fmt.Sprintf("HTTP %d", e.Status)
	case FetchErrInvalidPayload:
		return "invalid payload: " + e.Detail
	default:
		return "network error: " + e.Detail
	}
}

// LeetCodeFetcher pulls a user's public stats from the external stats API.
// Every network-level failure, non-2xx response or malformed body is retried
// with a fixed delay; the fan-out across users already parallelizes, so no
// backoff or jitter is applied per user.
type LeetCodeFetcher struct {
	baseURL    string
	client     *http.Client
	retryDelay time.Duration
}

func NewLeetCodeFetcher(baseURL string) *LeetCodeFetcher {
	return &LeetCodeFetcher{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		client:     &http.Client{Timeout: leetcodeFetchTimeout},
		retryDelay: leetcodeRetryDelay,
	}
}

// Fetch returns the parsed stats for username, or the failure reason of the
// last attempt once retries are exhausted. It never panics and a failure is
// always a returned value, not an escaping error.
func (f *LeetCodeFetcher) Fetch(ctx context.Context, username string) (*leetcode.RawStats, *FetchError) {
	var lastErr *FetchError

	for attempt := 1; attempt <= leetcodeFetchAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(f.retryDelay):
			case <-ctx.Done():
				return nil, &FetchError{Kind: FetchErrNetwork, Detail: ctx.Err().Error()}
			}
		}

		stats, fetchErr := f.attempt(ctx, username)
		if fetchErr == nil {
			return stats, nil
		}
		lastErr = fetchErr
	}

	return nil, lastErr
}

func (f *LeetCodeFetcher) attempt(ctx context.Context, username string) (*leetcode.RawStats, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+url.PathEscape(username), nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchErrNetwork, Detail: err.Error()}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchErrNetwork, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: FetchErrHTTPStatus, Status: resp.StatusCode}
	}

	var stats leetcode.RawStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, &FetchError{Kind: FetchErrInvalidPayload, Detail: err.Error()}
	}
	if stats.EasySolved == nil {
		return nil, &FetchError{Kind: FetchErrInvalidPayload, Detail: "missing easySolved"}
	}

	return &stats, nil
}
