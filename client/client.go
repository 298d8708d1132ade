// Package client is the Go client for the blog interaction API. Its center
// is the optimistic controller pair (Toggle, Counter): widgets render a
// tentative result before the server confirms, reconcile on success and roll
// back on failure, while staying usable for anonymous viewers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrUnauthorized is the recoverable "requires sign-in" failure.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the subject does not exist; terminal.
	ErrNotFound = errors.New("not found")
	// ErrBadResponse means the server answered with a shape the client does
	// not recognize. Decoding fails closed instead of coercing.
	ErrBadResponse = errors.New("malformed response")
)

// TokenSource supplies the bearer credential once identity resolution
// completes. ok=false means the caller is (still) anonymous.
type TokenSource interface {
	Token() (token string, ok bool)
}

// StaticToken is a TokenSource for an already-resolved credential.
type StaticToken string

func (t StaticToken) Token() (string, bool) { return string(t), t != "" }

// RetryPolicy bounds re-attempts for read requests. Writes are never
// retried by the client: a retried toggle double-flips and a retried
// increment double-counts.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource

	// Timeout bounds every request. The zero value gets the 10s default;
	// a hung request must eventually take the same failure path as an
	// HTTP error.
	Timeout time.Duration
	Retry   RetryPolicy
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	timeout time.Duration
	retry   RetryPolicy
}

const defaultTimeout = 10 * time.Second

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retry := cfg.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		tokens:  cfg.Tokens,
		timeout: timeout,
		retry:   retry,
	}, nil
}

type LikeState struct {
	Likes int64 `json:"likes"`
	Liked bool  `json:"liked"`
}

type bookmarkState struct {
	Bookmarked bool `json:"bookmarked"`
}

type SubscriptionState struct {
	Subscribed bool  `json:"subscribed"`
	Count      int64 `json:"count"`
}

type slugsPayload struct {
	Slugs []string `json:"slugs"`
}

func (c *Client) LikeState(ctx context.Context, slug string) (LikeState, error) {
	var out LikeState
	err := c.get(ctx, "/api/v1/articles/"+url.PathEscape(slug)+"/likes", &out)
	return out, err
}

func (c *Client) ToggleLike(ctx context.Context, slug string) (LikeState, error) {
	var out LikeState
	err := c.post(ctx, "/api/v1/articles/"+url.PathEscape(slug)+"/likes", &out)
	return out, err
}

func (c *Client) IncrementLikes(ctx context.Context, slug string) (int64, error) {
	var out struct {
		Likes int64 `json:"likes"`
	}
	err := c.post(ctx, "/api/v1/articles/"+url.PathEscape(slug)+"/likes/increment", &out)
	return out.Likes, err
}

func (c *Client) BookmarkState(ctx context.Context, slug string) (bool, error) {
	var out bookmarkState
	err := c.get(ctx, "/api/v1/articles/"+url.PathEscape(slug)+"/bookmark", &out)
	return out.Bookmarked, err
}

func (c *Client) ToggleBookmark(ctx context.Context, slug string) (bool, error) {
	var out bookmarkState
	err := c.post(ctx, "/api/v1/articles/"+url.PathEscape(slug)+"/bookmark", &out)
	return out.Bookmarked, err
}

func (c *Client) SubscriptionState(ctx context.Context, authorID string) (SubscriptionState, error) {
	var out SubscriptionState
	err := c.get(ctx, "/api/v1/authors/"+url.PathEscape(authorID)+"/subscription", &out)
	return out, err
}

func (c *Client) ToggleSubscription(ctx context.Context, authorID string) (SubscriptionState, error) {
	var out SubscriptionState
	err := c.post(ctx, "/api/v1/authors/"+url.PathEscape(authorID)+"/subscription", &out)
	return out, err
}

// BookmarkSlugs fetches the authoritative snapshot listing used to replace
// the local snapshot wholesale on sign-in.
func (c *Client) BookmarkSlugs(ctx context.Context) ([]string, error) {
	var out slugsPayload
	if err := c.get(ctx, "/api/v1/users/me/bookmarks/slugs", &out); err != nil {
		return nil, err
	}
	return out.Slugs, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 && c.retry.Backoff > 0 {
			select {
			case <-time.After(c.retry.Backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		lastErr = c.do(ctx, http.MethodGet, path, out)
		if lastErr == nil || errors.Is(lastErr, ErrNotFound) || errors.Is(lastErr, ErrUnauthorized) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodPost, path, out)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if method == http.MethodPost {
		body = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("client: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}
