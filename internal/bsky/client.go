package bsky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://bsky.social"
	DefaultTimeout    = 30 * time.Second
	DefaultRPS        = 5
	MaxPageSize       = 100
	userAgent         = "bskypulse/1.0"
	createSessionPath = "/xrpc/com.atproto.server.createSession"
	authorFeedPath    = "/xrpc/app.bsky.feed.getAuthorFeed"
	maxErrorBody      = 4 << 10
)

// Client talks to a Bluesky PDS over plain HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client. The timeout bounds every single request;
// rps paces requests with a token bucket of burst 1.
func NewClient(baseURL string, timeout time.Duration, rps float64) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("bsky: invalid base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if rps <= 0 {
		return nil, errors.New("bsky: requests per second must be positive")
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

type createSessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// xrpcError is the error body shape returned by XRPC endpoints.
type xrpcError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Login exchanges an identifier and app password for a session.
// Every failure is an *AuthError; there is no retry.
func (c *Client) Login(ctx context.Context, identifier, secret string) (Session, error) {
	if strings.TrimSpace(identifier) == "" || secret == "" {
		return Session{}, &AuthError{Err: errors.New("identifier and password are required")}
	}

	body, err := json.Marshal(createSessionRequest{Identifier: identifier, Password: secret})
	if err != nil {
		return Session{}, &AuthError{Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createSessionPath, bytes.NewReader(body))
	if err != nil {
		return Session{}, &AuthError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return Session{}, &AuthError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Session{}, &AuthError{StatusCode: resp.StatusCode, Err: responseError(resp)}
	}

	var sess Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return Session{}, &AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode session: %w", err)}
	}
	if sess.AccessJWT == "" {
		return Session{}, &AuthError{StatusCode: resp.StatusCode, Err: errors.New("response has no access token")}
	}
	return sess, nil
}

// AuthorFeed fetches one page of actor's feed. limit is clamped to 1..100.
// An empty cursor requests the newest page.
func (c *Client) AuthorFeed(ctx context.Context, token, actor, filter, cursor string, limit int) (FeedPage, error) {
	const op = "getAuthorFeed"

	if limit < 1 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return FeedPage{}, &TransportError{Op: op, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	q := url.Values{}
	q.Set("actor", actor)
	q.Set("limit", strconv.Itoa(limit))
	if filter != "" {
		q.Set("filter", filter)
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+authorFeedPath+"?"+q.Encode(), nil)
	if err != nil {
		return FeedPage{}, &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return FeedPage{}, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return FeedPage{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrUnauthorized, responseError(resp))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FeedPage{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: responseError(resp)}
	}

	var page FeedPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return FeedPage{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode feed: %w", err)}
	}
	return page, nil
}

// responseError turns an error response body into an error, preferring the
// XRPC {error, message} shape.
func responseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var xe xrpcError
	if err := json.Unmarshal(data, &xe); err == nil && xe.Error != "" {
		if xe.Message != "" {
			return fmt.Errorf("%s: %s", xe.Error, xe.Message)
		}
		return errors.New(xe.Error)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return errors.New(text)
}
