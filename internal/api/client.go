// Package api wraps the Bilibili web API: an authenticated HTTP client
// with plain and WBI-signed GETs, plus the typed endpoints the
// downloader needs.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oviron/bilidown/internal/wbi"
)

const (
	// UserAgent is sent on every request, downloads included.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"
	// Referer is required by the CDN on stream downloads as well.
	Referer = "https://www.bilibili.com/"
)

// Client issues authenticated requests. The cookie set is replaced
// wholesale at login completion, never partially mutated; the mutex
// covers login racing with in-flight calls.
type Client struct {
	HTTP *http.Client
	Keys *wbi.KeyCache

	// Now supplies the signing timestamp; tests override it.
	Now func() time.Time

	mu      sync.RWMutex
	cookies []string
}

// NewClient builds a client around a shared transport and key cache.
func NewClient(httpClient *http.Client, keys *wbi.KeyCache) *Client {
	return &Client{HTTP: httpClient, Keys: keys, Now: time.Now}
}

// SetCookies replaces the cookie set.
func (c *Client) SetCookies(cookies []string) {
	c.mu.Lock()
	c.cookies = cookies
	c.mu.Unlock()
}

// Cookies returns a copy of the current cookie set.
func (c *Client) Cookies() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.cookies))
	copy(out, c.cookies)
	return out
}

func (c *Client) cookieHeader() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.Join(c.cookies, "; ")
}

// Get issues an unsigned GET with the fixed headers attached.
func (c *Client) Get(ctx context.Context, rawURL string, params []wbi.Param) (*http.Response, error) {
	return c.do(ctx, rawURL, params)
}

// SignedGet signs the parameters with the cached key pair and the
// current timestamp before issuing the request.
func (c *Client) SignedGet(ctx context.Context, rawURL string, params []wbi.Param) (*http.Response, error) {
	keys, err := c.Keys.Get(ctx)
	if err != nil {
		return nil, err
	}
	signed := wbi.Sign(params, keys, c.Now().Unix())
	return c.do(ctx, rawURL, signed)
}

func (c *Client) do(ctx context.Context, rawURL string, params []wbi.Param) (*http.Response, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + wbi.EncodeQuery(params)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("User-Agent", UserAgent)
	req.Header.Add("Referer", Referer)
	if cookie := c.cookieHeader(); cookie != "" {
		req.Header.Add("Cookie", cookie)
	}
	return c.HTTP.Do(req)
}

// StreamGet issues a GET against a media CDN URL with the fixed headers
// and an open-ended range, returning the raw response for streaming.
func (c *Client) StreamGet(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("User-Agent", UserAgent)
	req.Header.Add("Referer", Referer)
	req.Header.Add("Range", "bytes=0-")
	if cookie := c.cookieHeader(); cookie != "" {
		req.Header.Add("Cookie", cookie)
	}
	return c.HTTP.Do(req)
}

// APIError is an application-level error: a well-formed response whose
// envelope code is non-zero.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// envelope is the fixed {code, message, data} response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeEnvelope decodes a response body, enforces code == 0 and
// unmarshals data into v when v is non-nil.
func decodeEnvelope(resp *http.Response, v any) error {
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Code != 0 {
		return &APIError{Code: env.Code, Message: env.Message}
	}
	if v == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return &APIError{Code: -1, Message: "response carried no data"}
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
