// Package api talks to a Whoogle-compatible search instance.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oakwood-commons/searchbar/internal/results"
	"github.com/oakwood-commons/searchbar/pkg/logger"
)

// ErrEmptyQuery is returned when a lookup is attempted without a query.
var ErrEmptyQuery = errors.New("query is empty")

// DefaultTimeout bounds every request when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// MaxResponseBytes caps the size of a response body.
const MaxResponseBytes = 8 << 20

// ErrResponseTooLarge is returned when a body exceeds MaxResponseBytes.
var ErrResponseTooLarge = fmt.Errorf("response exceeds %d bytes", MaxResponseBytes)

// StatusError reports a non-2xx response.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", e.Op, e.Code, http.StatusText(e.Code))
}

// Options tune a Client.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client communicates with the instance's /autocomplete, /config and
// /search endpoints.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a client for the instance at baseURL.
func NewClient(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: opts.UserAgent,
		http:      hc,
	}
}

// BaseURL returns the instance root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Autocomplete posts q to /autocomplete and returns the candidates at
// index 1 of the response array. An object response, which the instance
// sends when autocomplete is disabled, yields no candidates.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]string, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	form := url.Values{"q": {query}}
	body, err := c.do(ctx, "autocomplete", http.MethodPost, "/autocomplete", form)
	if err != nil {
		return nil, err
	}
	return decodeSuggestions(body)
}

func decodeSuggestions(body []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] == '{' {
		return nil, nil
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(trimmed, &parts); err != nil {
		return nil, fmt.Errorf("decode autocomplete response: %w", err)
	}
	if len(parts) < 2 {
		return nil, nil
	}
	var candidates []string
	if err := json.Unmarshal(parts[1], &candidates); err != nil {
		return nil, fmt.Errorf("decode autocomplete candidates: %w", err)
	}
	return candidates, nil
}

// GetConfig returns the instance's current preferences.
func (c *Client) GetConfig(ctx context.Context) (map[string]any, error) {
	body, err := c.do(ctx, "get config", http.MethodGet, "/config", nil)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return values, nil
}

// LoadConfig switches the instance to the saved configuration name.
func (c *Client) LoadConfig(ctx context.Context, name string) error {
	_, err := c.do(ctx, "load config", http.MethodPut, configPath(name), nil)
	return err
}

// SaveConfig stores form under name on the instance.
func (c *Client) SaveConfig(ctx context.Context, name string, form url.Values) error {
	if form == nil {
		form = url.Values{}
	}
	_, err := c.do(ctx, "save config", http.MethodPost, configPath(name), form)
	return err
}

// ApplyConfig replaces the instance's active preferences with form without
// storing them under a name.
func (c *Client) ApplyConfig(ctx context.Context, form url.Values) error {
	if form == nil {
		form = url.Values{}
	}
	_, err := c.do(ctx, "apply config", http.MethodPost, "/config", form)
	return err
}

func configPath(name string) string {
	return "/config?" + url.Values{"name": {name + ".conf"}}.Encode()
}

// SearchRequest describes one query against /search.
type SearchRequest struct {
	Query   string
	Country string
	// GetOnly sends the query as URL parameters instead of a form post.
	GetOnly bool
}

// Search runs req and parses the results page.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]results.Result, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	params := url.Values{"q": {req.Query}}
	if req.Country != "" {
		params.Set("country", req.Country)
	}

	var (
		body []byte
		err  error
	)
	if req.GetOnly {
		body, err = c.do(ctx, "search", http.MethodGet, "/search?"+params.Encode(), nil)
	} else {
		body, err = c.do(ctx, "search", http.MethodPost, "/search", params)
	}
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return results.Parse(bytes.NewReader(body), base)
}

func (c *Client) do(ctx context.Context, op, method, path string, form url.Values) ([]byte, error) {
	lgr := logger.FromContext(ctx)

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	if len(body) > MaxResponseBytes {
		return nil, fmt.Errorf("%s: %w", op, ErrResponseTooLarge)
	}
	lgr.V(1).Info("instance request", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, Code: resp.StatusCode}
	}
	return body, nil
}
