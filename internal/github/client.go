// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"github.com/staranto/ghctl/internal/version"
)

// DefaultHost is the public GitHub REST API.
const DefaultHost = "https://api.github.com"

// DefaultTimeout bounds a single request. Zero disables the bound.
const DefaultTimeout = 30 * time.Second

// Profile is the subset of the /users/{username} payload that ghctl uses.
type Profile struct {
	Followers int
	Following int
	CreatedAt string
	// PublicRepos is the repository count reported by the profile endpoint.
	// It is decoded but never merged; cached records carry actual names.
	PublicRepos int
}

// Repository is one element of the /users/{username}/repos payload.
type Repository struct {
	Name string
}

// HTTPClient is the part of *http.Client the Client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a GitHub compatible REST API.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient HTTPClient
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled client. The timeout option is ignored
// when a custom client is supplied.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient returns a Client for baseURL. An empty baseURL means DefaultHost.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultHost
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "ghctl/" + version.Version,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		hc := cleanhttp.DefaultPooledClient()
		hc.Timeout = c.timeout
		c.httpClient = hc
	}

	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Profile fetches the profile of username.
func (c *Client) Profile(ctx context.Context, username string) (Profile, error) {
	op := "profile " + username
	body, err := c.get(ctx, op, "/users/"+url.PathEscape(username))
	if err != nil {
		return Profile{}, err
	}

	doc := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !doc.IsObject() {
		return Profile{}, fmt.Errorf("%s: %w", op, ErrMalformedResponse)
	}

	p := Profile{
		Followers:   int(doc.Get("followers").Int()),
		Following:   int(doc.Get("following").Int()),
		CreatedAt:   doc.Get("created_at").String(),
		PublicRepos: int(doc.Get("public_repos").Int()),
	}
	if p.Followers < 0 || p.Following < 0 {
		return Profile{}, fmt.Errorf("%s: negative counter: %w", op, ErrMalformedResponse)
	}

	return p, nil
}

// Repositories fetches the repository list of username in the order the
// service returns it. Only the first page is read.
func (c *Client) Repositories(ctx context.Context, username string) ([]Repository, error) {
	op := "repositories " + username
	body, err := c.get(ctx, op, "/users/"+url.PathEscape(username)+"/repos")
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !doc.IsArray() {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedResponse)
	}

	items := doc.Array()
	repos := make([]Repository, 0, len(items))
	for i, item := range items {
		name := item.Get("name")
		if name.Type != gjson.String {
			return nil, fmt.Errorf("%s: element %d has no name: %w", op, i, ErrMalformedResponse)
		}
		repos = append(repos, Repository{Name: name.String()})
	}

	return repos, nil
}

// get issues a GET for path and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)

	log.WithField("url", req.URL.String()).Debug("GET")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, &ConnectionError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	log.WithField("status", resp.StatusCode).Debugf("%s done", op)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResponseError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       errorMessage(resp.StatusCode, doc.Bytes()),
		}
	}

	return doc.Bytes(), nil
}

// errorMessage extracts the useful part of an error payload. GitHub answers
// with {"message": "..."}; anything else is passed through as is.
func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && msg.String() != "" {
			return msg.String()
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return http.StatusText(status)
}
