// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, routes map[string]func(http.ResponseWriter, *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func reply(status int, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_Profile(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       Profile
		wantErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:   "ok",
			status: http.StatusOK,
			body:   `{"login":"octocat","followers":100,"following":9,"created_at":"2011-01-01","public_repos":8}`,
			want:   Profile{Followers: 100, Following: 9, CreatedAt: "2011-01-01", PublicRepos: 8},
		},
		{
			name:       "not found with message",
			status:     http.StatusNotFound,
			body:       `{"message":"Not Found","documentation_url":"https://docs.github.com"}`,
			wantStatus: http.StatusNotFound,
			wantBody:   "Not Found",
		},
		{
			name:       "plain text error",
			status:     http.StatusBadGateway,
			body:       "upstream unavailable\n",
			wantStatus: http.StatusBadGateway,
			wantBody:   "upstream unavailable",
		},
		{
			name:       "empty error body",
			status:     http.StatusForbidden,
			wantStatus: http.StatusForbidden,
			wantBody:   "Forbidden",
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    "<html></html>",
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "array instead of object",
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "negative counter",
			status:  http.StatusOK,
			body:    `{"followers":-1,"following":0,"created_at":"x"}`,
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
				"/users/octocat": reply(tt.status, tt.body),
			})

			got, err := NewClient(srv.URL).Profile(context.Background(), "octocat")

			switch {
			case tt.wantStatus != 0:
				var re *ResponseError
				require.True(t, errors.As(err, &re), "want ResponseError, got %v", err)
				assert.Equal(t, tt.wantStatus, re.StatusCode)
				assert.Equal(t, tt.wantBody, re.Body)
				_, isConn := AsConnectionError(err)
				assert.False(t, isConn)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClient_Repositories(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    []Repository
		wantErr bool
	}{
		{
			name:   "keeps response order",
			status: http.StatusOK,
			body:   `[{"name":"Hello-World","id":1},{"name":"Spoon-Knife","id":2}]`,
			want:   []Repository{{Name: "Hello-World"}, {Name: "Spoon-Knife"}},
		},
		{
			name:   "empty list",
			status: http.StatusOK,
			body:   `[]`,
			want:   []Repository{},
		},
		{
			name:    "element without name",
			status:  http.StatusOK,
			body:    `[{"id":1}]`,
			wantErr: true,
		},
		{
			name:    "object instead of array",
			status:  http.StatusOK,
			body:    `{"name":"Hello-World"}`,
			wantErr: true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"message":"boom"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
				"/users/octocat/repos": reply(tt.status, tt.body),
			})

			got, err := NewClient(srv.URL+"/").Repositories(context.Background(), "octocat")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_SendsHeadersAndEscapesUsername(t *testing.T) {
	var gotPath, gotAccept, gotUA, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"followers":1,"following":2,"created_at":"c"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithUserAgent("ghctl-test"))
	_, err := c.Profile(context.Background(), "a b")
	require.NoError(t, err)

	assert.Equal(t, "/users/a%20b", gotPath)
	assert.Equal(t, "application/vnd.github+json", gotAccept)
	assert.Equal(t, "ghctl-test", gotUA)
	assert.Empty(t, gotAuth, "no authentication is sent")
}

func TestClient_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient(addr).Profile(context.Background(), "octocat")
	require.Error(t, err)
	_, ok := AsConnectionError(err)
	assert.True(t, ok)
	_, ok = AsResponseError(err)
	assert.False(t, ok)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond)).Profile(context.Background(), "octocat")
	require.Error(t, err)
	_, ok := AsConnectionError(err)
	assert.True(t, ok)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultHost, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.timeout)

	c = NewClient("http://example.test///")
	assert.Equal(t, "http://example.test", c.BaseURL())
}
