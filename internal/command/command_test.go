// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/ghctl/internal/meta"
)

func apiServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"followers":100,"following":9,"created_at":"2011-01-25T18:44:36Z","public_repos":2}`))
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"Hello-World"},{"name":"Spoon-Knife"}]`))
	})
	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// syncBuffer lets the shell and the fetch goroutines share one writer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runApp(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("GHCTL_CFG", "/nonexistent/ghctl.yaml")

	var out, errOut syncBuffer
	app := NewApp(meta.Meta{
		Args:   args,
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &errOut,
	})
	err := app.Run(context.Background(), args)
	return out.String(), errOut.String(), err
}

func TestFetchCommand(t *testing.T) {
	srv := apiServer(t)

	out, diag, err := runApp(t, "", "ghctl", "fetch", "--host", srv.URL, "--output", "json", "octocat")
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "octocat", got[0]["username"])
	assert.EqualValues(t, 100, got[0]["followers"])
	assert.Equal(t, []interface{}{"Hello-World", "Spoon-Knife"}, got[0]["repos"])
	assert.Contains(t, diag, "User octocat fetched and stored in memory.")
}

func TestFetchCommand_PartialFailure(t *testing.T) {
	srv := apiServer(t)

	out, diag, err := runApp(t, "", "ghctl", "fetch", "--host", srv.URL, "-o", "json", "octocat", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, diag, "Error fetching data: Not Found")

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "octocat", got[0]["username"])
}

func TestFetchCommand_NoUsers(t *testing.T) {
	_, _, err := runApp(t, "", "ghctl", "fetch")
	assert.ErrorIs(t, err, errNoUsers)
}

func TestFetchCommand_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown output", args: []string{"--output", "xml"}},
		{name: "relative host", args: []string{"--host", "api.github.com"}},
		{name: "negative timeout", args: []string{"--timeout=-1s"}},
		{name: "malformed attrs", args: []string{"--attrs", "a:b:c:d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"ghctl", "fetch"}, tt.args...)
			args = append(args, "octocat")
			_, _, err := runApp(t, "", args...)
			assert.Error(t, err)
		})
	}
}

func TestShellCommand(t *testing.T) {
	srv := apiServer(t)

	// End of input exits, which cancels the fetch if it is still running, so
	// only the menu flow is checked here.
	out, _, err := runApp(t, "1\noctocat\n2\n", "ghctl", "shell", "--host", srv.URL, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter GitHub username:")
	assert.Contains(t, out, "Exiting the program.")
	assert.NotContains(t, out, "Invalid option")
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := runApp(t, "", "ghctl", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _ghctl ghctl")

	out, _, err = runApp(t, "", "ghctl", "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef ghctl")
}

func TestValidators(t *testing.T) {
	assert.NoError(t, OutputValidator("json"))
	assert.Error(t, OutputValidator("xml"))

	assert.NoError(t, JammedFlagValidator("followers>1"))
	assert.Error(t, JammedFlagValidator("--output"))

	assert.NoError(t, HostValidator("https://api.github.com"))
	assert.NoError(t, HostValidator("http://127.0.0.1:8080"))
	assert.Error(t, HostValidator("api.github.com"))
	assert.Error(t, HostValidator("ftp://example.com"))

	assert.NoError(t, FlagValidators("text", JammedFlagValidator, OutputValidator))
	assert.Error(t, FlagValidators("--text", JammedFlagValidator, OutputValidator))
}

func TestInitApp_Namespace(t *testing.T) {
	t.Setenv("GHCTL_CFG", "/nonexistent/ghctl.yaml")

	app, err := InitApp(context.Background(), []string{"ghctl", "fetch"})
	require.NoError(t, err)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"shell", "fetch", "completion"}, names)

	m := GetMeta(app.Commands[1])
	assert.Equal(t, "fetch", m.Config.Namespace)
}
