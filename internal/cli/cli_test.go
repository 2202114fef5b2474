package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliffyan/go-searxng-mcp/internal/config"
	"github.com/cliffyan/go-searxng-mcp/internal/search"
)

// fakeBuilder 记录请求，返回固定结果
type fakeBuilder struct {
	results []search.Result
	calls   int
	last    search.Request
	cfg     *config.Config
	closed  bool
}

func (f *fakeBuilder) build(cfg *config.Config) (SearchFunc, func(), error) {
	f.cfg = cfg
	return func(_ context.Context, req search.Request) search.Response {
		f.calls++
		f.last = req
		results := f.results
		if results == nil {
			results = []search.Result{}
		}
		return search.Response{Results: results, Query: req.Query, TotalResults: len(results)}
	}, func() { f.closed = true }, nil
}

func runCLI(t *testing.T, f *fakeBuilder, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("SEARX_HOST", "")
	t.Setenv("SEARX_LOG_LEVEL", "")
	t.Setenv("CONFIG_FILE", "")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(f.build)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	code := Execute(context.Background(), cmd, args)
	return code, stdout.String(), stderr.String()
}

var twoResults = []search.Result{
	{Title: "Go", URL: "https://go.dev", Content: "The Go programming language"},
	{Title: "Tour", URL: "https://go.dev/tour", Content: ""},
}

func TestSearch_HumanOutput(t *testing.T) {
	f := &fakeBuilder{results: twoResults}
	code, out, _ := runCLI(t, f, "golang", "tutorial")

	assert.Equal(t, 0, code)
	assert.Equal(t, "1. Go\n   URL: https://go.dev\n   The Go programming language\n\n"+
		"2. Tour\n   URL: https://go.dev/tour\n\n"+
		"Found 2 results.\n", out)
	assert.Equal(t, "golang tutorial", f.last.Query)
	assert.True(t, f.closed)
}

func TestSearch_JSONOutput(t *testing.T) {
	f := &fakeBuilder{results: twoResults}
	code, out, _ := runCLI(t, f, "--json", "golang")

	assert.Equal(t, 0, code)
	var got []search.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, twoResults, got)
}

func TestSearch_NoResults(t *testing.T) {
	code, out, _ := runCLI(t, &fakeBuilder{}, "asdkjasdkj1298")
	assert.Equal(t, 1, code)
	assert.Equal(t, "No results found.\n", out)

	code, out, _ = runCLI(t, &fakeBuilder{}, "--json", "asdkjasdkj1298")
	assert.Equal(t, 1, code)
	assert.Equal(t, "[]\n", out)
}

func TestSearch_FlagsBuildRequest(t *testing.T) {
	f := &fakeBuilder{results: twoResults}
	code, _, _ := runCLI(t, f,
		"--host", "https://searx.example.org",
		"--num-results", "5",
		"--engines", "google, bing",
		"--categories", "news",
		"--time-range", "day",
		"climate", "change",
	)

	require.Equal(t, 0, code)
	assert.Equal(t, search.Request{
		Host:       "https://searx.example.org",
		Query:      "climate change",
		NumResults: 5,
		Engines:    []string{"google", "bing"},
		Categories: []string{"news"},
		TimeRange:  search.TimeRangeDay,
	}, f.last)
}

func TestSearch_DefaultHost(t *testing.T) {
	f := &fakeBuilder{results: twoResults}
	runCLI(t, f, "q")
	assert.Equal(t, config.DefaultSearxHost, f.last.Host)
	assert.Equal(t, search.DefaultNumResults, f.last.NumResults)
	assert.Nil(t, f.last.Engines)
}

func TestSearch_HostFromEnv(t *testing.T) {
	f := &fakeBuilder{results: twoResults}
	var stdout bytes.Buffer
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SEARX_HOST", "http://env-host:9999")

	cmd := NewRootCmd(f.build)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	require.Equal(t, 0, Execute(context.Background(), cmd, []string{"q"}))
	assert.Equal(t, "http://env-host:9999", f.last.Host)
}

func TestSearch_ConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("searx:\n  host: http://file-host:8080\nlog:\n  level: warn\n"), 0o600))

	f := &fakeBuilder{results: twoResults}
	code, _, _ := runCLI(t, f, "--config", path, "--log-level", "debug", "q")
	require.Equal(t, 0, code)
	assert.Equal(t, "http://file-host:8080", f.last.Host)
	assert.Equal(t, "debug", f.cfg.Log.Level)

	code, _, stderr := runCLI(t, &fakeBuilder{}, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "q")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "read config file failed")
}

func TestSearch_UsageErrorsSkipSearch(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no query", []string{}, "requires at least 1 arg"},
		{"bad time range", []string{"--time-range", "week", "q"}, "invalid time range"},
		{"zero results", []string{"--num-results", "0", "q"}, "--num-results must be a positive integer"},
		{"bad host", []string{"--host", "localhost:8888", "q"}, "--host must be an http(s) URL"},
		{"unknown flag", []string{"--nope", "q"}, "unknown flag"},
		{"blank query", []string{"   "}, "query must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeBuilder{results: twoResults}
			code, _, stderr := runCLI(t, f, tt.args...)

			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, tt.want)
			assert.Equal(t, 0, f.calls, "no search on invalid input")
		})
	}
}

func TestSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Setenv("SEARX_HOST", "")
	t.Setenv("CONFIG_FILE", "")

	var stdout bytes.Buffer
	cmd := NewRootCmd(func(*config.Config) (SearchFunc, func(), error) {
		return func(context.Context, search.Request) search.Response {
			cancel()
			return search.Response{Results: []search.Result{}}
		}, func() {}, nil
	})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)

	code := Execute(ctx, cmd, []string{"q"})
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Search cancelled.")
	assert.NotContains(t, stdout.String(), "No results found.")
}

func TestHelpListsCatalog(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd((&fakeBuilder{}).build)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	code := Execute(context.Background(), cmd, []string{"--help"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Available categories:")
	assert.Contains(t, out.String(), "news: google news")
	assert.Contains(t, out.String(), "--time-range")
}
