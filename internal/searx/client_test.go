package searx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearx 返回固定响应并记录最近一次请求
type fakeSearx struct {
	status int
	body   string
	last   *http.Request
}

func (f *fakeSearx) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.last = r.Clone(context.Background())
		status := f.status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		fmt.Fprint(w, f.body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_RejectsInvalidHost(t *testing.T) {
	for _, host := range []string{"", "localhost:8888", "ftp://example.org", "http://", "://bad"} {
		_, err := NewClient(host)
		assert.ErrorIs(t, err, ErrInvalidHost, "host %q", host)
	}
}

func TestNewClient_BrowserNeedsHTML(t *testing.T) {
	_, err := NewClient("http://localhost:8888", WithFetcher(NewBrowserFetcher("", true, 0, nil)))
	assert.ErrorIs(t, err, ErrBrowserRequiresHTML)

	_, err = NewClient("http://localhost:8888", WithFormat(FormatHTML), WithFetcher(NewBrowserFetcher("", true, 0, nil)))
	assert.NoError(t, err)
}

func TestSearchURL_Params(t *testing.T) {
	c, err := NewClient("https://searx.example.org/searx/",
		WithEngines([]string{"google", "bing", "google"}),
		WithCategories([]string{"News"}),
		WithLanguage("en"),
	)
	require.NoError(t, err)

	u, err := url.Parse(c.SearchURL("climate change", WithTimeRange("day")))
	require.NoError(t, err)

	assert.Equal(t, "/searx/search", u.Path)
	q := u.Query()
	assert.Equal(t, "climate change", q.Get("q"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Equal(t, "google,bing,google", q.Get("engines"))
	assert.Equal(t, "News", q.Get("categories"))
	assert.Equal(t, "day", q.Get("time_range"))
}

func TestSearchURL_OmitsUnsetFilters(t *testing.T) {
	c, err := NewClient("http://localhost:8888")
	require.NoError(t, err)

	u, err := url.Parse(c.SearchURL("q", WithTimeRange("")))
	require.NoError(t, err)

	q := u.Query()
	for _, key := range []string{"engines", "categories", "time_range", "language"} {
		_, present := q[key]
		assert.False(t, present, "%s should be omitted", key)
	}
	assert.Equal(t, "/search", u.Path)
}

func TestResults_JSON(t *testing.T) {
	fake := &fakeSearx{body: `{"query":"go","number_of_results":2,"results":[
		{"title":"Go","url":"https://go.dev","content":"The Go language","engine":"bing"},
		{"title":"Tour","url":"https://go.dev/tour","score":1.5}
	]}`}
	srv := fake.start(t)

	c, err := NewClient(srv.URL, WithUserAgent("test-agent"))
	require.NoError(t, err)

	records, err := c.Results(context.Background(), "go", WithRequestID("req-1"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Go", records[0]["title"])
	assert.Equal(t, "https://go.dev/tour", records[1]["url"])
	assert.Equal(t, 1.5, records[1]["score"])

	require.NotNil(t, fake.last)
	assert.Equal(t, "application/json", fake.last.Header.Get("Accept"))
	assert.Equal(t, "test-agent", fake.last.Header.Get("User-Agent"))
	assert.Equal(t, "req-1", fake.last.Header.Get("X-Request-ID"))
}

func TestResults_ReturnsWholePage(t *testing.T) {
	items := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		items = append(items, fmt.Sprintf(`{"title":"R%d"}`, i))
	}
	fake := &fakeSearx{body: `{"results":[` + strings.Join(items, ",") + `]}`}
	srv := fake.start(t)

	c, err := NewClient(srv.URL, WithFetcher(NewHTTPFetcherWithClient(srv.Client())))
	require.NoError(t, err)

	records, err := c.Results(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, records, 8)
	assert.Equal(t, "R0", records[0]["title"])
	assert.Equal(t, "R7", records[7]["title"])
}

func TestResults_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"forbidden", http.StatusForbidden, "json format disabled", ErrUnexpectedStatus},
		{"not json", http.StatusOK, "<html></html>", ErrMalformedResponse},
		{"missing results", http.StatusOK, `{"query":"x"}`, ErrMalformedResponse},
		{"results not objects", http.StatusOK, `{"results":["a","b"]}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSearx{status: tt.status, body: tt.body}
			srv := fake.start(t)

			c, err := NewClient(srv.URL)
			require.NoError(t, err)

			_, err = c.Results(context.Background(), "q")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResults_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(addr)
	require.NoError(t, err)

	_, err = c.Results(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestResults_ContextCancelled(t *testing.T) {
	fake := &fakeSearx{body: `{"results":[]}`}
	srv := fake.start(t)

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Results(ctx, "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type stubFetcher struct {
	body    []byte
	gotURL  string
	headers map[string]string
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	s.gotURL = rawURL
	s.headers = headers
	return s.body, nil
}

func TestResults_HTMLFormat(t *testing.T) {
	stub := &stubFetcher{body: []byte(searxResultsPage)}
	c, err := NewClient("http://localhost:8888", WithFormat(FormatHTML), WithFetcher(stub))
	require.NoError(t, err)

	records, err := c.Results(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, records, 3)

	u, err := url.Parse(stub.gotURL)
	require.NoError(t, err)
	_, hasFormat := u.Query()["format"]
	assert.False(t, hasFormat, "html mode must not request format=json")
	assert.Contains(t, stub.headers["Accept"], "text/html")
}
