package ghapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryanjha256/gitflux-sub000/internal/analytics"
)

// analyticsWindow builds a window from RFC 3339 bounds; empty means open.
func analyticsWindow(since, until string) analytics.Window {
	var w analytics.Window
	if since != "" {
		w.Since, _ = time.Parse(time.RFC3339, since)
	}
	if until != "" {
		w.Until, _ = time.Parse(time.RFC3339, until)
	}
	return w
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL})
}

func writeRateHeaders(w http.ResponseWriter, limit, remaining int64) {
	w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
}

func TestValidateOwnerRepo(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		repo    string
		wantErr bool
	}{
		{name: "valid", owner: "octocat", repo: "hello-world", wantErr: false},
		{name: "valid with dots", owner: "some-org", repo: "repo.name_v2", wantErr: false},
		{name: "empty owner", owner: "", repo: "repo", wantErr: true},
		{name: "empty repo", owner: "octocat", repo: "", wantErr: true},
		{name: "owner too long", owner: strings.Repeat("a", 40), repo: "repo", wantErr: true},
		{name: "repo too long", owner: "octocat", repo: strings.Repeat("a", 101), wantErr: true},
		{name: "leading hyphen", owner: "-bad", repo: "repo", wantErr: true},
		{name: "path traversal", owner: "octocat", repo: "../etc", wantErr: true},
		{name: "whitespace", owner: "octo cat", repo: "repo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOwnerRepo(tt.owner, tt.repo)
			if tt.wantErr {
				var valErr *ValidationError
				assert.ErrorAs(t, err, &valErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestClientErrorMapping verifies every failure status maps to its taxonomy
// kind.
func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		remaining int64
		check     func(t *testing.T, err error)
	}{
		{
			name:   "404 not found",
			status: http.StatusNotFound,
			body:   `{"message":"Not Found"}`,
			check: func(t *testing.T, err error) {
				var notFound *NotFoundError
				assert.ErrorAs(t, err, &notFound)
			},
		},
		{
			name:   "429 rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"message":"too many requests"}`,
			check: func(t *testing.T, err error) {
				var rateErr *RateLimitError
				assert.ErrorAs(t, err, &rateErr)
			},
		},
		{
			name:      "403 with depleted quota",
			status:    http.StatusForbidden,
			body:      `{"message":"API rate limit exceeded for user"}`,
			remaining: 0,
			check: func(t *testing.T, err error) {
				var rateErr *RateLimitError
				assert.ErrorAs(t, err, &rateErr)
				assert.False(t, rateErr.Reset.IsZero())
			},
		},
		{
			name:      "403 permissions",
			status:    http.StatusForbidden,
			body:      `{"message":"Resource not accessible by integration"}`,
			remaining: 4000,
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
			},
		},
		{
			name:      "503 server error",
			status:    http.StatusServiceUnavailable,
			body:      `{}`,
			remaining: 4000,
			check: func(t *testing.T, err error) {
				var netErr *TransientNetworkError
				assert.ErrorAs(t, err, &netErr)
				assert.True(t, IsRetryable(err))
			},
		},
		{
			name:      "422 unprocessable",
			status:    http.StatusUnprocessableEntity,
			body:      `{"message":"Validation Failed"}`,
			remaining: 4000,
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, "Validation Failed", httpErr.Message)
				assert.False(t, IsRetryable(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeRateHeaders(w, 5000, tt.remaining)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.get(context.Background(), "/repos/a/b", nil, nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

// TestClientEnvelopeParsing verifies the rate headers round-trip into the
// envelope, with clamping when the server reports nonsense.
func TestClientEnvelopeParsing(t *testing.T) {
	reset := time.Now().Add(30 * time.Minute).Unix()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "4321")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		fmt.Fprint(w, `{}`)
	})

	env, err := client.get(context.Background(), "/repos/a/b", nil, nil)

	require.NoError(t, err)
	assert.True(t, env.Known())
	assert.Equal(t, int64(5000), env.Limit)
	assert.Equal(t, int64(4321), env.Remaining)
	assert.Equal(t, time.Unix(reset, 0), env.Reset)
}

func TestParseRateEnvelopeClamping(t *testing.T) {
	h := http.Header{}
	h.Set("X-RateLimit-Limit", "100")
	h.Set("X-RateLimit-Remaining", "250")
	env := parseRateEnvelope(h)
	assert.Equal(t, int64(100), env.Remaining)

	h.Set("X-RateLimit-Remaining", "-5")
	env = parseRateEnvelope(h)
	assert.Equal(t, int64(0), env.Remaining)

	assert.False(t, parseRateEnvelope(http.Header{}).Known())
}

// TestClientAuthHeader verifies the token travels as a bearer credential and
// is omitted when unset.
func TestClientAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	withToken := NewClient(Config{BaseURL: server.URL, Token: "ghp_secret"})
	_, err := withToken.get(context.Background(), "/user", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_secret", gotAuth)

	anonymous := NewClient(Config{BaseURL: server.URL})
	_, err = anonymous.get(context.Background(), "/user", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

// TestFetchCommitsWindowQuery verifies the window bounds travel as since/until
// query parameters.
func TestFetchCommitsWindowQuery(t *testing.T) {
	var gotSince, gotUntil string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSince = r.URL.Query().Get("since")
		gotUntil = r.URL.Query().Get("until")
		writeRateHeaders(w, 5000, 4000)
		fmt.Fprint(w, `[]`)
	})

	window := analyticsWindow("2024-01-01T00:00:00Z", "2024-02-01T00:00:00Z")
	result, skipped, err := client.FetchCommits(context.Background(), "octocat", "hello", window, FetchOptions{Retry: fastRetry()})

	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Empty(t, result.Records)
	assert.Equal(t, "2024-01-01T00:00:00Z", gotSince)
	assert.Equal(t, "2024-02-01T00:00:00Z", gotUntil)
}

// TestFetchCommitsSkipsUnparsable verifies malformed records are dropped and
// counted instead of failing the fetch.
func TestFetchCommitsSkipsUnparsable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRateHeaders(w, 5000, 4000)
		fmt.Fprint(w, `[
			{"sha":"aaa111","commit":{"message":"good","author":{"name":"Ada","date":"2024-03-01T10:00:00Z"}},"author":{"login":"ada"}},
			{"sha":"bbb222","commit":{"message":"bad date","author":{"name":"Bob","date":"not-a-date"}}},
			{"sha":"","commit":{"message":"no sha","author":{"name":"Eve","date":"2024-03-01T11:00:00Z"}}}
		]`)
	})

	result, skipped, err := client.FetchCommits(context.Background(), "octocat", "hello", analyticsWindow("", ""), FetchOptions{Retry: fastRetry()})

	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "aaa111", result.Records[0].SHA)
	assert.Equal(t, "Ada", result.Records[0].Author)
	assert.Equal(t, "ada", result.Records[0].Login)
}

func TestMapCommitAuthorFallback(t *testing.T) {
	var wire commitResponse
	wire.SHA = "abc"
	wire.Commit.Author.Date = "2024-05-01T12:00:00Z"
	wire.Author = &struct {
		Login string `json:"login"`
	}{Login: "ghost"}

	record, ok := mapCommit(wire)
	require.True(t, ok)
	assert.Equal(t, "ghost", record.Author)
}

func TestMapFileStatus(t *testing.T) {
	assert.Equal(t, "added", string(mapFileStatus("added")))
	assert.Equal(t, "added", string(mapFileStatus("copied")))
	assert.Equal(t, "deleted", string(mapFileStatus("removed")))
	assert.Equal(t, "renamed", string(mapFileStatus("renamed")))
	assert.Equal(t, "modified", string(mapFileStatus("changed")))
}
