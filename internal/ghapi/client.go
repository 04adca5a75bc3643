// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (client.go) implements the HTTP client core. Every request parses
// the rate limit headers into a RateEnvelope and maps error responses into the
// typed taxonomy, so higher layers never see a raw transport failure.
package ghapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/aryanjha256/gitflux-sub000/internal/state"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint. Overridable for
	// GitHub Enterprise Server and for tests.
	DefaultBaseURL = "https://api.github.com"

	// MaxPerPage is the largest page size the REST API accepts.
	MaxPerPage = 100

	defaultHTTPTimeout = 30 * time.Second
)

// nameRule validates owner and repository identifiers: alphanumeric plus
// hyphen/underscore/dot, no leading or trailing separator.
var nameRule = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

// ValidateOwnerRepo checks both identifiers before any network traffic.
// Owner names are capped at 39 characters, repository names at 100,
// matching GitHub's rules.
func ValidateOwnerRepo(owner, repo string) error {
	if owner == "" {
		return &ValidationError{Field: "owner", Value: owner, Reason: "must not be empty"}
	}
	if len(owner) > 39 || !nameRule.MatchString(owner) {
		return &ValidationError{Field: "owner", Value: owner, Reason: "must be 1-39 alphanumeric or hyphen characters"}
	}
	if repo == "" {
		return &ValidationError{Field: "repo", Value: repo, Reason: "must not be empty"}
	}
	if len(repo) > 100 || !nameRule.MatchString(repo) {
		return &ValidationError{Field: "repo", Value: repo, Reason: "must be 1-100 characters (alphanumeric, hyphen, underscore, dot)"}
	}
	return nil
}

// Config carries client construction parameters. Token is an opaque
// credential supplied externally; the client never stores or refreshes it.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Status     *state.Status // optional run-status sink for observability
}

// Client is a minimal GitHub REST client. It is safe for concurrent use;
// all mutable run state lives in the attached state.Status.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	status     *state.Status
}

// NewClient builds a Client, filling in defaults for anything unset.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: httpClient,
		status:     cfg.Status,
	}
}

// get performs one GET request, decodes the JSON body into out, and returns
// the rate envelope from the response headers. All failures are returned as
// taxonomy errors.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (RateEnvelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return RateEnvelope{}, &ValidationError{Field: "endpoint", Value: path, Reason: err.Error()}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RateEnvelope{}, classifyTransportError("GET "+path, err)
	}
	defer resp.Body.Close()

	env := parseRateEnvelope(resp.Header)
	if c.status != nil {
		c.status.IncrementAPICalls()
		if env.Known() {
			c.status.UpdateRateLimit(env.Limit, env.Remaining, env.Reset)
		}
	}

	if resp.StatusCode != http.StatusOK {
		return env, c.classifyResponse(resp, env, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, &TransientNetworkError{Op: "read " + path, Err: err}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return env, &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("malformed response body: %v", err)}
		}
	}

	return env, nil
}

// classifyResponse maps a non-200 response to the error taxonomy, draining
// the message from the error body when one is present.
func (c *Client) classifyResponse(resp *http.Response, env RateEnvelope, path string) error {
	var apiErr apiErrorResponse
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		_ = json.Unmarshal(body, &apiErr)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Resource: path}

	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Reset: env.Reset}

	case resp.StatusCode == http.StatusForbidden && isRateLimited(env, apiErr.Message):
		return &RateLimitError{Reset: env.Reset}

	case resp.StatusCode >= 500:
		return &TransientNetworkError{
			Op:  "GET " + path,
			Err: fmt.Errorf("server returned %d", resp.StatusCode),
		}

	default:
		return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}
}

// isRateLimited distinguishes a quota-exhausted 403 from a permissions 403.
func isRateLimited(env RateEnvelope, message string) bool {
	if env.Known() && env.Remaining == 0 {
		return true
	}
	lower := strings.ToLower(message)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "abuse")
}
