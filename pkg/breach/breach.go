// Package breach checks stored accounts against the Have I Been Pwned
// breach database. Results are advisory: callers use them to flag items,
// never to drive authentication decisions.
package breach

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the HIBP v3 API endpoint.
const DefaultBaseURL = "https://haveibeenpwned.com/api/v3"

// Result classifies the outcome of a breach check.
type Result int

const (
	// ResultInternalError means the response could not be parsed.
	ResultInternalError Result = iota
	// ResultAuthError means the request was rejected or never completed.
	ResultAuthError
	// ResultBreachFound means the site appears in the account's breaches.
	ResultBreachFound
	// ResultNoBreach means the account is not listed as breached on the site.
	ResultNoBreach
)

// String returns a human-readable representation of the result.
func (r Result) String() string {
	switch r {
	case ResultInternalError:
		return "internal error"
	case ResultAuthError:
		return "authentication error"
	case ResultBreachFound:
		return "breach found"
	case ResultNoBreach:
		return "no breach found"
	default:
		return "unknown"
	}
}

// Check is the outcome of a lookup. Description is only populated when a
// breach is found, with any HTML markup stripped.
type Check struct {
	Result      Result
	Description string
}

// Client queries the breach database.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a breach client authenticated with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// breachRecord is the subset of the HIBP breach model we read.
type breachRecord struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

// CheckAccount looks up the account's breaches and reports whether the
// named site is among them. The call blocks until the network request
// completes, fails, or ctx is done.
func (c *Client) CheckAccount(ctx context.Context, account, siteName string) Check {
	u := c.baseURL + "/breachedaccount/" + url.PathEscape(account) + "?truncateResponse=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Check{Result: ResultInternalError}
	}
	req.Header.Set("hibp-api-key", c.apiKey)
	req.Header.Set("User-Agent", "passguard")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Check{Result: ResultAuthError}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// HIBP reports accounts with no breaches as 404.
		return Check{Result: ResultNoBreach}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Check{Result: ResultAuthError}
	case resp.StatusCode != http.StatusOK:
		return Check{Result: ResultAuthError}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Check{Result: ResultInternalError}
	}

	var breaches []breachRecord
	if err := json.Unmarshal(body, &breaches); err != nil {
		return Check{Result: ResultInternalError}
	}

	for _, b := range breaches {
		if b.Name == siteName {
			return Check{Result: ResultBreachFound, Description: StripHTML(b.Description)}
		}
	}
	return Check{Result: ResultNoBreach}
}

// StripHTML removes HTML tags from a breach description, leaving the text.
func StripHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Describe renders a check outcome for display.
func Describe(check Check, siteName string) string {
	switch check.Result {
	case ResultBreachFound:
		if check.Description != "" {
			return fmt.Sprintf("breach found on %s: %s", siteName, check.Description)
		}
		return fmt.Sprintf("breach found on %s", siteName)
	case ResultNoBreach:
		return fmt.Sprintf("no breach found on %s", siteName)
	default:
		return check.Result.String()
	}
}
