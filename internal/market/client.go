// Package market provides HTTP clients for the token market data APIs.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"solana-token-scanner/internal/observability"
)

// Source names used in errors, metrics and cache keys.
const (
	SourceSecurity    = "birdeye_security"
	SourceOverview    = "birdeye_overview"
	SourceDexScreener = "dexscreener"
)

// DefaultTimeout bounds every upstream request.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps the response body read from an upstream API.
const maxBodySize = 4 << 20

// StatusError is returned when an upstream API answers with a non-2xx status.
type StatusError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Source, e.StatusCode, e.Body)
}

// Option configures a client.
type Option func(*options)

type options struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func buildOptions(baseURL string, opts []Option) options {
	o := options{
		baseURL: baseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		// Requests are bounded by a context deadline instead of Client.Timeout.
		o.httpClient = &http.Client{}
	}
	return o
}

// getJSON performs a GET request bounded by timeout and decodes the JSON body into dest.
func getJSON(ctx context.Context, client *http.Client, timeout time.Duration, source, url string, header http.Header, dest interface{}) (err error) {
	start := time.Now()
	defer func() {
		observability.RecordUpstream(source, time.Since(start).Seconds(), err)
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", source, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", source, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return &StatusError{Source: source, StatusCode: resp.StatusCode, Body: snippet}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%s: decode response: %w", source, err)
	}
	return nil
}

// optFloat decodes a JSON number or numeric string. Anything else leaves it unset.
type optFloat struct {
	Value *float64
}

func (f *optFloat) UnmarshalJSON(b []byte) error {
	f.Value = nil
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.Value = &v
	return nil
}

// optString decodes a JSON string. Null, empty and non-string values leave it unset.
type optString struct {
	Value *string
}

func (s *optString) UnmarshalJSON(b []byte) error {
	s.Value = nil
	var v string
	if err := json.Unmarshal(b, &v); err != nil || v == "" {
		return nil
	}
	s.Value = &v
	return nil
}

func (s optString) String() string {
	if s.Value == nil {
		return ""
	}
	return *s.Value
}
