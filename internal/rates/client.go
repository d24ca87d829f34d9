// Package rates fetches live exchange rates from the public REST endpoint.
// Every call is a single attempt: no retry, no backoff, no caching. Callers
// decide what to keep when a fetch fails.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/harborlane/sheetrate/internal/domain"
	"github.com/harborlane/sheetrate/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBaseURL is the open.er-api.com v6 "latest" endpoint.
const DefaultBaseURL = "https://open.er-api.com/v6/latest"

// discoveryBase is the base code used when loading the full currency set.
const discoveryBase = "USD"

// FetchError reports a failed or unusable rate fetch. Code is set when a
// requested target code was missing from an otherwise valid response.
type FetchError struct {
	Op   string // "load_all" or "get_rate"
	Code string // missing target code, if any
	Err  error
}

func (e *FetchError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("rates: %s: rate not available for %s", e.Op, e.Code)
	}
	return fmt.Sprintf("rates: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client talks to the rate REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client for the given base URL (DefaultBaseURL when
// empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// payload is the wire shape of GET {base}/{CODE}. Servers report the base
// currency as either "base_code" or "base"; both are accepted.
type payload struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	AltBase  string             `json:"base"`
	Rates    map[string]float64 `json:"rates"`
}

func (p *payload) base() string {
	if p.BaseCode != "" {
		return p.BaseCode
	}
	return p.AltBase
}

// LoadAll fetches the full rate table for the discovery base and returns the
// authoritative currency set: sorted, duplicate-free keys of the rate map
// unioned with the declared base code.
func (c *Client) LoadAll(ctx context.Context) (domain.CurrencySet, error) {
	body, err := c.fetch(ctx, "load_all", discoveryBase)
	if err != nil {
		return domain.CurrencySet{}, err
	}

	codes := make([]string, 0, len(body.Rates)+1)
	for code := range body.Rates {
		codes = append(codes, code)
	}
	if base := body.base(); base != "" {
		codes = append(codes, base)
	}
	return domain.NewCurrencySet(codes), nil
}

// GetRate fetches the multiplier converting one unit of base into target.
// Both codes are expected to be members of the authoritative set already;
// membership is not re-validated here.
func (c *Client) GetRate(ctx context.Context, base, target string) (float64, error) {
	body, err := c.fetch(ctx, "get_rate", base)
	if err != nil {
		return 0, err
	}

	rate, ok := body.Rates[target]
	if !ok {
		metrics.RateFetchesTotal.WithLabelValues("get_rate", "missing_code").Inc()
		return 0, &FetchError{Op: "get_rate", Code: target}
	}
	if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return 0, &FetchError{Op: "get_rate", Err: fmt.Errorf("unusable rate %v for %s", rate, target)}
	}
	return rate, nil
}

// fetch performs one GET {base}/{code} round trip and validates the envelope.
func (c *Client) fetch(ctx context.Context, op, code string) (*payload, error) {
	timer := prometheus.NewTimer(metrics.RateFetchDuration.WithLabelValues(op))
	defer timer.ObserveDuration()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+code, nil)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.RateFetchesTotal.WithLabelValues(op, "network_error").Inc()
		return nil, &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RateFetchesTotal.WithLabelValues(op, "http_error").Inc()
		return nil, &FetchError{Op: op, Err: fmt.Errorf("rate fetch failed: HTTP %d", resp.StatusCode)}
	}

	var body payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.RateFetchesTotal.WithLabelValues(op, "parse_error").Inc()
		return nil, &FetchError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	if body.Result != "success" || len(body.Rates) == 0 {
		metrics.RateFetchesTotal.WithLabelValues(op, "bad_payload").Inc()
		return nil, &FetchError{Op: op, Err: fmt.Errorf("invalid rate data (result=%q)", body.Result)}
	}

	metrics.RateFetchesTotal.WithLabelValues(op, "ok").Inc()
	return &body, nil
}
