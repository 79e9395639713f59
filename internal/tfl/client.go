package tfl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/you/nextbus/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.tfl.gov.uk"
	DefaultTimeout = 5 * time.Second

	defaultUserAgent = "nextbus (https://github.com/you/nextbus)"
	maxErrorBody     = 512
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL   string
	AppID     string
	AppKey    string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the TfL unified API
type Client struct {
	baseURL  string
	appID    string
	appKey   string
	client   *http.Client
	validate *validator.Validate
}

// NewClient creates a client with a request timeout applied to every call
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		appID:   opts.AppID,
		appKey:  opts.AppKey,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &userAgentTransport{userAgent: opts.UserAgent},
		},
		validate: validator.New(),
	}
}

// ArrivalsURL builds the arrivals endpoint for a stop, credentials included
func (c *Client) ArrivalsURL(stopID string) string {
	u := fmt.Sprintf("%s/StopPoint/%s/Arrivals", c.baseURL, url.PathEscape(stopID))

	params := url.Values{}
	if c.appID != "" {
		params.Set("app_id", c.appID)
	}
	if c.appKey != "" {
		params.Set("app_key", c.appKey)
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// FetchArrivals returns the arrivals currently predicted for stopID, in
// the order the API reported them
func (c *Client) FetchArrivals(ctx context.Context, stopID string) ([]Arrival, error) {
	start := time.Now()

	arrivals, outcome, err := c.fetchArrivals(ctx, stopID)
	metrics.ObserveUpstream(outcome, start)
	if err != nil {
		return nil, err
	}

	log.Printf("TfL: fetched %d arrivals for stop %s in %v", len(arrivals), stopID, time.Since(start).Round(time.Millisecond))
	return arrivals, nil
}

func (c *Client) fetchArrivals(ctx context.Context, stopID string) ([]Arrival, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ArrivalsURL(stopID), nil)
	if err != nil {
		return nil, metrics.OutcomeTransport, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, metrics.OutcomeTransport, fmt.Errorf("request failed: %w", redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, metrics.OutcomeStatus, fmt.Errorf("%w: %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, metrics.OutcomeTransport, fmt.Errorf("failed to read response: %w", err)
	}

	// Unmarshal rejects trailing data after the array
	var raw []rawArrival
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, metrics.OutcomeMalformed, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// a literal null leaves raw nil; an empty list decodes to a non-nil slice
	if raw == nil {
		return nil, metrics.OutcomeMalformed, fmt.Errorf("%w: not an array", ErrMalformed)
	}

	arrivals, err := c.decodeArrivals(raw)
	if err != nil {
		return nil, metrics.OutcomeMalformed, err
	}
	return arrivals, metrics.OutcomeOK, nil
}

func (c *Client) decodeArrivals(raw []rawArrival) ([]Arrival, error) {
	arrivals := make([]Arrival, 0, len(raw))
	for i, r := range raw {
		if err := c.validate.Struct(r); err != nil {
			return nil, fmt.Errorf("%w: arrival %d: %v", ErrMalformed, i, err)
		}

		var destination any
		if err := json.Unmarshal(r.DestinationName, &destination); err != nil {
			return nil, fmt.Errorf("%w: arrival %d: destinationName: %v", ErrMalformed, i, err)
		}

		arrivals = append(arrivals, Arrival{
			LineName:        *r.LineName,
			DestinationName: destination,
			TimeToStation:   *r.TimeToStation,
		})
	}
	return arrivals, nil
}

// redact strips the query string (and with it app_key) from url errors
// so credentials never reach the logs
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, perr := url.Parse(urlErr.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
		}
	}
	return err
}

type userAgentTransport struct {
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return http.DefaultTransport.RoundTrip(req)
}
