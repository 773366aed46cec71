package zoezi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gym-insights/backend/internal/domain/analytics"
)

var (
	// ErrNotConfigured means the base URL or API key is missing.
	ErrNotConfigured = errors.New("zoezi api is not configured")
	// ErrUnavailable means the upstream kept failing after retries.
	ErrUnavailable = errors.New("zoezi api unavailable")
)

const (
	defaultTimeout  = 15 * time.Second
	scheduleRetries = 3
	retryBackoff    = 500 * time.Millisecond
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the gym-management API. The schedule fetch is the primary
// data source and retries with linear backoff; the enrichment lookups
// (sites, training card types) are single-shot and left to the caller to
// fail soft.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retries int
	backoff time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		retries: scheduleRetries,
		backoff: retryBackoff,
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// Workouts fetches the scheduled group classes for a site and inclusive
// date range, normalized into session records.
func (c *Client) Workouts(ctx context.Context, siteID int64, from, to string) ([]analytics.SessionRecord, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("siteId", strconv.FormatInt(siteID, 10))
	q.Set("from", from)
	q.Set("to", to)
	q.Set("extended", "true")

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		body, err := c.get(ctx, "/api/workout/list", q)
		if err == nil {
			return NormalizeWorkouts(body), nil
		}
		lastErr = err

		if attempt == c.retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return nil, fmt.Errorf("%w: %d attempts: %v", ErrUnavailable, c.retries, lastErr)
}

// Sites lists the locations visible to the API key.
func (c *Client) Sites(ctx context.Context) ([]Site, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	body, err := c.get(ctx, "/api/site/list", nil)
	if err != nil {
		return nil, err
	}
	return parseSites(body), nil
}

// TrainingCardTypes lists the membership card types used to annotate
// bookings.
func (c *Client) TrainingCardTypes(ctx context.Context) ([]CardType, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	body, err := c.get(ctx, "/api/trainingcardtype/list", nil)
	if err != nil {
		return nil, err
	}
	return parseCardTypes(body), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("bad zoezi url: %w", err)
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zoezi %s: status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
