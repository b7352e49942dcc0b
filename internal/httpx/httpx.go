// Package httpx provides the shared outbound HTTP primitive: GET a URL,
// decode the body as JSON, retry with exponential backoff behind a circuit
// breaker. Application-level error statuses inside a well-formed body are the
// caller's job to detect.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/sony/gobreaker"

	"github.com/SaborBao/openclaw-skill-weather-cn/internal/logger"
)

const userAgent = "weather-cn/0.1"

// initialBackoff is the delay before the first retry; it doubles per attempt.
const initialBackoff = 600 * time.Millisecond

var (
	errUnexpectedStatus = errors.New("unexpected status code")
	errInvalidJSON      = errors.New("response body is not valid JSON")
)

// FetchError reports a fetch that failed after exhausting its retry budget.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempt(s): %v", MaskURL(e.URL), e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client performs resilient JSON GETs. A single Client is shared by the
// geocode and weather callers.
type Client struct {
	http    *http.Client
	retries int
	circuit *gobreaker.CircuitBreaker
}

// NewClient builds a Client with the given per-request timeout and retry
// budget (total attempts = retries+1).
func NewClient(timeout time.Duration, retries int) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "httpx",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		http:    &http.Client{Timeout: timeout},
		retries: retries,
		circuit: cb,
	}
}

// FetchJSON GETs url and returns the raw JSON body. It retries on transport
// errors, timeouts, non-2xx statuses and undecodable bodies, waiting
// 0.6*2^i seconds before retry i. Secrets embedded in url are masked before
// any diagnostic line is written.
func (c *Client) FetchJSON(ctx context.Context, url string) (json.RawMessage, error) {
	log := logger.Get("httpx")

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{URL: url, Attempts: attempt, Err: err}
		}

		log.Debugf("GET %s", MaskURL(url))

		body, err := c.attempt(ctx, url)
		if err == nil {
			return body, nil
		}

		// An open circuit means upstream is known-bad; do not burn the
		// remaining retry budget against it.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &FetchError{URL: url, Attempts: attempt + 1, Err: err}
		}

		lastErr = err
		if attempt == c.retries {
			break
		}

		delay := initialBackoff << attempt
		log.Debugf("request failed (%v), retry in %s", err, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &FetchError{URL: url, Attempts: attempt + 1, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	return nil, &FetchError{URL: url, Attempts: c.retries + 1, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, url string) (json.RawMessage, error) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if !json.Valid(body) {
			return nil, errInvalidJSON
		}
		return json.RawMessage(body), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

var (
	// Amap carries its key in the query string.
	keyParamRe = regexp.MustCompile(`([?&]key=)[^&]+`)
	// Caiyun carries its token as the path segment after the API version.
	tokenPathRe = regexp.MustCompile(`/v2(?:\.\d+)?/[^/]+/`)
)

// MaskURL hides credentials embedded in a request URL so it is safe to log.
func MaskURL(url string) string {
	masked := keyParamRe.ReplaceAllString(url, "${1}***")
	masked = tokenPathRe.ReplaceAllString(masked, "/v2.6/***/")
	return masked
}
