// Package capability provides a resilient HTTP client for the hosted
// detection and rewrite provider
package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "quill/internal/platform/errors"
	"quill/internal/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUA        = "quill-api"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	defaultRPS       = 5.0
	defaultBurst     = 5

	defaultReadability = "University"
	defaultPurpose     = "Essay"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration

	// Client side rate limit applied before every attempt
	RPS   float64
	Burst int

	// Rewrite request framing; provider defaults when empty
	Readability string
	Purpose     string
}

// Client is a JSON-over-HTTP capability client with retries and a local
// rate limiter
type Client struct {
	http  *http.Client
	opts  Options
	lim   *rate.Limiter
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
// BaseURL must be set by the caller
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.RPS <= 0 {
		o.RPS = defaultRPS
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}
	if o.Readability == "" {
		o.Readability = defaultReadability
	}
	if o.Purpose == "" {
		o.Purpose = defaultPurpose
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		lim:   rate.NewLimiter(rate.Limit(o.RPS), o.Burst),
		log:   *logger.Named("capability"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// doJSON posts (or gets) a JSON body and decodes the JSON response into out
// Retries transient failures with exponential backoff
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	url := c.opts.BaseURL + path

	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "capability encode request failed")
		}
		body = b
	}

	attempts := 0
	for {
		if err := c.lim.Wait(ctx); err != nil {
			return err
		}

		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "capability new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.opts.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !c.shouldRetry(attempts) {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "capability do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("capability transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("capability http response")

		if uerr := perr.FromCapabilityStatus(resp.StatusCode, path); uerr != nil {
			// keep a small body tail for diagnostics
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			if perr.IsTransient(uerr) && c.shouldRetry(attempts) {
				back := c.backoff(attempts)
				if ra := retryAfter(resp.Header); ra > back {
					back = ra
				}
				c.log.Warn().
					Dur("retry_in", back).
					Int("attempt", attempts).
					Int("status", resp.StatusCode).
					Msg("capability transient status retrying")
				c.sleep(back)
				attempts++
				continue
			}
			c.log.Error().
				Int("status", resp.StatusCode).
				Str("body", string(tail)).
				Msg("capability request failed")
			return uerr
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		_ = drainAndClose(resp.Body)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeCapability, "capability decode response failed")
		}
		return nil
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	// simple exponential with cap
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
