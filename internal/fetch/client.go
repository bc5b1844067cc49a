// Package fetch wraps outbound HTTP calls with the retry policy shared by
// every upstream the valuator talks to: bounded attempts, a linearly growing
// delay after rate limits and transport errors, and an immediate abort on any
// other non-200 status.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// ErrUnavailable is returned when the upstream could not produce a payload,
// either because attempts were exhausted or a non-retryable status was hit.
var ErrUnavailable = errors.New("upstream unavailable")

type Client struct {
	http        *resty.Client
	maxAttempts int
	baseDelay   time.Duration
	log         *logrus.Entry
}

func New(maxAttempts int, baseDelay, timeout time.Duration) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "SteamValuator/1.0")

	return &Client{
		http:        client,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		log:         logrus.WithField("component", "fetch"),
	}
}

// GetJSON performs a GET against url and decodes the 200 response body into
// out. A 429 or a transport error consumes one attempt and waits
// baseDelay*attempt before the next try; any other non-200 status aborts
// immediately. The only errors returned are ErrUnavailable (wrapped), a JSON
// decode error, or the context's error if it is cancelled mid-wait.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		req := c.http.R().SetContext(ctx)
		if len(headers) > 0 {
			req.SetHeaders(headers)
		}

		resp, err := req.Get(url)
		if err != nil {
			c.log.WithError(err).WithField("attempt", attempt).Warn("request failed")
			if werr := c.wait(ctx, attempt); werr != nil {
				return werr
			}
			continue
		}

		switch resp.StatusCode() {
		case http.StatusOK:
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decoding response from %s: %w", url, err)
			}
			return nil
		case http.StatusTooManyRequests:
			c.log.WithField("attempt", attempt).Warn("rate limited, backing off")
			if werr := c.wait(ctx, attempt); werr != nil {
				return werr
			}
		default:
			return fmt.Errorf("%w: status %d from %s", ErrUnavailable, resp.StatusCode(), url)
		}
	}
	return fmt.Errorf("%w: attempts exhausted for %s", ErrUnavailable, url)
}

// wait blocks for baseDelay*attempt, honouring context cancellation. The delay
// grows linearly with the attempt number, which is how the upstreams expect
// rate-limited clients to behave.
func (c *Client) wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(c.baseDelay * time.Duration(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
