package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// ClientConfig holds settings for the scanner webhook client
type ClientConfig struct {
	WebhookURL        string
	Timeout           time.Duration
	MaxAttempts       int
	RequestsPerSecond float64
}

// Client uploads food photos to the analysis webhook of the workflow tool
type Client struct {
	http        *resty.Client
	webhookURL  string
	maxAttempts int
	backoffBase time.Duration
	rateLimiter *rate.Limiter
	logger      *log.Logger
}

// NewClient creates a new scanner webhook client
func NewClient(cfg ClientConfig, logger *log.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}

	return &Client{
		http: resty.New().
			SetTimeout(cfg.Timeout).
			SetHeader("User-Agent", "NexaNutri/1.0").
			SetHeader("Accept", "application/json"),
		webhookURL:  cfg.WebhookURL,
		maxAttempts: cfg.MaxAttempts,
		backoffBase: 500 * time.Millisecond,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 5),
		logger:      logger,
	}
}

// SetDebug enables request/response dumps from the HTTP client
func (c *Client) SetDebug(debug bool) {
	c.http.SetDebug(debug)
}

// Analyze posts the image as multipart field "file" and returns the raw response body.
// Network errors and 5xx answers are retried; any other non-2xx answer fails immediately.
func (c *Client) Analyze(ctx context.Context, image domain.ImageUpload) ([]byte, error) {
	filename := image.Filename
	if filename == "" {
		filename = "image"
	}
	c.logger.Debug("sending image to webhook", "filename", filename, "bytes", len(image.Data))

	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewExponential(c.backoffBase))

	var body []byte
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", domain.ErrTransportFailure, err)
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetFileReader("file", filename, bytes.NewReader(image.Data)).
			Post(c.webhookURL)
		if err != nil {
			c.logger.Warn("webhook request error", "attempt", attempt, "err", err)
			err = fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
			if ctx.Err() != nil {
				return err
			}
			return retry.RetryableError(err)
		}

		status := resp.StatusCode()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			c.logger.Warn("webhook returned error status", "attempt", attempt, "status", status)
			err := fmt.Errorf("%w: HTTP %s", domain.ErrTransportFailure, resp.Status())
			if status >= http.StatusInternalServerError {
				return retry.RetryableError(err)
			}
			return err
		}

		body = resp.Body()
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrTransportFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
		}
		return nil, err
	}

	c.logger.Debug("webhook answered", "attempts", attempt, "bytes", len(body))
	return body, nil
}
