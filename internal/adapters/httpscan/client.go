// Package httpscan fetches scan results from a remote listing service.
package httpscan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"

	"github.com/aatuh/treesync/internal/scan"
	"github.com/aatuh/treesync/internal/tree"
)

// ErrStatus is returned when the service answers with a non-2xx status.
var ErrStatus = errors.New("unexpected status")

// Config holds client configuration.
type Config struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
	Logger   *logrus.Entry
}

// Client lists project files over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
	maxDelay   time.Duration
	log        *logrus.Entry
}

// New creates a client. Zero values fall back to defaults.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.Delay == 0 {
		cfg.Delay = 200 * time.Millisecond
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = 5 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		attempts: cfg.Attempts,
		delay:    cfg.Delay,
		maxDelay: cfg.MaxDelay,
		log:      log.WithField("endpoint", base),
	}, nil
}

// Scan requests the listing for req. Transport failures and 5xx responses are
// retried with backoff; 4xx responses fail immediately.
func (c *Client) Scan(ctx context.Context, req scan.Request) ([]tree.Entry, error) {
	target := c.listURL(req)

	var entries []tree.Entry
	err := retry.Do(func() error {
		got, err := c.fetch(ctx, target)
		if err != nil {
			return err
		}
		entries = got
		return nil
	},
		retry.Attempts(c.attempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(c.delay),
		retry.MaxDelay(c.maxDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.WithError(err).WithField("attempt", n+1).Warn("scan request failed, retrying")
		}),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) listURL(req scan.Request) string {
	q := url.Values{}
	q.Set("root", req.ProjectRoot)
	for _, p := range req.ScanPaths {
		q.Add("path", p)
	}
	return c.baseURL + "/api/v1/files?" + q.Encode()
}

func (c *Client) fetch(ctx context.Context, target string) ([]tree.Entry, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}

	entries, err := scan.Decode(resp.Body)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	return entries, nil
}
