// Package clients - HTTP clients for the build system, bug tracker, and
// advisory tracking service. Each client owns its transport, retry policy,
// and auth handling; the engine only sees the service interfaces.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrNotAuthenticated is surfaced when a service rejects the credential or
// ticket. The engine never retries authentication; callers must prompt for
// re-authentication and re-run.
var ErrNotAuthenticated = errors.New("not authenticated to service")

// ErrNotFound is surfaced when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// InitLogger sets up the Zap Logger to log to the console in a human readable format
func InitLogger() *zap.Logger {
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	logger, _ := prodConfig.Build()
	return logger
}

// Config holds the connection settings for one service.
type Config struct {
	BaseURL string
	// Token is the opaque pre-established credential; obtaining it is out
	// of scope here.
	Token   string
	Timeout time.Duration
}

// restClient is the shared JSON-over-HTTP plumbing.
type restClient struct {
	base   string
	token  string
	client *http.Client
	logger *zap.Logger
}

func newRESTClient(cfg Config, logger *zap.Logger) *restClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &restClient{
		base:  cfg.BaseURL,
		token: cfg.Token,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 90 * time.Second,
				}).DialContext,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}
}

// getJSON issues a GET and decodes the response body into out.
func (c *restClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// postJSON issues a POST with a JSON body and decodes the response into out
// (out may be nil).
func (c *restClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// putJSON issues a PUT with a JSON body.
func (c *restClient) putJSON(ctx context.Context, path string, body interface{}) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, nil)
}

// doJSON performs one request with exponential backoff on transport errors
// and 5xx responses. 4xx responses are permanent: 401/403 map to
// ErrNotAuthenticated, 404 to ErrNotFound.
func (c *restClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			c.logger.Warn("request failed, will retry",
				zap.String("method", method), zap.String("url", u), zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(fmt.Errorf("%s %s: %w", method, path, ErrNotAuthenticated))
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%s %s: %w", method, path, ErrNotFound))
		case resp.StatusCode >= 500:
			c.logger.Warn("server error, will retry",
				zap.String("url", u), zap.Int("status", resp.StatusCode))
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		case resp.StatusCode >= 400:
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return backoff.Permanent(fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, msg))
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding %s %s: %w", method, path, err))
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}
