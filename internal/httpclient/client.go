package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// Request represents an HTTP request
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// Client interface for making HTTP requests
type Client interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// AuthFailureHandler is called when a remote answers 401 or 403
type AuthFailureHandler func(ctx context.Context, req *Request, resp *Response)

// Option configures a DefaultClient
type Option func(*DefaultClient)

// WithAuthFailureHandler registers the handler invoked on 401 and 403
// responses. The error is still returned to the caller.
func WithAuthFailureHandler(h AuthFailureHandler) Option {
	return func(c *DefaultClient) {
		c.onAuthFailure = h
	}
}

// WithMaxBodySize caps the response body size. A larger body fails the
// request instead of being cut short.
func WithMaxBodySize(n int64) Option {
	return func(c *DefaultClient) {
		c.maxBodySize = n
	}
}

const defaultMaxBodySize = 50 << 20

// DefaultClient implements the Client interface on top of go-retryablehttp.
// Retries are off unless http_client.retry_max is raised.
type DefaultClient struct {
	client        *retryablehttp.Client
	onAuthFailure AuthFailureHandler
	maxBodySize   int64
}

// NewDefaultClient creates a new DefaultClient
func NewDefaultClient(cfg *config.Configuration, log *logger.Logger, opts ...Option) *DefaultClient {
	timeout := cfg.HTTPClient.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = cfg.HTTPClient.RetryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = leveledLogger{log}
	// hand the final response back instead of a generic "giving up" error
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &DefaultClient{
		client:      rc,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send makes an HTTP request and returns the response
func (c *DefaultClient) Send(ctx context.Context, req *Request) (*Response, error) {
	var body interface{}
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrHTTPClient)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The remote server could not be reached").
			WithMessagef("method:%s, url:%s", req.Method, req.URL).
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	// one byte past the cap tells a full body from a cut one
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read the remote response").
			Mark(ierr.ErrHTTPClient)
	}
	if int64(len(respBody)) > c.maxBodySize {
		return nil, ierr.NewErrorf("response body exceeds %d bytes", c.maxBodySize).
			WithHint("The remote response is too large").
			WithReportableDetails(map[string]interface{}{
				"url":      req.URL,
				"max_size": c.maxBodySize,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	headers := make(map[string]string)
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    headers,
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if c.onAuthFailure != nil {
			c.onAuthFailure(ctx, req, out)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewError(resp.StatusCode, respBody)
	}

	return out, nil
}

// leveledLogger adapts the zap logger to retryablehttp.LeveledLogger
type leveledLogger struct {
	log *logger.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}
