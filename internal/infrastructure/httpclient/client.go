package httpclient

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client is a small fasthttp wrapper shared by the explorer and price clients.
type Client struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Client. timeout applies when the context carries no deadline.
func New(timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		client:  &fasthttp.Client{Name: "seed_checker"},
		timeout: timeout,
		logger:  logger.Named("HTTPClient"),
	}
}

// Get performs a GET request and returns a copy of the body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Sending request", zap.String("url", url))

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s: %w", url, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", url, err)
		}
	}

	body := append([]byte(nil), resp.Body()...)
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		c.logger.Debug("Request failed", zap.String("url", url), zap.Int("statusCode", status), zap.ByteString("responseBody", body))
		return nil, &StatusError{URL: url, StatusCode: status, Body: truncate(string(body), 256)}
	}
	return body, nil
}

// GetJSON performs a GET request and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	body, err := c.Get(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", url, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
