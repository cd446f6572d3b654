package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPTransport отправляет payload через net/http.
type HTTPTransport struct {
	client *http.Client
}

func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPTransport{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewHTTPTransportWithClient использует переданный клиент как есть.
func NewHTTPTransportWithClient(client *http.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Get передает query в строке запроса.
func (t *HTTPTransport) Get(ctx context.Context, url string, query string) (string, error) {
	target := url
	if query != "" {
		target += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		zap.L().Error(err.Error())
		return "", fmt.Errorf("build GET %s: %w", url, err)
	}

	return t.do(req)
}

// Post передает body как application/x-www-form-urlencoded.
func (t *HTTPTransport) Post(ctx context.Context, url string, body string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		zap.L().Error(err.Error())
		return "", fmt.Errorf("build POST %s: %w", url, err)
	}
	req.Header.Set("Content-Type", contentTypeForm)

	return t.do(req)
}

func (t *HTTPTransport) do(req *http.Request) (string, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		zap.L().Error(err.Error())
		return "", fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		zap.L().Error(err.Error())
		return "", fmt.Errorf("read %s response: %w", req.Method, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		zap.L().Error(err.Error(), zap.String("method", req.Method), zap.String("body", string(b)))
		return "", err
	}

	return string(b), nil
}
