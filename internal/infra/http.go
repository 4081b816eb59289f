package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every outbound provider request.
const DefaultTimeout = 15 * time.Second

const userAgent = "FinPulse/1.0"

var httpClient = &http.Client{Timeout: 20 * time.Second}

// HTTPStatusError is returned for non-2xx responses; callers can branch on
// the status code (429 rate-limit handling in the social pipeline).
type HTTPStatusError struct {
	StatusCode int
	Snippet    string
	Header     http.Header
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Snippet)
}

// DoGet performs a GET with the given headers and returns the response body.
// The caller must close the body. Non-2xx responses return *HTTPStatusError
// with a short body snippet for logging.
func DoGet(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		resp.Body.Close()
		cancel()
		return nil, resp.Header, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Snippet:    string(bytes.ReplaceAll(snippet, []byte("\n"), []byte(" "))),
			Header:     resp.Header,
		}
	}
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, resp.Header, nil
}

// GetJSON performs a GET with query parameters and decodes the JSON response
// into dest.
func GetJSON(ctx context.Context, baseURL string, params url.Values, headers map[string]string, dest any) error {
	full := baseURL
	if len(params) > 0 {
		full += "?" + params.Encode()
	}
	body, _, err := DoGet(ctx, full, headers)
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// PostJSON sends a JSON payload and decodes the JSON response into dest.
func PostJSON(ctx context.Context, rawURL string, payload any, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return &HTTPStatusError{StatusCode: resp.StatusCode, Snippet: string(snippet), Header: resp.Header}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// cancelOnClose ties the request context's lifetime to the body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
