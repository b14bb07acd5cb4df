package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"linkrelay/models"
)

const ChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// upstream pages are small, anything bigger is not a page we want
const maxBodySize = 10 * 1024 * 1024

func FetchPage(
	ctx context.Context,
	client models.HTTPClient,
	method string,
	url string,
	body []byte,
	headers map[string]string,
	cookies []*http.Cookie,
) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", ChromeUA)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return client.Do(req)
}

// FetchBody performs a GET request and returns the body
// of a 200 response.
func FetchBody(
	ctx context.Context,
	client models.HTTPClient,
	url string,
	headers map[string]string,
	cookies []*http.Cookie,
) ([]byte, error) {
	resp, err := FetchPage(ctx, client, http.MethodGet, url, nil, headers, cookies)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

type StatusError struct {
	StatusCode int
	Status     string
}

func (err *StatusError) Error() string {
	return "bad response: " + err.Status
}
