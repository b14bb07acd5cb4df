package networking

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// edgeProxyResponse is the envelope returned by the edge function.
type edgeProxyResponse struct {
	URL        string            `json:"url"`
	StatusCode int               `json:"status_code"`
	Text       string            `json:"text"`
	Headers    map[string]string `json:"headers"`
	Cookies    []string          `json:"cookies"`
}

// EdgeProxyClient forwards every request to an edge function
// that fetches the target URL and answers with a JSON envelope.
type EdgeProxyClient struct {
	client   *http.Client
	proxyURL string
}

func NewEdgeProxyClient(proxyURL string) *EdgeProxyClient {
	return &EdgeProxyClient{
		client: &http.Client{
			Transport: GetBaseTransport(),
			Timeout:   60 * time.Second,
		},
		proxyURL: proxyURL,
	}
}

func (c *EdgeProxyClient) Do(req *http.Request) (*http.Response, error) {
	if c.proxyURL == "" {
		return nil, errors.New("proxy URL is not set")
	}

	targetURL := req.URL.String()
	encodedURL := url.QueryEscape(targetURL)
	proxyURLWithParam := c.proxyURL + "?url=" + encodedURL

	bodyBytes, err := readRequestBody(req)
	if err != nil {
		return nil, err
	}

	proxyReq, err := http.NewRequestWithContext(
		req.Context(),
		req.Method,
		proxyURLWithParam,
		bytes.NewBuffer(bodyBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating proxy request: %w", err)
	}

	proxyReq.Header = req.Header.Clone()

	proxyResp, err := c.client.Do(proxyReq)
	if err != nil {
		return nil, fmt.Errorf("proxy request failed: %w", err)
	}
	defer proxyResp.Body.Close()

	var envelope edgeProxyResponse
	if err := sonic.ConfigFastest.NewDecoder(proxyResp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("error parsing proxy response: %w", err)
	}
	return envelope.toResponse(req)
}

// toResponse rebuilds the upstream answer carried by the envelope.
func (e *edgeProxyResponse) toResponse(req *http.Request) (*http.Response, error) {
	resp := &http.Response{
		StatusCode: e.StatusCode,
		Status:     fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode)),
		Body:       io.NopCloser(strings.NewReader(e.Text)),
		Header:     make(http.Header, len(e.Headers)+1),
		Request:    req,
	}
	if e.URL != "" {
		finalURL, err := url.Parse(e.URL)
		if err != nil {
			return nil, fmt.Errorf("error parsing response URL: %w", err)
		}
		resp.Request = req.Clone(req.Context())
		resp.Request.URL = finalURL
	}
	for name, value := range e.Headers {
		resp.Header.Set(name, value)
	}
	for _, cookie := range e.Cookies {
		resp.Header.Add("Set-Cookie", cookie)
	}
	return resp, nil
}

func readRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading request body: %w", err)
	}

	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	return bodyBytes, nil
}
