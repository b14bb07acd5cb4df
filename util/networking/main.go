package networking

import (
	"net"
	"net/http"
	"sync"
	"time"

	"linkrelay/config"
	"linkrelay/models"
)

var (
	defaultClient     *http.Client
	defaultClientOnce sync.Once

	extractorClients   = make(map[string]models.HTTPClient)
	extractorClientsMu sync.Mutex
)

func GetDefaultHTTPClient() *http.Client {
	defaultClientOnce.Do(func() {
		defaultClient = &http.Client{
			Transport: GetBaseTransport(),
			Timeout:   60 * time.Second,
		}
	})
	return defaultClient
}

func GetBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ResponseHeaderTimeout: 10 * time.Second,
		DisableCompression:    false,
	}
}

// GetExtractorHTTPClient returns the client an extractor should use:
// the edge proxy from ext-cfg.yaml when set, a proxied or default
// client otherwise, always behind a circuit breaker.
func GetExtractorHTTPClient(extractor *models.Extractor) models.HTTPClient {
	extractorClientsMu.Lock()
	defer extractorClientsMu.Unlock()

	if client, exists := extractorClients[extractor.CodeName]; exists {
		return client
	}

	var client models.HTTPClient

	cfg := config.GetExtractorConfig(extractor.CodeName)
	if cfg != nil && cfg.EdgeProxyURL != "" {
		client = NewEdgeProxyClient(cfg.EdgeProxyURL)
	} else {
		client = NewClientFromConfig(cfg)
	}
	client = NewBreakerClient(extractor.CodeName, client)
	extractorClients[extractor.CodeName] = client

	return client
}

// SetExtractorHTTPClient overrides the client of an extractor.
func SetExtractorHTTPClient(codeName string, client models.HTTPClient) {
	extractorClientsMu.Lock()
	defer extractorClientsMu.Unlock()
	if client == nil {
		delete(extractorClients, codeName)
		return
	}
	extractorClients[codeName] = client
}

// NewClientFromConfig returns a client routed through the proxies
// that apply to cfg, which may be nil, or the shared default client
// when none do.
func NewClientFromConfig(cfg *models.ExtractorConfig) *http.Client {
	if proxyConfig(cfg) == nil {
		return GetDefaultHTTPClient()
	}
	transport := GetBaseTransport()
	configureProxyTransport(transport, cfg)
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}
