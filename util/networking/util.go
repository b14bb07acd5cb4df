package networking

import (
	"cmp"
	"net/http"
	"net/url"

	"linkrelay/config"
	"linkrelay/models"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpproxy"
)

// proxyConfig picks the proxies for an extractor: its own from
// ext-cfg.yaml when set, the HTTP(S)_PROXY environment otherwise.
// It returns nil when no proxy applies.
func proxyConfig(cfg *models.ExtractorConfig) *httpproxy.Config {
	proxy := &httpproxy.Config{
		HTTPProxy:  config.Env.HTTPProxy,
		HTTPSProxy: config.Env.HTTPSProxy,
		NoProxy:    config.Env.NoProxy,
	}
	if cfg != nil && (cfg.HTTPProxy != "" || cfg.HTTPSProxy != "") {
		proxy = &httpproxy.Config{
			HTTPProxy:  cfg.HTTPProxy,
			HTTPSProxy: cfg.HTTPSProxy,
			NoProxy:    cfg.NoProxy,
		}
	}
	if proxy.HTTPProxy == "" && proxy.HTTPSProxy == "" {
		return nil
	}
	// a single proxy serves both schemes
	httpProxy := cmp.Or(proxy.HTTPProxy, proxy.HTTPSProxy)
	httpsProxy := cmp.Or(proxy.HTTPSProxy, proxy.HTTPProxy)
	proxy.HTTPProxy, proxy.HTTPSProxy = httpProxy, httpsProxy
	return proxy
}

func configureProxyTransport(
	transport *http.Transport,
	cfg *models.ExtractorConfig,
) {
	proxy := proxyConfig(cfg)
	if proxy == nil {
		return
	}
	zap.S().Debugf("using proxy http=%s https=%s no_proxy=%q", proxy.HTTPProxy, proxy.HTTPSProxy, proxy.NoProxy)
	proxyForURL := proxy.ProxyFunc()
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return proxyForURL(req.URL)
	}
}
