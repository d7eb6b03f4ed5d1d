package common

import (
	"net/http"

	"github.com/futig/fund-faq/internal/config"
	pkgHTTP "github.com/futig/fund-faq/pkg/http"
)

func httpOptions(cfg config.HTTPClientConfig) []pkgHTTP.Option {
	return []pkgHTTP.Option{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithDialTimeout(cfg.ConnTimeout),
		pkgHTTP.WithKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithBearerToken(cfg.Token),
		pkgHTTP.WithRequestLogging(),
	}
}

// NewBaseConnector returns a JSON connector for a self-hosted model service
func NewBaseConnector(cfg config.HTTPClientConfig) *pkgHTTP.Connector {
	return pkgHTTP.NewConnector(cfg.Url, httpOptions(cfg)...)
}

// NewHTTPClient returns a plain client for SDKs that accept one
func NewHTTPClient(cfg config.HTTPClientConfig) *http.Client {
	return pkgHTTP.NewClient(httpOptions(cfg)...)
}
