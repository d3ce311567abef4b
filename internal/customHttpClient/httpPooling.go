package customHttpClient

import (
	"net/http"

	"github.com/goktugoner23/allinone-external-sub002/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// Pooled returns an http client sharing one keep-alive transport, so the
// embedding and completion gateways reuse connections instead of paying the
// handshake on every pipeline stage.
func Pooled() *http.Client {
	return &http.Client{Transport: customTransport}
}
