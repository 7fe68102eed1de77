package myhttp

import (
	"fmt"
	"net/http"
)

const (
	defaultForwardedProto = "https"
	localDevelopmentURL   = "http://localhost:3000"
)

// ForwardedHeaders holds the request headers that determine where the
// processor must send the payer back to.
type ForwardedHeaders struct {
	Origin         string
	ForwardedProto string
	Host           string
	ForwardedHost  string
}

func ForwardedHeadersFromRequest(r *http.Request) ForwardedHeaders {
	return ForwardedHeaders{
		Origin:         r.Header.Get("Origin"),
		ForwardedProto: r.Header.Get("X-Forwarded-Proto"),
		Host:           r.Host,
		ForwardedHost:  r.Header.Get("X-Forwarded-Host"),
	}
}

// BaseURL prefers an explicit origin, then proto+host as seen through a
// reverse proxy, then the local development server.
func BaseURL(h ForwardedHeaders) string {
	if h.Origin != "" {
		return h.Origin
	}

	host := h.Host
	if host == "" {
		host = h.ForwardedHost
	}
	if host == "" {
		return localDevelopmentURL
	}

	proto := h.ForwardedProto
	if proto == "" {
		proto = defaultForwardedProto
	}

	return fmt.Sprintf("%s://%s", proto, host)
}
