package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Resolve extracts a single canonical client address for use as the trust and
// accounting key. The forwarded chain is client-supplied and spoofable; the
// result is treated as an opaque best-effort string, never validated as an IP.
func Resolve(header http.Header, remoteAddr string) string {
	if chain := header.Get("X-Forwarded-For"); chain != "" {
		first := chain
		if idx := strings.IndexByte(chain, ','); idx >= 0 {
			first = chain[:idx]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if real := strings.TrimSpace(header.Get("X-Real-IP")); real != "" {
		return real
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// FromRequest is a convenience wrapper over Resolve.
func FromRequest(r *http.Request) string {
	return Resolve(r.Header, r.RemoteAddr)
}
