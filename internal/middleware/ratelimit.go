package middleware

import (
	"net/http"
	"strings"

	"llamachat-golang/relay/internal/clientip"
	httpx "llamachat-golang/relay/internal/pkg/http"
	"llamachat-golang/relay/internal/ratelimit"
)

// RateLimit enforces per-identity quotas per logical route. Distinct from the
// gatekeeper: a 429 here signals volume, not evidence of malice.
func RateLimit(next http.Handler, limiter *ratelimit.Limiter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Keep health endpoint accessible for liveness checks.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		identity := clientip.FromRequest(r)
		if !limiter.Allow(identity, scopeForPath(r.URL.Path)) {
			httpx.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func scopeForPath(path string) ratelimit.Scope {
	switch {
	case path == "/api/chat":
		return ratelimit.ScopeChat
	case path == "/api/clear":
		return ratelimit.ScopeClear
	case strings.HasPrefix(path, "/api/"):
		return ratelimit.ScopeGlobal
	default:
		return ratelimit.ScopePage
	}
}
