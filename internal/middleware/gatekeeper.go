package middleware

import (
	"net/http"

	"llamachat-golang/relay/internal/clientip"
	"llamachat-golang/relay/internal/logger"
	httpx "llamachat-golang/relay/internal/pkg/http"
	"llamachat-golang/relay/internal/security"
)

// Gatekeeper classifies every request before any handler logic runs. A block
// decision short-circuits with 403 and the rule's reason.
func Gatekeeper(next http.Handler, classifier *security.Classifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := clientip.FromRequest(r)
		decision := classifier.Classify(identity, r.URL.Path, r.Method, r.UserAgent())
		if !decision.Allowed {
			logger.Security(identity, decision.Reason)
			httpx.WriteError(w, http.StatusForbidden, decision.Reason)
			return
		}
		next.ServeHTTP(w, r)
	})
}
