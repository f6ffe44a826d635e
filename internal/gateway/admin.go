package gateway

import (
	"net/http"
	"strings"

	"llamachat-golang/relay/internal/logger"
	httpx "llamachat-golang/relay/internal/pkg/http"
)

// adminAuthorized gates the admin surface behind a bearer token. With no
// token configured the surface is disabled entirely and answers 404, so an
// unconfigured deployment exposes no ledger mutation to the network.
func (s *Server) adminAuthorized(w http.ResponseWriter, r *http.Request) bool {
	if s.cfg.AdminToken == "" {
		httpx.WriteError(w, http.StatusNotFound, "not found")
		return false
	}

	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	token := ""
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		token = strings.TrimSpace(auth[7:])
	}
	if token != s.cfg.AdminToken {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

func (s *Server) handleBlockedIPs(w http.ResponseWriter, r *http.Request) {
	if !s.adminAuthorized(w, r) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s.ledger.Snapshot())
}

func (s *Server) handleUnblockIP(w http.ResponseWriter, r *http.Request) {
	if !s.adminAuthorized(w, r) {
		return
	}

	ip := strings.TrimPrefix(r.URL.Path, "/api/admin/unblock-ip/")
	if ip == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing ip")
		return
	}

	s.ledger.Unblock(ip)
	logger.Info("admin unblocked %s", ip)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "ip": ip})
}
