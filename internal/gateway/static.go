package gateway

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"

	httpx "llamachat-golang/relay/internal/pkg/http"
)

// allowedExtensions is the static asset allow-list. Anything else under the
// web root is refused even if the file exists.
var allowedExtensions = map[string]struct{}{
	".html":  {},
	".css":   {},
	".js":    {},
	".mjs":   {},
	".map":   {},
	".png":   {},
	".jpg":   {},
	".jpeg":  {},
	".gif":   {},
	".svg":   {},
	".ico":   {},
	".webp":  {},
	".woff":  {},
	".woff2": {},
	".txt":   {},
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if r.URL.Path == "/" {
		s.handleIndex(w, r)
		return
	}
	s.handleStatic(w, r)
}

// handleIndex serves the chat page and assigns a session cookie on first
// visit. The session identifier, not the client IP, keys the conversation.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.cookies.SessionID(r); !ok {
		if _, err := s.cookies.Issue(w); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}
	templ.Handler(chatPage()).ServeHTTP(w, r)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// The gatekeeper already rejects traversal shapes; this is the handler's
	// own boundary so it stays safe if routed to directly.
	if strings.Contains(path, "..") || strings.Contains(path, "//") {
		httpx.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}

	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := allowedExtensions[ext]; !ok {
		httpx.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}

	full := filepath.Join(s.cfg.WebRoot, filepath.FromSlash(filepath.Clean(path)))
	st, err := os.Stat(full)
	if err != nil || st.IsDir() {
		httpx.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	http.ServeFile(w, r, full)
}
