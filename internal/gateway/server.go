package gateway

import (
	"context"
	"net/http"
	"time"

	"llamachat-golang/relay/internal/config"
	"llamachat-golang/relay/internal/groq"
	"llamachat-golang/relay/internal/middleware"
	httpx "llamachat-golang/relay/internal/pkg/http"
	"llamachat-golang/relay/internal/ratelimit"
	"llamachat-golang/relay/internal/security"
	"llamachat-golang/relay/internal/session"
)

// Completer is the completion provider as the gateway sees it: ordered
// messages in, generated text or failure out.
type Completer interface {
	ChatCompletion(ctx context.Context, history []groq.Message) (string, error)
}

type Server struct {
	cfg      *config.Config
	ledger   *security.Ledger
	sessions *session.Store
	cookies  *session.CookieManager
	llm      Completer
}

func NewServer(cfg *config.Config, ledger *security.Ledger, sessions *session.Store, cookies *session.CookieManager, llm Completer) *Server {
	return &Server{
		cfg:      cfg,
		ledger:   ledger,
		sessions: sessions,
		cookies:  cookies,
		llm:      llm,
	}
}

// Routes wires the HTTP surface without middleware. Exposed separately so
// handler tests can exercise routes directly.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", allowMethods(s.handleHealth, http.MethodGet, http.MethodHead))
	mux.HandleFunc("/robots.txt", allowMethods(s.handleRobots, http.MethodGet, http.MethodHead))

	mux.HandleFunc("/api/status", allowMethods(s.handleStatus, http.MethodGet, http.MethodHead))
	mux.HandleFunc("/api/chat", allowMethods(s.handleChat, http.MethodPost))
	mux.HandleFunc("/api/clear", allowMethods(s.handleClear, http.MethodPost))

	mux.HandleFunc("/api/admin/blocked-ips", allowMethods(s.handleBlockedIPs, http.MethodGet))
	mux.HandleFunc("/api/admin/unblock-ip/", allowMethods(s.handleUnblockIP, http.MethodGet))

	return mux
}

// NewRouter assembles the full middleware chain around the route table:
// recovery → logging → security headers → gatekeeper → rate limiter → routes.
func NewRouter(s *Server, classifier *security.Classifier, limiter *ratelimit.Limiter) http.Handler {
	h := http.Handler(s.Routes())
	h = middleware.RateLimit(h, limiter)
	h = middleware.Gatekeeper(h, classifier)
	h = middleware.SecurityHeaders(h)
	h = middleware.Logging(h)
	h = middleware.Recovery(h)
	return h
}

func allowMethods(h http.HandlerFunc, methods ...string) http.HandlerFunc {
	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		allowed[m] = struct{}{}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := allowed[r.Method]; ok {
			h(w, r)
			return
		}
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type healthResponse struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	Service         string `json:"service"`
	BlockedCount    int    `json:"blockedCount"`
	SuspiciousCount int    `json:"suspiciousCount"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	blocked, suspicious := s.ledger.Counts()
	httpx.WriteJSON(w, http.StatusOK, healthResponse{
		Status:          "ok",
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Service:         "llama-chat-relay",
		BlockedCount:    blocked,
		SuspiciousCount: suspicious,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "Llama AI Chatbot API Running",
		"version": "1.0",
		"endpoints": map[string]string{
			"chat":  "/api/chat",
			"clear": "/api/clear",
		},
	})
}

const robotsTxt = `User-agent: *
Allow: /
Disallow: /api/
`

func (s *Server) handleRobots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(robotsTxt))
}
