package gateway

import (
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"llamachat-golang/relay/internal/groq"
	"llamachat-golang/relay/internal/logger"
	errspkg "llamachat-golang/relay/internal/pkg/errors"
	httpx "llamachat-golang/relay/internal/pkg/http"
	jsonpkg "llamachat-golang/relay/internal/pkg/json"
	"llamachat-golang/relay/internal/session"
)

// maxMessageLength caps a single user message, counted in runes after
// trimming.
const maxMessageLength = 2000

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.cookies.SessionID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no session")
		return
	}

	message, herr := parseChatMessage(r)
	if herr != nil {
		httpx.WriteHTTPError(w, herr)
		return
	}

	// The user turn is recorded before the provider call and stays recorded
	// if the call fails; a retried identical message is not deduplicated.
	s.sessions.Append(sid, session.RoleUser, message)

	history := toProviderMessages(s.sessions.Get(sid))
	reply, err := s.llm.ChatCompletion(r.Context(), history)
	if err != nil {
		logger.Error("completion call failed: %v", err)
		httpx.WriteError(w, http.StatusServiceUnavailable, "completion service unavailable")
		return
	}

	s.sessions.Append(sid, session.RoleAssistant, reply)
	httpx.WriteJSON(w, http.StatusOK, chatResponse{Status: "success", Response: reply})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.cookies.SessionID(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no session")
		return
	}

	s.sessions.Clear(sid)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// parseChatMessage reads and validates the chat payload. The message is
// trimmed before the length check, counted in runes.
func parseChatMessage(r *http.Request) (string, *errspkg.HTTPError) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errspkg.BadRequest("failed to read request body")
	}

	var req chatRequest
	if err := jsonpkg.Unmarshal(body, &req); err != nil {
		return "", errspkg.BadRequest("invalid JSON body")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", errspkg.BadRequest("no message provided")
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		return "", errspkg.BadRequest("message too long")
	}
	return message, nil
}

func toProviderMessages(history []session.Message) []groq.Message {
	out := make([]groq.Message, len(history))
	for i, m := range history {
		out[i] = groq.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
