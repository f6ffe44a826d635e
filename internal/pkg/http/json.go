package http

import (
	"net/http"

	jsonpkg "llamachat-golang/relay/internal/pkg/json"
)

// WriteJSON writes v as a JSON response body with the given status code.
// Uses the project-wide JSON encoder (sonic) for consistent output.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := jsonpkg.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
