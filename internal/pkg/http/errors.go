package http

import (
	"net/http"

	errspkg "llamachat-golang/relay/internal/pkg/errors"
	jsonpkg "llamachat-golang/relay/internal/pkg/json"
)

// WriteError writes the shared error envelope. Every error response carries
// {"status":"error","error":<msg>} so clients can branch on HTTP status plus
// the status field alone.
func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoded, _ := jsonpkg.MarshalString(msg)
	_, _ = w.Write([]byte(`{"status":"error","error":` + encoded + `}`))
}

// WriteHTTPError writes a typed HTTPError using the shared envelope.
func WriteHTTPError(w http.ResponseWriter, err *errspkg.HTTPError) {
	WriteError(w, err.StatusCode, err.Message)
}
