package httpapi

import (
	"encoding/json"
	"net/http"

	"docqa/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// requestError is a malformed ask request caught before the service runs.
type requestError struct {
	status int
	kind   string
	msg    string
}

func (e *requestError) Error() string   { return e.msg }
func (e *requestError) StatusCode() int { return e.status }

func badRequest(kind, msg string) *requestError {
	return &requestError{status: http.StatusBadRequest, kind: kind, msg: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg, kind string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status, Kind: kind})
}

// writeRequestError maps err to a JSON error, preferring its own status.
func writeRequestError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *requestError:
		writeJSONError(w, e.status, e.msg, e.kind)
	case HTTPError:
		writeJSONError(w, e.StatusCode(), e.Error(), "")
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error(), "internal")
	}
}
