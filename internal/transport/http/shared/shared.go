// Package shared holds the JSON envelope helpers used by every handler
// package so error responses look the same on all routes.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "clinicore/pkg/domain-errors"
)

// ErrorResponse is the error envelope returned on every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into the JSON error envelope. Unknown
// errors map to 500 without leaking their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		resp.Message = dErr.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
