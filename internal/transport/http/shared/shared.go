// Package shared centralizes domain error translation to HTTP responses so
// every handler emits the same JSON error envelope.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "chronoplan/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto a status line and a stable error-code
// envelope. Anything without a code is reported as internal; message text is
// never leaked for internal failures.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error": string(code),
	})
}
