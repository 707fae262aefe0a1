package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Envelope is the body of every JSON response: success, message and any
// extra payload keys.
type Envelope map[string]interface{}

// OK returns a successful envelope.
func OK(message string) Envelope {
	return Envelope{"success": true, "message": message}
}

// Fail returns a failed envelope.
func Fail(message string) Envelope {
	return Envelope{"success": false, "message": message}
}

// WriteJSON writes body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// jsonPrefixes are routes that always answer in JSON.
var jsonPrefixes = []string{"/api/", "/delete/", "/delete_project/"}

// WantsJSON reports whether the response to r should be JSON.
func WantsJSON(r *http.Request) bool {
	for _, p := range jsonPrefixes {
		if strings.HasPrefix(r.URL.Path, p) {
			return true
		}
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
