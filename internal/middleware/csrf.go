package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/session"
	"net/http"
)

// CSRFFormField is the form field carrying the anti-forgery token.
const CSRFFormField = "csrf_token"

// csrfHeaders are checked before the form field.
var csrfHeaders = []string{"X-CSRFToken", "X-CSRF-Token"}

// CSRF binds a random token to the session and requires it on every unsafe
// request. The token is exposed to handlers through CSRFToken.
func CSRF(sm session.Manager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sm.GetString(r.Context(), session.KeyCSRFToken)
			if token == "" {
				var err error
				if token, err = newToken(32); err != nil {
					log.Error(err, "Failed to generate CSRF token")
					WriteJSON(w, http.StatusInternalServerError, Fail("Internal Server Error"))
					return
				}
				sm.Put(r.Context(), session.KeyCSRFToken, token)
			}

			if !safeMethod(r.Method) && !validToken(token, submittedToken(r)) {
				log.Warn("Rejected request with invalid CSRF token: " + r.Method + " " + r.URL.Path)
				WriteJSON(w, http.StatusBadRequest, Fail("CSRF Token is invalid or missing!"))
				return
			}

			ctx := context.WithValue(r.Context(), csrfContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func submittedToken(r *http.Request) string {
	for _, h := range csrfHeaders {
		if v := r.Header.Get(h); v != "" {
			return v
		}
	}
	return r.PostFormValue(CSRFFormField)
}

func validToken(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

func newToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
