package middleware

import (
	"bytes"
	"fmt"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/view"
	"net/http"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors into user-friendly error
// pages, or JSON bodies for API requests. Panics are recovered the same way.
func Error(log logger.Logger, v *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					RenderError(w, r, v, log, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			appErr := next(w, r)
			if appErr == nil {
				return
			}
			if appErr.Code >= http.StatusInternalServerError {
				log.Error(appErr.Error, appErr.Message)
			} else if appErr.Error != nil {
				log.Debug(fmt.Sprintf("%s: %v", appErr.Message, appErr.Error))
			}
			RenderError(w, r, v, log, appErr.Code, appErr.Message)
		})
	}
}

// RenderError writes status and message as JSON or as the error page,
// depending on what the request expects.
func RenderError(w http.ResponseWriter, r *http.Request, v *view.View, log logger.Logger, code int, message string) {
	if WantsJSON(r) || v == nil {
		WriteJSON(w, code, Fail(message))
		return
	}

	data := map[string]interface{}{
		"StatusCode": code,
		"StatusText": message,
		"User":       GetUserInfo(r.Context()),
		"CSRFToken":  CSRFToken(r.Context()),
	}
	var buf bytes.Buffer
	if err := v.Render(&buf, "error.html", data); err != nil {
		log.Error(err, "Failed to render error page")
		http.Error(w, message, code)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}
