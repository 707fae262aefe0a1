package handler

import (
	"bytes"
	"errors"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Flash kinds, used as CSS classes by the layout.
const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
)

// base holds what every HTML handler needs to render a page.
type base struct {
	view     *view.View
	sessions session.Manager
	log      logger.Logger
}

// render adds the user, CSRF token and pending flash message to data and
// executes the named page.
func (b *base) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) *middleware.AppError {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["User"] = middleware.GetUserInfo(r.Context())
	data["CSRFToken"] = middleware.CSRFToken(r.Context())
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = b.sessions.PopString(r.Context(), session.KeyFlash)
		data["FlashKind"] = b.sessions.PopString(r.Context(), session.KeyFlashKind)
	}

	// The status line is only written once the page rendered completely.
	var buf bytes.Buffer
	if err := b.view.Render(&buf, name, data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render " + name, Code: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		b.log.Error(err, "Failed to write "+name)
	}
	return nil
}

// flash stores a one-shot message shown on the next rendered page.
func (b *base) flash(r *http.Request, kind, message string) {
	b.sessions.Put(r.Context(), session.KeyFlash, message)
	b.sessions.Put(r.Context(), session.KeyFlashKind, kind)
}

// redirectWithFlash flashes message and redirects to url with 303 See Other.
func (b *base) redirectWithFlash(w http.ResponseWriter, r *http.Request, url, kind, message string) *middleware.AppError {
	b.flash(r, kind, message)
	http.Redirect(w, r, url, http.StatusSeeOther)
	return nil
}

// serviceError maps service errors onto status codes and user facing messages.
func serviceError(err error) *middleware.AppError {
	var verr *service.ValidationError
	var derr *service.DuplicateError
	switch {
	case errors.As(err, &verr):
		return &middleware.AppError{Error: err, Message: verr.Message(), Code: http.StatusBadRequest}
	case errors.As(err, &derr):
		return &middleware.AppError{Error: err, Message: derr.Message(), Code: http.StatusConflict}
	case errors.Is(err, service.ErrInvalidCredentials):
		return &middleware.AppError{Error: err, Message: "Invalid username or password.", Code: http.StatusUnauthorized}
	case errors.Is(err, service.ErrPermission):
		return &middleware.AppError{Error: err, Message: "You do not have permission to perform this action!", Code: http.StatusForbidden}
	case errors.Is(err, service.ErrNotFound):
		return &middleware.AppError{Error: err, Message: "Record not found.", Code: http.StatusNotFound}
	case errors.Is(err, service.ErrIntegrity):
		return &middleware.AppError{Error: err, Message: "This work experience still has projects. Delete them first.", Code: http.StatusConflict}
	}
	return &middleware.AppError{Error: err, Message: "Internal Server Error", Code: http.StatusInternalServerError}
}

// idParam parses a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, &middleware.AppError{Error: err, Message: "Invalid id.", Code: http.StatusBadRequest}
	}
	return id, nil
}

// queryInt reads a positive integer query parameter, or 0 when absent or invalid.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
