//go:build unit

package handler

import (
	"errors"
	"fmt"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/view"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", &service.ValidationError{Fields: map[string]string{"content": "Comment cannot be empty."}}, http.StatusBadRequest, "Comment cannot be empty."},
		{"duplicate", &service.DuplicateError{Field: "email"}, http.StatusConflict, "This email is already registered. Please use a different one."},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password."},
		{"permission", fmt.Errorf("delete: %w", service.ErrPermission), http.StatusForbidden, "You do not have permission to perform this action!"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "Record not found."},
		{"integrity", service.ErrIntegrity, http.StatusConflict, "This work experience still has projects. Delete them first."},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := serviceError(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.msg, appErr.Message)
			assert.ErrorIs(t, appErr.Error, tt.err)
		})
	}
}

func TestSeoHandler(t *testing.T) {
	h := NewSeoHandler("https://portfolio.example.com/")

	t.Run("robots", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.robotsHandler(rr, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Sitemap: https://portfolio.example.com/sitemap.xml")
		assert.Contains(t, rr.Body.String(), "Disallow: /")
	})

	t.Run("sitemap", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.sitemapHandler(rr, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
		assert.Equal(t, "application/xml", rr.Header().Get("Content-Type"))
		body := rr.Body.String()
		assert.Contains(t, body, "<loc>https://portfolio.example.com/</loc>")
		assert.Contains(t, body, "<loc>https://portfolio.example.com/login</loc>")
		assert.NotContains(t, body, "/about")
	})
}

func TestRender_StatusWrittenOnlyAfterTemplateSucceeds(t *testing.T) {
	v, err := view.New(fstest.MapFS{
		"templates/pages/ok.html":     {Data: []byte(`<p>{{.Name}}</p>`)},
		"templates/pages/broken.html": {Data: []byte(`<p>{{index .Missing 1}}</p>`)},
	})
	require.NoError(t, err)
	b := &base{view: v, log: logger.Nop()}

	serve := func(name string) *httptest.ResponseRecorder {
		h := middleware.Error(logger.Nop(), nil)(func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
			return b.render(w, r, http.StatusBadRequest, name, map[string]interface{}{"Flash": "", "Name": "alice"})
		})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec
	}

	rec := serve("ok.html")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "<p>alice</p>")

	rec = serve("broken.html")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.NotContains(t, rec.Body.String(), "<p>")
}
