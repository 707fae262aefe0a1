package handler

import (
	"encoding/json"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// maxCommentBody bounds the JSON body of a comment request.
const maxCommentBody = 16 << 10

// CommentHandler serves the comment API and the HTML comment fragment.
type CommentHandler struct {
	base
	comments service.CommentServicer
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(cs service.CommentServicer, sm session.Manager, v *view.View, log logger.Logger) *CommentHandler {
	return &CommentHandler{
		base:     base{view: v, sessions: sm, log: log},
		comments: cs,
	}
}

// commentJSON is one comment as the front-end expects it.
type commentJSON struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	DatePosted time.Time `json:"date_posted"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	CanDelete  bool      `json:"can_delete"`
}

// commentRequest adds a comment when Content is set and deletes one when
// CommentID is set.
type commentRequest struct {
	Content   *string `json:"content"`
	CommentID *int64  `json:"comment_id"`
}

// list returns one page of active comments as JSON.
func (h *CommentHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	user := middleware.GetUserInfo(r.Context())
	page, err := h.comments.List(r.Context(), chi.URLParam(r, "page"), queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		return serviceError(err)
	}

	items := make([]commentJSON, 0, len(page.Comments))
	for _, c := range page.Comments {
		items = append(items, commentJSON{
			ID:         c.ID,
			Content:    c.Content,
			DatePosted: c.DatePosted,
			UserID:     c.UserID,
			Username:   c.Username,
			CanDelete:  user.IsAdmin || c.UserID == user.ID,
		})
	}

	body := middleware.OK("")
	body["comments"] = items
	body["total"] = page.Total
	body["total_pages"] = page.TotalPages
	body["current_page"] = page.CurrentPage
	body["per_page"] = page.PerPage
	body["current_user_id"] = user.ID
	middleware.WriteJSON(w, http.StatusOK, body)
	return nil
}

// manage adds ({"content": ...}) or deletes ({"comment_id": ...}) a comment.
func (h *CommentHandler) manage(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req commentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommentBody))
	if err := dec.Decode(&req); err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid operation!", Code: http.StatusBadRequest}
	}

	user := middleware.GetUserInfo(r.Context())
	switch {
	case req.Content != nil:
		comment, err := h.comments.Create(r.Context(), *req.Content, user.ID, chi.URLParam(r, "page"))
		if err != nil {
			return serviceError(err)
		}
		body := middleware.OK("Comment added successfully!")
		body["comment"] = commentJSON{
			ID:         comment.ID,
			Content:    comment.Content,
			DatePosted: comment.DatePosted,
			UserID:     comment.UserID,
			Username:   user.Username,
			CanDelete:  true,
		}
		middleware.WriteJSON(w, http.StatusCreated, body)
		return nil

	case req.CommentID != nil:
		requester := &data.User{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}
		if err := h.comments.Delete(r.Context(), *req.CommentID, requester); err != nil {
			return serviceError(err)
		}
		middleware.WriteJSON(w, http.StatusOK, middleware.OK("Comment deleted successfully!"))
		return nil
	}
	return &middleware.AppError{Message: "Invalid operation!", Code: http.StatusBadRequest}
}

// fragment renders one page of comments as an HTML fragment.
func (h *CommentHandler) fragment(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	name := strings.ToLower(chi.URLParam(r, "page"))
	page, err := h.comments.List(r.Context(), name, queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		return serviceError(err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.view.Render(w, "comment_list.html", map[string]interface{}{
		"Page":     page,
		"PageName": name,
	}); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render comments", Code: http.StatusInternalServerError}
	}
	return nil
}
