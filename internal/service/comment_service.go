package service

import (
	"context"
	"errors"
	"fmt"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/data"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// commentInput is validated before a comment is stored.
type commentInput struct {
	Content string `form:"content" validate:"required,max=500"`
	Page    string `form:"page" validate:"required,pagetag"`
}

// CommentPage is one page of active comments on a page namespace.
type CommentPage struct {
	Comments    []*data.Comment
	Total       int
	CurrentPage int
	PerPage     int
	TotalPages  int
}

// CommentServicer defines the comment operations used by the handlers.
type CommentServicer interface {
	Create(ctx context.Context, content string, userID int64, page string) (*data.Comment, error)
	Delete(ctx context.Context, commentID int64, requester *data.User) error
	List(ctx context.Context, page string, pageNumber, perPage int) (*CommentPage, error)
}

// CommentService provides business logic for comments.
type CommentService struct {
	repo      CommentRepository
	sanitizer *bluemonday.Policy
	validate  *validator.Validate
	cfg       config.CommentsConfig
	now       func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(repo CommentRepository, cfg config.CommentsConfig) *CommentService {
	if cfg.PerPage < 1 {
		cfg.PerPage = 5
	}
	if cfg.MaxPerPage < cfg.PerPage {
		cfg.MaxPerPage = cfg.PerPage
	}
	return &CommentService{
		repo: repo,
		// Comments are plain text; every tag is stripped.
		sanitizer: bluemonday.StrictPolicy(),
		validate:  newValidator(),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create stores a new active comment stamped with the server time.
func (s *CommentService) Create(ctx context.Context, content string, userID int64, page string) (*data.Comment, error) {
	in := commentInput{
		Content: s.clean(content),
		Page:    page,
	}
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	comment := &data.Comment{
		Content:    in.Content,
		DatePosted: s.now().UTC(),
		UserID:     userID,
		Page:       in.Page,
		State:      data.CommentActive,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// Delete soft-deletes a comment. Only the owner or an admin may do so.
func (s *CommentService) Delete(ctx context.Context, commentID int64, requester *data.User) error {
	if requester == nil {
		return ErrPermission
	}
	comment, err := s.repo.GetActiveByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !requester.IsAdmin && comment.UserID != requester.ID {
		return ErrPermission
	}
	if !comment.State.CanTransitionTo(data.CommentDeleted) {
		return ErrNotFound
	}

	if err := s.repo.MarkDeleted(ctx, commentID); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// List returns one page of active comments, newest first. Page numbers start
// at 1; out of range values are clamped and a page past the end is empty.
func (s *CommentService) List(ctx context.Context, page string, pageNumber, perPage int) (*CommentPage, error) {
	if !pageTagPattern.MatchString(page) {
		return nil, fieldError("page", fieldMessages["page.pagetag"])
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	if perPage < 1 {
		perPage = s.cfg.PerPage
	}
	if perPage > s.cfg.MaxPerPage {
		perPage = s.cfg.MaxPerPage
	}

	total, err := s.repo.CountActiveByPage(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	comments, err := s.repo.ListActiveByPage(ctx, page, perPage, (pageNumber-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []*data.Comment{}
	}

	return &CommentPage{
		Comments:    comments,
		Total:       total,
		CurrentPage: pageNumber,
		PerPage:     perPage,
		TotalPages:  (total + perPage - 1) / perPage,
	}, nil
}

// clean trims content and strips markup, leaving unescaped plain text that
// the templates escape on output.
func (s *CommentService) clean(content string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(strings.TrimSpace(content))))
}
