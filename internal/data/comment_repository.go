package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const commentColumns = `c.id, c.content, c.date_posted, c.user_id, c.page, c.state, u.username`

// CommentRepository handles database operations for comments.
// Rows are never removed; deletion moves a comment to the deleted state and
// every read filters on the active state.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts an active comment and sets its ID and state.
func (r *CommentRepository) Create(ctx context.Context, comment *Comment) error {
	comment.State = CommentActive
	query := `INSERT INTO comments (content, date_posted, user_id, page, state) VALUES (:content, :date_posted, :user_id, :page, :state)`
	res, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetActiveByID retrieves an active comment. Deleted comments are reported as ErrNotFound.
func (r *CommentRepository) GetActiveByID(ctx context.Context, id int64) (*Comment, error) {
	var comment Comment
	query := `SELECT ` + commentColumns + ` FROM comments c JOIN users u ON u.id = c.user_id WHERE c.id = ? AND c.state = ?`
	if err := r.db.GetContext(ctx, &comment, query, id, CommentActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// ListActiveByPage returns active comments of a page, newest first.
// The id tie-break keeps the order total so that offsets never skip or repeat rows.
func (r *CommentRepository) ListActiveByPage(ctx context.Context, page string, limit, offset int) ([]*Comment, error) {
	comments := []*Comment{}
	query := `SELECT ` + commentColumns + ` FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.page = ? AND c.state = ?
		ORDER BY c.date_posted DESC, c.id DESC
		LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &comments, query, page, CommentActive, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CountActiveByPage counts the active comments of a page.
func (r *CommentRepository) CountActiveByPage(ctx context.Context, page string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM comments WHERE page = ? AND state = ?`
	if err := r.db.GetContext(ctx, &n, query, page, CommentActive); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}

// MarkDeleted moves an active comment to the deleted state. A missing or
// already deleted comment results in ErrNotFound.
func (r *CommentRepository) MarkDeleted(ctx context.Context, id int64) error {
	query := `UPDATE comments SET state = ? WHERE id = ? AND state = ?`
	res, err := r.db.ExecContext(ctx, query, CommentDeleted, id, CommentActive)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
