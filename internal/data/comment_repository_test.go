//go:build integration

package data

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListAndSoftDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", false)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 7; i++ {
		c := &Comment{
			Content:    fmt.Sprintf("comment %d", i),
			DatePosted: base.Add(time.Duration(i) * time.Minute),
			UserID:     alice.ID,
			Page:       "about",
		}
		require.NoError(t, repo.Create(ctx, c))
		assert.Equal(t, CommentActive, c.State)
		ids = append(ids, c.ID)
	}
	require.NoError(t, repo.Create(ctx, &Comment{Content: "elsewhere", DatePosted: base, UserID: alice.ID, Page: "skills"}))

	total, err := repo.CountActiveByPage(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	first, err := repo.ListActiveByPage(ctx, "about", 5, 0)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, "comment 6", first[0].Content, "newest first")
	assert.Equal(t, "alice", first[0].Username)

	second, err := repo.ListActiveByPage(ctx, "about", 5, 5)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	beyond, err := repo.ListActiveByPage(ctx, "about", 5, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	require.NoError(t, repo.MarkDeleted(ctx, ids[6]))

	t.Run("deleted comment is hidden", func(t *testing.T) {
		_, err := repo.GetActiveByID(ctx, ids[6])
		assert.ErrorIs(t, err, ErrNotFound)

		all, err := repo.ListActiveByPage(ctx, "about", 100, 0)
		require.NoError(t, err)
		assert.Len(t, all, 6)
		for _, c := range all {
			assert.NotEqual(t, ids[6], c.ID)
		}
	})

	t.Run("deleted is terminal", func(t *testing.T) {
		assert.ErrorIs(t, repo.MarkDeleted(ctx, ids[6]), ErrNotFound)

		var state CommentState
		require.NoError(t, db.Get(&state, `SELECT state FROM comments WHERE id = ?`, ids[6]))
		assert.Equal(t, CommentDeleted, state, "row is retained")
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, repo.MarkDeleted(ctx, 12345), ErrNotFound)
	})
}

func TestCommentRepository_PaginationIsComplete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", false)

	// Identical timestamps force the id tie-break to decide the order.
	posted := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	want := map[int64]bool{}
	for i := 0; i < 13; i++ {
		c := &Comment{Content: fmt.Sprintf("c%d", i), DatePosted: posted, UserID: alice.ID, Page: "skills"}
		require.NoError(t, repo.Create(ctx, c))
		want[c.ID] = true
	}

	const size = 4
	seen := map[int64]int{}
	for offset := 0; offset < 20; offset += size {
		page, err := repo.ListActiveByPage(ctx, "skills", size, offset)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page), size)
		for _, c := range page {
			seen[c.ID]++
		}
	}

	assert.Len(t, seen, len(want))
	for id, n := range seen {
		assert.True(t, want[id])
		assert.Equal(t, 1, n, "comment %d listed more than once", id)
	}
}
