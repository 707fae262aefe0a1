//go:build integration

package data

import (
	"context"
	"fmt"
	"go-portfolio-app/internal/config"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens a private in-memory SQLite database with all migrations applied.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := NewDB(config.DBConfig{Driver: DriverSQLite, DSN: "file::memory:"})
	require.NoError(t, err, "failed to connect to sqlite test database")
	require.NoError(t, ApplyMigrations(db, DriverSQLite), "failed to apply migrations")

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user and returns it.
func createTestUser(t *testing.T, db *sqlx.DB, username string, isAdmin bool) *User {
	t.Helper()
	user := &User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "hash",
		IsAdmin:      isAdmin,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}
