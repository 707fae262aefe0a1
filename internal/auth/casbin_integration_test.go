//go:build integration

package auth

import (
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnforcer_PersistsPoliciesInDatabase(t *testing.T) {
	db, err := data.NewDB(config.DBConfig{Driver: data.DriverSQLite, DSN: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, data.ApplyMigrations(db, data.DriverSQLite))

	e, err := NewEnforcer(db)
	require.NoError(t, err)
	SeedDefaultPolicies(e, logger.Nop())

	var rows int
	require.NoError(t, db.Get(&rows, "SELECT COUNT(*) FROM casbin_rule"))
	assert.Equal(t, len(DefaultPolicies)+len(roleInheritance), rows)

	// A second enforcer on the same database sees the stored rules.
	reloaded, err := NewEnforcer(db)
	require.NoError(t, err)
	ok, err := reloaded.Enforce(RoleAdmin, "/delete/work/1", "POST")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = reloaded.Enforce(RoleUser, "/management_page", "GET")
	require.NoError(t, err)
	assert.False(t, ok)

	SeedDefaultPolicies(reloaded, logger.Nop())
	require.NoError(t, db.Get(&rows, "SELECT COUNT(*) FROM casbin_rule"))
	assert.Equal(t, len(DefaultPolicies)+len(roleInheritance), rows)
}

func TestNewEnforcer_MissingTable(t *testing.T) {
	db, err := data.NewDB(config.DBConfig{Driver: data.DriverSQLite, DSN: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = NewEnforcer(db)
	assert.Error(t, err)
}
