//go:build unit

package service

import (
	"context"
	"errors"
	"go-portfolio-app/internal/auth"
	"go-portfolio-app/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService() (*UserService, *mockUserRepository) {
	repo := &mockUserRepository{}
	return NewUserService(repo, auth.NewPasswordHasher(bcrypt.MinCost)), repo
}

func validRegistration(username, email string) RegisterInput {
	return RegisterInput{
		Username:        username,
		Email:           email,
		Password:        "Secret!123",
		ConfirmPassword: "Secret!123",
	}
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hashed password", func(t *testing.T) {
		s, repo := newTestUserService()
		user, err := s.Register(ctx, validRegistration("alice", "Alice@Example.com"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.False(t, user.IsAdmin)
		assert.NotEqual(t, "Secret!123", repo.users[0].PasswordHash)
	})

	t.Run("duplicate username and email are reported separately", func(t *testing.T) {
		s, _ := newTestUserService()
		_, err := s.Register(ctx, validRegistration("alice", "alice@example.com"))
		require.NoError(t, err)

		_, err = s.Register(ctx, validRegistration("alice", "other@example.com"))
		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "username", dup.Field)
		assert.ErrorIs(t, err, ErrDuplicate)

		_, err = s.Register(ctx, validRegistration("alice2", "alice@example.com"))
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)
	})

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"short username", RegisterInput{Username: "al", Email: "a@b.co", Password: "Secret!123", ConfirmPassword: "Secret!123"}, "username"},
		{"bad email", RegisterInput{Username: "alice", Email: "nope", Password: "Secret!123", ConfirmPassword: "Secret!123"}, "email"},
		{"short password", RegisterInput{Username: "alice", Email: "a@b.co", Password: "S!1", ConfirmPassword: "S!1"}, "password"},
		{"no uppercase", RegisterInput{Username: "alice", Email: "a@b.co", Password: "secret!123", ConfirmPassword: "secret!123"}, "password"},
		{"no special character", RegisterInput{Username: "alice", Email: "a@b.co", Password: "Secret1234", ConfirmPassword: "Secret1234"}, "password"},
		{"confirmation mismatch", RegisterInput{Username: "alice", Email: "a@b.co", Password: "Secret!123", ConfirmPassword: "Secret!124"}, "confirm_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestUserService()
			_, err := s.Register(ctx, tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.False(t, repo.createCalled)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestUserService()
	_, err := s.Register(ctx, validRegistration("alice", "alice@example.com"))
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		user, err := s.Login(ctx, "alice", "Secret!123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("by email in any case", func(t *testing.T) {
		user, err := s.Login(ctx, "ALICE@example.com", "Secret!123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		_, errWrongPassword := s.Login(ctx, "alice", "wrong")
		_, errUnknownUser := s.Login(ctx, "bob", "Secret!123")
		_, errEmpty := s.Login(ctx, "", "")
		assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
		assert.ErrorIs(t, errEmpty, ErrInvalidCredentials)
		assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
	})
}

func TestUserService_LoginExternal(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestUserService()
	_, err := s.Register(ctx, validRegistration("alice", "alice@example.com"))
	require.NoError(t, err)

	user, err := s.LoginExternal(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = s.LoginExternal(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_GetUser(t *testing.T) {
	s, _ := newTestUserService()
	_, err := s.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestUserService()
	cfg := config.AdminConfig{Username: "admin", Email: "Admin@Localhost", Password: "Adm1n!pass"}

	created, err := s.EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, repo.users, 1)
	assert.True(t, repo.users[0].IsAdmin)
	assert.Equal(t, "admin@localhost", repo.users[0].Email)

	admin, err := s.Login(ctx, "admin", "Adm1n!pass")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	_, err = s.EnsureAdmin(ctx, config.AdminConfig{Username: "root"})
	assert.Error(t, err)
}

func TestUserService_EnsureAdminRejectsNonAdminHolder(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestUserService()

	_, err := s.Register(ctx, validRegistration("admin", "squatter@example.com"))
	require.NoError(t, err)

	created, err := s.EnsureAdmin(ctx, config.AdminConfig{Username: "admin", Email: "admin@localhost", Password: "Adm1n!pass"})
	assert.Error(t, err)
	assert.False(t, created)
	require.Len(t, repo.users, 1)
	assert.False(t, repo.users[0].IsAdmin)
}
