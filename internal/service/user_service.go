package service

import (
	"context"
	"errors"
	"fmt"
	"go-portfolio-app/internal/auth"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/data"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string `form:"username" validate:"required,min=3,max=20"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=8,max=72,strongpw"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// UserServicer defines the account operations used by the handlers.
type UserServicer interface {
	Register(ctx context.Context, in RegisterInput) (*data.User, error)
	Login(ctx context.Context, identifier, password string) (*data.User, error)
	LoginExternal(ctx context.Context, email string) (*data.User, error)
	GetUser(ctx context.Context, id int64) (*data.User, error)
}

// UserService implements registration, password login and admin bootstrap.
type UserService struct {
	repo     UserRepository
	hasher   *auth.PasswordHasher
	validate *validator.Validate

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepository, hasher *auth.PasswordHasher) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		validate: newValidator(),
	}
}

// Register validates the form, checks username and email independently and
// stores the new account with a bcrypt hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*data.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, &DuplicateError{Field: "username"}
	}
	taken, err = s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, &DuplicateError{Field: "email"}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &data.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, data.ErrDuplicate) {
			return nil, &DuplicateError{Field: "username or email"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login matches identifier against username or email and verifies the password.
// Every failure is reported as ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*data.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsernameOrEmail(ctx, identifier)
	if err != nil && !errors.Is(err, data.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil && strings.Contains(identifier, "@") {
		user, err = s.repo.GetByUsernameOrEmail(ctx, strings.ToLower(identifier))
		if err != nil && !errors.Is(err, data.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}
	if user == nil {
		// Keep the timing of unknown identifiers close to a real comparison.
		_ = s.hasher.Compare(s.dummy(), password)
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// LoginExternal signs in the account registered with a provider-verified email.
func (s *UserService) LoginExternal(ctx context.Context, email string) (*data.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*data.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the reserved administrator account unless a user with
// that username already exists. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) (bool, error) {
	if cfg.Password == "" {
		return false, errors.New("admin password is not configured")
	}
	existing, err := s.repo.GetByUsername(ctx, cfg.Username)
	switch {
	case err == nil:
		if !existing.IsAdmin {
			return false, fmt.Errorf("reserved admin username %q belongs to a non-admin account", cfg.Username)
		}
		return false, nil
	case !errors.Is(err, data.ErrNotFound):
		return false, fmt.Errorf("failed to check admin user: %w", err)
	}

	hash, err := s.hasher.Hash(cfg.Password)
	if err != nil {
		return false, err
	}
	admin := &data.User{
		Username:     cfg.Username,
		Email:        strings.ToLower(cfg.Email),
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	return true, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}
