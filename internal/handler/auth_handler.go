package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"go-portfolio-app/internal/auth"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
	"io"
	"net/http"
)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	base
	users    service.UserServicer
	throttle *middleware.LoginThrottle
	oidc     *auth.Authenticator
}

// NewAuthHandler creates a new AuthHandler. oidc may be nil when external
// sign-in is not configured.
func NewAuthHandler(users service.UserServicer, sm session.Manager, v *view.View, log logger.Logger, throttle *middleware.LoginThrottle, oidc *auth.Authenticator) *AuthHandler {
	return &AuthHandler{
		base:     base{view: v, sessions: sm, log: log},
		users:    users,
		throttle: throttle,
		oidc:     oidc,
	}
}

// registerForm renders the registration page.
func (h *AuthHandler) registerForm(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.render(w, r, http.StatusOK, "register.html", map[string]interface{}{
		"Form":   service.RegisterInput{},
		"Errors": map[string]string{},
	})
}

// register creates an account and sends the user to the login page.
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	in := service.RegisterInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	_, err := h.users.Register(r.Context(), in)
	if err == nil {
		return h.redirectWithFlash(w, r, "/login", flashSuccess, "Account created successfully!")
	}

	errs := map[string]string{}
	status := http.StatusBadRequest
	var verr *service.ValidationError
	var derr *service.DuplicateError
	switch {
	case errors.As(err, &verr):
		errs = verr.Fields
	case errors.As(err, &derr):
		errs[derr.Field] = derr.Message()
		status = http.StatusConflict
	default:
		return serviceError(err)
	}

	in.Password, in.ConfirmPassword = "", ""
	return h.render(w, r, status, "register.html", map[string]interface{}{
		"Form":   in,
		"Errors": errs,
	})
}

// loginForm renders the login page, or sends logged in users to their profile.
func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if middleware.GetUserInfo(r.Context()).Authenticated() {
		http.Redirect(w, r, "/about", http.StatusSeeOther)
		return nil
	}
	return h.render(w, r, http.StatusOK, "login.html", map[string]interface{}{
		"Identifier":  "",
		"OIDCEnabled": h.oidc != nil,
	})
}

// login checks the credentials and starts a session.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	identifier := r.PostFormValue("email_or_username")
	ip := middleware.ClientIP(r)

	user, err := h.users.Login(r.Context(), identifier, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			return serviceError(err)
		}
		h.throttle.Fail(ip)
		return h.render(w, r, http.StatusUnauthorized, "login.html", map[string]interface{}{
			"Identifier":  identifier,
			"OIDCEnabled": h.oidc != nil,
			"Flash":       "Invalid username or password.",
			"FlashKind":   flashDanger,
		})
	}

	h.throttle.Reset(ip)
	if err := h.startSession(r, user); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to start session", Code: http.StatusInternalServerError}
	}
	return h.redirectWithFlash(w, r, "/about", flashSuccess, "Login successful!")
}

// logout ends the session.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to end session", Code: http.StatusInternalServerError}
	}
	return h.redirectWithFlash(w, r, "/login", flashInfo, "You have been logged out.")
}

// oidcLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string kept in the session for CSRF protection.
func (h *AuthHandler) oidcLogin(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.oidc == nil {
		return &middleware.AppError{Message: "External sign-in is not configured.", Code: http.StatusNotFound}
	}
	state, err := randString(16)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Internal Server Error", Code: http.StatusInternalServerError}
	}
	h.sessions.Put(r.Context(), session.KeyOIDCState, state)
	http.Redirect(w, r, h.oidc.AuthCodeURL(state), http.StatusFound)
	return nil
}

// oidcCallback is the redirect URL for the OIDC provider. The verified email
// must belong to a registered account.
func (h *AuthHandler) oidcCallback(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.oidc == nil {
		return &middleware.AppError{Message: "External sign-in is not configured.", Code: http.StatusNotFound}
	}
	expected := h.sessions.PopString(r.Context(), session.KeyOIDCState)
	if expected == "" || r.URL.Query().Get("state") != expected {
		return &middleware.AppError{Error: errors.New("state mismatch"), Message: "State did not match.", Code: http.StatusBadRequest}
	}

	email, err := h.oidc.ExchangeEmail(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		if errors.Is(err, auth.ErrNoEmailClaim) {
			return h.redirectWithFlash(w, r, "/login", flashDanger, "Your identity provider did not share a verified email address.")
		}
		return &middleware.AppError{Error: err, Message: "Failed to verify sign-in", Code: http.StatusBadGateway}
	}

	user, err := h.users.LoginExternal(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return h.redirectWithFlash(w, r, "/login", flashDanger, "No account is registered with that email.")
		}
		return serviceError(err)
	}
	if err := h.startSession(r, user); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to start session", Code: http.StatusInternalServerError}
	}
	return h.redirectWithFlash(w, r, "/about", flashSuccess, "Login successful!")
}

// startSession renews the session token to prevent fixation and stores the user id.
func (h *AuthHandler) startSession(r *http.Request, user *data.User) error {
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	h.sessions.Put(r.Context(), session.KeyUserID, user.ID)
	return nil
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
