package middleware

import (
	"context"
	"errors"
	"go-portfolio-app/internal/auth"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/internal/view"
	"net/http"

	"github.com/casbin/casbin/v2"
)

// UserLookup loads the account behind a session.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*data.User, error)
}

// LoadUser resolves the session's user id into a UserInfo on the request
// context. A session pointing at a missing user is treated as anonymous.
func LoadUser(sm session.Manager, users UserLookup, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := &UserInfo{Role: auth.RoleAnonymous}

			if id := sm.GetInt64(r.Context(), session.KeyUserID); id != 0 {
				user, err := users.GetUser(r.Context(), id)
				switch {
				case err == nil:
					info = &UserInfo{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin, Role: auth.RoleUser}
					if user.IsAdmin {
						info.Role = auth.RoleAdmin
					}
				case errors.Is(err, service.ErrNotFound):
					sm.Remove(r.Context(), session.KeyUserID)
				default:
					log.Error(err, "Failed to load session user")
				}
			}

			next.ServeHTTP(w, r.WithContext(SetUserInfo(r.Context(), info)))
		})
	}
}

// Authorizer creates a new middleware for authorization.
// It checks the user's role against the Casbin policies for the request path
// and method. Anonymous users are sent to the login page; authenticated users
// get a 403.
func Authorizer(e casbin.IEnforcer, v *view.View, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := GetUserInfo(r.Context())

			allowed, err := e.Enforce(userInfo.Role, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "Authorization error")
				RenderError(w, r, v, log, http.StatusInternalServerError, "Internal Server Error")
				return
			}
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			if !userInfo.Authenticated() {
				if WantsJSON(r) {
					WriteJSON(w, http.StatusUnauthorized, Fail("Please log in to access this page."))
					return
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			RenderError(w, r, v, log, http.StatusForbidden, "You do not have permission to perform this action!")
		})
	}
}
