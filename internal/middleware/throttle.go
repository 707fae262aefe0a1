package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

// LoginThrottle counts failed logins per client IP. The window starts at the
// first failure.
type LoginThrottle struct {
	attempts    *cache.Cache
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle creates a throttle allowing maxAttempts failures per window.
// A non-positive maxAttempts disables throttling.
func NewLoginThrottle(maxAttempts int, window time.Duration) *LoginThrottle {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{
		attempts:    cache.New(window, 2*window),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Blocked reports whether ip has used up its attempts.
func (t *LoginThrottle) Blocked(ip string) bool {
	if t.maxAttempts <= 0 {
		return false
	}
	n, ok := t.attempts.Get(ip)
	return ok && n.(int) >= t.maxAttempts
}

// Fail records one failed attempt for ip.
func (t *LoginThrottle) Fail(ip string) {
	if err := t.attempts.Increment(ip, 1); err != nil {
		t.attempts.Set(ip, 1, t.window)
	}
}

// Reset forgets the failures of ip after a successful login.
func (t *LoginThrottle) Reset(ip string) {
	t.attempts.Delete(ip)
}

// Limit rejects login posts from blocked clients with 429.
func (t *LoginThrottle) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && t.Blocked(ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Too many failed login attempts. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the remote address without its port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
