package handler

import (
	"go-portfolio-app/internal/middleware"
	"go-portfolio-app/internal/session"
	"go-portfolio-app/web"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Router bundles the handlers and middleware that NewRouter wires together.
type Router struct {
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Comments *CommentHandler
	Seo      *SeoHandler

	Sessions     session.Manager
	LoadUser     func(http.Handler) http.Handler
	Authz        func(http.Handler) http.Handler
	CSRF         func(http.Handler) http.Handler
	RequestLog   func(http.Handler) http.Handler
	Error        func(middleware.AppHandler) http.Handler
	Throttle     *middleware.LoginThrottle
	AllowOrigins []string
	TrustProxy   bool
}

// NewRouter creates and configures a new chi router.
func NewRouter(rt Router) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimw.RequestID)
	if rt.TrustProxy {
		r.Use(chimw.RealIP)
	}
	if rt.RequestLog != nil {
		r.Use(rt.RequestLog)
	}
	r.Use(chimw.Recoverer)
	if len(rt.AllowOrigins) > 0 {
		r.Use(apiCORS(rt.AllowOrigins))
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS))))
	r.Get("/robots.txt", rt.Seo.robotsHandler)
	r.Get("/sitemap.xml", rt.Seo.sitemapHandler)

	h := rt.Error
	r.Group(func(r chi.Router) {
		r.Use(rt.Sessions.LoadAndSave)
		r.Use(rt.LoadUser)
		r.Use(rt.Authz)
		r.Use(rt.CSRF)

		r.Method(http.MethodGet, "/", h(rt.Profile.home))
		r.Method(http.MethodGet, "/register", h(rt.Auth.registerForm))
		r.Method(http.MethodPost, "/register", h(rt.Auth.register))
		r.Method(http.MethodGet, "/login", h(rt.Auth.loginForm))
		r.With(rt.Throttle.Limit).Method(http.MethodPost, "/login", h(rt.Auth.login))
		r.Method(http.MethodGet, "/logout", h(rt.Auth.logout))
		r.Method(http.MethodGet, "/auth/login", h(rt.Auth.oidcLogin))
		r.Method(http.MethodGet, "/auth/callback", h(rt.Auth.oidcCallback))

		r.Method(http.MethodGet, "/about", h(rt.Profile.about))
		r.Method(http.MethodPost, "/about", h(rt.Profile.saveAbout))
		r.Method(http.MethodGet, "/skills", h(rt.Profile.skills))
		r.Method(http.MethodGet, "/management_page", h(rt.Profile.management))
		r.Method(http.MethodPost, "/management_page", h(rt.Profile.submitForm))
		r.Method(http.MethodPost, "/submit_form", h(rt.Profile.submitForm))
		r.Method(http.MethodPost, "/delete/{model}/{id}", h(rt.Profile.deleteRecord))
		r.Method(http.MethodPost, "/add_project", h(rt.Profile.addProject))
		r.Method(http.MethodPost, "/delete_project/{id}", h(rt.Profile.deleteProject))

		r.Method(http.MethodGet, "/comments/{page}", h(rt.Comments.fragment))
		r.Method(http.MethodGet, "/api/comments/{page}", h(rt.Comments.list))
		r.Method(http.MethodPost, "/api/comments/{page}", h(rt.Comments.manage))
	})

	return r
}

// apiCORS answers cross-origin requests, including preflights, for /api/
// routes only.
func apiCORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "X-CSRFToken", "X-CSRF-Token"},
		AllowCredentials: true,
	})
	return func(next http.Handler) http.Handler {
		withCORS := c.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				withCORS.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
