package auth

import (
	"fmt"
	"go-portfolio-app/internal/logger"

	"github.com/casbin/casbin/v2"
)

// DefaultPolicies grant public access to the landing, register and login
// routes, session-only pages to users and every mutating profile route to admins.
var DefaultPolicies = [][]string{
	{RoleAnonymous, "/", "GET"},
	{RoleAnonymous, "/register", "GET"},
	{RoleAnonymous, "/register", "POST"},
	{RoleAnonymous, "/login", "GET"},
	{RoleAnonymous, "/login", "POST"},
	{RoleAnonymous, "/auth/login", "GET"},
	{RoleAnonymous, "/auth/callback", "GET"},
	{RoleAnonymous, "/static/*", "GET"},
	{RoleAnonymous, "/robots.txt", "GET"},
	{RoleAnonymous, "/sitemap.xml", "GET"},

	{RoleUser, "/logout", "GET"},
	{RoleUser, "/about", "GET"},
	{RoleUser, "/skills", "GET"},
	{RoleUser, "/comments/*", "GET"},
	{RoleUser, "/api/comments/*", "GET"},
	{RoleUser, "/api/comments/*", "POST"},

	{RoleAdmin, "/about", "POST"},
	{RoleAdmin, "/management_page", "GET"},
	{RoleAdmin, "/management_page", "POST"},
	{RoleAdmin, "/submit_form", "POST"},
	{RoleAdmin, "/delete/*", "POST"},
	{RoleAdmin, "/add_project", "POST"},
	{RoleAdmin, "/delete_project/*", "POST"},
}

// roleInheritance lists (role, inherited role) pairs.
var roleInheritance = [][2]string{
	{RoleUser, RoleAnonymous},
	{RoleAdmin, RoleUser},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	for _, r := range roleInheritance {
		if has, _ := e.HasRoleForUser(r[0], r[1]); !has {
			if _, err := e.AddRoleForUser(r[0], r[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role '%s' -> '%s'", r[0], r[1]))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
