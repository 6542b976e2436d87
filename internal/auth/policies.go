package auth

import (
	"fmt"
	"go-cms-app/internal/logger"

	"github.com/casbin/casbin/v2"
)

// PublicPaths are the routes an unauthenticated session may reach.
var PublicPaths = [][]string{
	{SubjectAnonymous, "/login", "GET"},
	{SubjectAnonymous, "/login", "POST"},
	{SubjectAnonymous, "/logout", "*"},
	{SubjectAnonymous, "/static/*", "GET"},
	{SubjectAnonymous, "/robots.txt", "GET"},
	{SubjectAnonymous, "/auth/oidc/login", "GET"},
	{SubjectAnonymous, "/auth/oidc/callback", "GET"},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) error {
	log.Info("Seeding default access policies...")

	// The admin role may reach everything, and inherits the public routes.
	policies := append([][]string{
		{SubjectAdmin, "/*", "*"},
	}, PublicPaths...)

	for _, p := range policies {
		has, err := e.HasPolicy(p)
		if err != nil {
			return fmt.Errorf("failed to check policy %v: %w", p, err)
		}
		if has {
			continue
		}
		if _, err := e.AddPolicy(p); err != nil {
			return fmt.Errorf("failed to add policy %v: %w", p, err)
		}
	}

	if has, _ := e.HasRoleForUser(SubjectAdmin, SubjectAnonymous); !has {
		if _, err := e.AddRoleForUser(SubjectAdmin, SubjectAnonymous); err != nil {
			return fmt.Errorf("failed to add role %s -> %s: %w", SubjectAdmin, SubjectAnonymous, err)
		}
	}
	log.Info("Policy seeding complete.")
	return nil
}
