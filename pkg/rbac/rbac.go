// Package rbac provides role-based access control middleware.
//
// The marketplace has exactly two roles: "client" (buys produce) and
// "farmer" (lists and fulfils). Routes that only make sense for one side
// are gated with HasRole.
package rbac

import (
	"net/http"

	"github.com/freshmandi/freshmandi/pkg/middleware"
	"github.com/freshmandi/freshmandi/pkg/response"
)

const (
	RoleClient = "client"
	RoleFarmer = "farmer"
)

// HasRole returns middleware that allows access only to users with one of the
// given roles. Requires AuthMiddleware to have already run.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !allowed[role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest returns middleware that blocks authenticated users (login/register).
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromCtx(r); ok {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
