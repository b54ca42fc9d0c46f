package auth

import (
	"errors"
	"fmt"
	"net/http"

	"libraryLoanManagement/repository"
)

// Sentinel errors the HTTP layer maps to 401/403.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Middleware returns HTTP middleware that validates a Bearer JWT from the
// Authorization header and injects the Principal into the request context.
// A token authenticates only while its access_tokens row still exists, which
// is what makes logout an actual revocation. The role is refreshed from the
// users table so a role change takes effect on the next request, not at the
// next login.
func Middleware(secret string, tokens repository.TokenRepositoryI, users repository.UserRepositoryI) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := BearerFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w)
				return
			}
			p, err := ParseToken(tokenStr, secret)
			if err != nil {
				unauthorized(w)
				return
			}
			ctx := r.Context()
			live, err := tokens.Exists(ctx, p.TokenID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !live {
				unauthorized(w)
				return
			}
			u, err := users.GetByID(ctx, p.UserID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if u == nil {
				unauthorized(w)
				return
			}
			p.Name = u.Name
			p.Role = u.Role
			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	http.Error(w, "unauthenticated", http.StatusUnauthorized)
}

// RequirePrincipal ensures a principal is present in the request context.
func RequirePrincipal(r *http.Request) (*Principal, error) {
	p, ok := FromContext(r.Context())
	if !ok {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// RequirePermission ensures the caller holds the given permission.
func RequirePermission(r *http.Request, permission string) (*Principal, error) {
	p, err := RequirePrincipal(r)
	if err != nil {
		return nil, err
	}
	if !RoleCan(p.Role, permission) {
		return nil, fmt.Errorf("%w: %s requires %s", ErrForbidden, p.Role, permission)
	}
	return p, nil
}
