package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"cultural-map/internal/auth"
	"cultural-map/internal/model"
)

type tokenVerifier interface {
	DecodeAndVerify(tokenString string) (auth.Claims, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

type AuthMiddleware struct {
	verifier tokenVerifier
	scheme   string
}

func NewAuthMiddleware(verifier tokenVerifier, scheme string) *AuthMiddleware {
	scheme = strings.TrimSpace(scheme)
	if scheme == "" {
		scheme = "Bearer"
	}
	return &AuthMiddleware{verifier: verifier, scheme: scheme}
}

// Authenticate resolves the caller's identity once per request, before any
// business logic. A missing, malformed, badly signed or expired token all
// degrade to an anonymous request; the distinction is logged, never returned.
// This stage itself never rejects: role and ownership checks downstream see
// an anonymous principal and deny.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		prefix := m.scheme + " "
		if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimSpace(header[len(prefix):])
		claims, err := m.verifier.DecodeAndVerify(token)
		if err != nil {
			slog.Debug("bearer token rejected", "reason", err)
			next.ServeHTTP(w, r)
			return
		}

		principal := auth.Principal{Username: claims.Subject, Role: claims.Roles}
		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuthenticated rejects anonymous requests with 401.
func (m *AuthMiddleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			writeAuthError(w, "UNAUTHORIZED", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous requests with 401 and authenticated requests
// whose roles do not satisfy the required role (via the hierarchy) with 403.
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeAuthError(w, "UNAUTHORIZED", "authentication required")
				return
			}

			if !auth.AuthorizeRole(principal, role) {
				writeAuthError(w, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext returns the identity resolved for this request, if
// any.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(auth.Principal)
	return principal, ok
}

// WithPrincipal returns a context carrying the given principal. Used by
// tests that exercise handlers without the full middleware chain.
func WithPrincipal(ctx context.Context, principal auth.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

func writeAuthError(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code == "FORBIDDEN" {
		w.WriteHeader(http.StatusForbidden)
	} else {
		w.WriteHeader(http.StatusUnauthorized)
	}

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
