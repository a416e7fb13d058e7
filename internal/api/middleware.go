package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sponsorbridge/sponsorbridge/internal/middleware"
	"github.com/sponsorbridge/sponsorbridge/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity stores the authenticated identity on the context. The value is
// a copy, never a pointer, so handlers cannot mutate a shared identity.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity placed on the context by
// RequireRole. ok is false only if the handler was wired without the gate.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	return id, ok
}

// RequireRole gates a handler behind session resolution and a role check.
// Unauthenticated requests get 401, authenticated requests without one of the
// allowed roles get 403. The identity is attached to the request context for
// the wrapped handler. Session store failures reject rather than letting the
// request through anonymously.
func (s *Server) RequireRole(h http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.Sessions.Resolve(r.Context(), r.Header.Get("Cookie"))
		if err != nil {
			middleware.LoggerFromRequest(r, s.Logger).Error("Failed to resolve session", zap.Error(err))
			s.Metrics.IncrementAuthRejections("resolver_error")
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if identity == nil {
			s.Metrics.IncrementAuthRejections("unauthenticated")
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !identity.HasRole(roles...) {
			s.Metrics.IncrementAuthRejections("wrong_role")
			writeError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		h(w, r.WithContext(WithIdentity(r.Context(), *identity)))
	}
}

// requireIdentity fetches the gate-attached identity or fails closed. A
// missing identity means a wiring bug, not a user error, so it logs loudly.
func (s *Server) requireIdentity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		s.Logger.Error("Handler reached without identity in context", zap.String("path", r.URL.Path))
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return models.Identity{}, false
	}
	return id, true
}
