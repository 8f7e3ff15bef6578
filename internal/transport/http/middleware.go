package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/you/payout-backoffice/internal/auth"
	"github.com/you/payout-backoffice/internal/domain"
)

const sessionCookie = "session_token"

type ctxKey int

const identityKey ctxKey = iota

// withAuth resolves the session token (cookie or bearer header) to the
// caller's identity and stores it in the request context. Everything behind
// it can assume a valid identity is present.
func (h *Handlers) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			errorResp(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		ident, _, err := h.AuthUC.Authenticate(r.Context(), token)
		if err != nil {
			errorResp(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, ident)
		next(w, r.WithContext(ctx))
	}
}

func (h *Handlers) requireRole(role domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identityFrom(r.Context())
		if !ok {
			errorResp(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		if ident.Role != role {
			errorResp(w, http.StatusForbidden, "Access denied")
			return
		}
		next(w, r)
	}
}

func identityFrom(ctx context.Context) (auth.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(auth.Identity)
	return ident, ok
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
