package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/finbackoffice/sessionkit/claims"
)

type principalContextKey struct{}

// PrincipalFromContext extracts the verified token claims of the caller.
func PrincipalFromContext(ctx context.Context) (*claims.Claims, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(*claims.Claims)
	return principal, ok
}

// RequireAuth validates the Bearer token's signature and expiry. Unlike the
// client, the server always verifies.
func (s *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeJSON(w, http.StatusUnauthorized, oauthError{
				Error:            "unauthorized",
				ErrorDescription: "missing or malformed Authorization header",
			})
			return
		}

		principal, err := claims.ParseVerified(token, []byte(s.config.GetSigningSecret()))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, oauthError{
				Error:            "unauthorized",
				ErrorDescription: "invalid token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
