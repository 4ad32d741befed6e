package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/finbackoffice/sessionkit/users"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// TokenHandler implements the resource owner password grant: credentials in,
// signed access token out.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_request"})
			return
		}

		if r.FormValue("grant_type") != "password" {
			writeJSON(w, http.StatusBadRequest, oauthError{Error: "unsupported_grant_type"})
			return
		}

		email := r.FormValue("username")
		password := r.FormValue("password")

		user, err := s.users.GetByEmail(email)
		if err != nil || !user.Active || !users.CheckPasswordHash(password, user.PasswordHash) {
			log.Warn().Str("email", email).Msg("credential exchange rejected")
			writeJSON(w, http.StatusBadRequest, oauthError{
				Error:            "invalid_grant",
				ErrorDescription: "invalid credentials",
			})
			return
		}

		token, err := s.issuer.Issue(user)
		if err != nil {
			log.Error().Err(err).Msg("issuing access token")
			writeJSON(w, http.StatusInternalServerError, oauthError{Error: "server_error"})
			return
		}

		if err := s.users.SetLastLogin(user.ID); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("recording last login")
		}

		writeJSON(w, http.StatusOK, tokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresIn:   int64(s.config.GetTokenExpiry().Seconds()),
		})
	}
}

// RestoreHandler re-issues a token from a bare user id. This trusts the
// stored id on the client; deployments that need a stronger boundary should
// front this route with their own check.
func (s *Server) RestoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
			writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_request"})
			return
		}

		user, err := s.users.GetByID(payload.UserID)
		if err != nil || !user.Active {
			// Decline without detail: an absent or blocked account reads the
			// same as "cannot restore".
			w.WriteHeader(http.StatusNoContent)
			return
		}

		token, err := s.issuer.Issue(user)
		if err != nil {
			log.Error().Err(err).Msg("re-issuing access token")
			writeJSON(w, http.StatusInternalServerError, oauthError{Error: "server_error"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

// UserHandler returns the profile projection for an authenticated principal.
func (s *Server) UserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		principal, ok := PrincipalFromContext(r.Context())
		if !ok || (principal.UserID != id && principal.Role != string(users.RoleSuperAdmin)) {
			writeJSON(w, http.StatusForbidden, oauthError{Error: "forbidden"})
			return
		}

		user, err := s.users.GetByID(id)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		writeJSON(w, http.StatusOK, user.Profile())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}
