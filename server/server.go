// Package server implements the backend the session collaborators talk to:
// credential exchange, token re-issue by user id, and profile lookup.
package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/finbackoffice/sessionkit/internal/config"
	"github.com/finbackoffice/sessionkit/users"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	users  users.UserRepo
	issuer *TokenIssuer
}

func New(cfg config.Config, userRepo users.UserRepo) (*Server, error) {
	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		users:  userRepo,
		issuer: NewTokenIssuer([]byte(cfg.GetSigningSecret()), cfg.GetTokenExpiry()),
	}
	s.env = cfg.GetEnv()

	if err := s.bootstrapUsers(); err != nil {
		return nil, err
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		log.Info().Str("route", route).Msg("registered")
	}
}

// bootstrapUsers seeds a superadmin account so a fresh deployment can log in.
func (s *Server) bootstrapUsers() error {
	email := s.config.GetBootstrapEmail()
	if _, err := s.users.GetByEmail(email); err == nil {
		return nil
	}

	hash, err := users.HashPassword(s.config.GetBootstrapPassword())
	if err != nil {
		return err
	}
	return s.users.Upsert(&users.User{
		Email:        email,
		Name:         "Bootstrap Admin",
		PasswordHash: hash,
		Role:         users.RoleSuperAdmin,
		Active:       true,
	})
}
