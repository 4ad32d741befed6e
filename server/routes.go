package server

const (
	RouteOAuthToken  = "/oauth/token"
	RouteAuthRestore = "/auth/restore"
	RouteUserByID    = "/users/{id}"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+RouteOAuthToken, s.TokenHandler())
	s.RegisterRouteFunc("POST "+RouteAuthRestore, s.RestoreHandler())
	s.RegisterRouteFunc("GET "+RouteUserByID, s.RequireAuth(s.UserHandler()))
}
