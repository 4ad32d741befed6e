// Command backoffice runs a gin front for the protected back-office routes:
// it restores the session from the persisted identifiers on boot and guards
// every route group by role.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/finbackoffice/sessionkit/guard"
	"github.com/finbackoffice/sessionkit/identity"
	"github.com/finbackoffice/sessionkit/internal/config"
	"github.com/finbackoffice/sessionkit/restclient"
	"github.com/finbackoffice/sessionkit/session"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	c := config.New()

	identities := newIdentityRepo(c)
	backend := restclient.New(c.GetBackendBaseURL())

	manager, err := session.NewManager(session.Collaborators{
		Auth:   backend,
		Tokens: backend,
		Users:  backend,
	}, identities)
	if err != nil {
		log.Fatal().Err(err).Msg("building session manager")
	}
	manager.Start(context.Background())

	g := guard.New(manager, identities,
		guard.WithHold(c.GetGuardHold()),
		guard.WithRoutes(c.GetLoginRoute(), c.GetDeniedRoute()))

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(c.GetLoginRoute(), loginPage)
	router.GET(c.GetDeniedRoute(), deniedPage)
	router.POST(c.GetLoginRoute(), loginSubmit(manager))
	router.POST("/logout", logoutSubmit(manager))

	protected := router.Group("/", guard.GinRequire(g))
	protected.GET("/", homePage(manager))

	admin := router.Group("/admin", guard.GinRequire(g, "superadmin"))
	admin.GET("/", adminPage)

	log.Info().Str("addr", c.GetPort()).Msg("back office listening")
	if err := router.Run(c.GetPort()); err != nil {
		log.Fatal().Err(err).Msg("router.Run")
	}
}

func newIdentityRepo(c config.Config) identity.Repo {
	addr := c.GetRedisAddr()
	if addr == "" {
		return identity.NewMemoryRepo()
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return identity.NewRedisRepo(client, "backoffice:identity", 0)
}

func loginPage(c *gin.Context) {
	c.String(http.StatusOK, "login required")
}

func deniedPage(c *gin.Context) {
	c.String(http.StatusForbidden, "access denied")
}

func loginSubmit(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.PostForm("email")
		password := c.PostForm("password")
		if err := manager.Login(c.Request.Context(), email, password); err != nil {
			c.String(http.StatusUnauthorized, "login failed")
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func logoutSubmit(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		manager.Logout(c.Request.Context())
		c.Redirect(http.StatusSeeOther, "/login")
	}
}

func homePage(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := manager.Snapshot()
		c.String(http.StatusOK, "signed in as %s (%s)", sess.User.Name, sess.Role)
	}
}

func adminPage(c *gin.Context) {
	c.String(http.StatusOK, "admin console")
}
