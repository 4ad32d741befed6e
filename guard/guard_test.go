package guard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/finbackoffice/sessionkit/guard"
	"github.com/finbackoffice/sessionkit/identity"
	"github.com/finbackoffice/sessionkit/session"
	"github.com/finbackoffice/sessionkit/session/collabfakes"
	"github.com/finbackoffice/sessionkit/users"
)

const (
	testUserID   = "7"
	testEmail    = "a@b.com"
	testPassword = "pw"
)

type guardFixture struct {
	auth       *collabfakes.FakeAuthenticator
	tokens     *collabfakes.FakeTokenFetcher
	identities *identity.MemoryRepo
	manager    *session.Manager
}

func setupGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	f := &guardFixture{
		auth:       &collabfakes.FakeAuthenticator{Email: testEmail, Password: testPassword},
		tokens:     &collabfakes.FakeTokenFetcher{Tokens: map[string]string{}},
		identities: identity.NewMemoryRepo(),
	}

	profiles := &collabfakes.FakeUserFetcher{Profiles: map[string]*users.Profile{
		testUserID: {Name: "X"},
	}}

	manager, err := session.NewManager(session.Collaborators{
		Auth:   f.auth,
		Tokens: f.tokens,
		Users:  profiles,
	}, f.identities, session.WithAutoRestore(false))
	require.NoError(t, err)

	f.manager = manager
	return f
}

func (f *guardFixture) loginAs(t *testing.T, role string) {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"id": testUserID, "role": role, "app": "tenantA",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	f.auth.Token = raw
	require.NoError(t, f.manager.Login(context.Background(), testEmail, testPassword))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("protected"))
	})
}

func serve(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	return rec
}

func TestRedirectsToLoginWithoutToken(t *testing.T) {
	f := setupGuardFixture(t)
	require.NoError(t, f.identities.SetUserID(context.Background(), testUserID))
	g := guard.New(f.manager, f.identities, guard.WithHold(0))

	// The allow-list is irrelevant without a token.
	for _, roles := range [][]string{nil, {"superadmin"}, {"cajero", "supervisor"}} {
		rec := serve(t, g.Require(okHandler(), roles...))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	}
}

func TestDeniesRoleOutsideAllowList(t *testing.T) {
	f := setupGuardFixture(t)
	f.loginAs(t, "cajero")
	g := guard.New(f.manager, f.identities, guard.WithHold(0))

	rec := serve(t, g.Require(okHandler(), "superadmin"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/denied", rec.Header().Get("Location"))
}

func TestServesRoleInAllowList(t *testing.T) {
	f := setupGuardFixture(t)
	f.loginAs(t, "superadmin")
	g := guard.New(f.manager, f.identities, guard.WithHold(0))

	rec := serve(t, g.Require(okHandler(), "superadmin"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "protected", rec.Body.String())
}

func TestEmptyAllowListAdmitsAnyAuthenticatedRole(t *testing.T) {
	f := setupGuardFixture(t)
	f.loginAs(t, "cajero")
	g := guard.New(f.manager, f.identities, guard.WithHold(0))

	rec := serve(t, g.Require(okHandler()))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMountTimeIdentifierCheckSticks(t *testing.T) {
	f := setupGuardFixture(t)
	// Guard constructed before any persisted identifier exists.
	g := guard.New(f.manager, f.identities, guard.WithHold(0))

	f.loginAs(t, "superadmin")

	rec := serve(t, g.Require(okHandler()))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestCustomRoutes(t *testing.T) {
	f := setupGuardFixture(t)
	f.loginAs(t, "cajero")
	g := guard.New(f.manager, f.identities,
		guard.WithHold(0),
		guard.WithRoutes("/auth/login", "/auth/forbidden"))

	rec := serve(t, g.Require(okHandler(), "superadmin"))
	require.Equal(t, "/auth/forbidden", rec.Header().Get("Location"))
}

func TestLoadingHandlerDuringHoldWindow(t *testing.T) {
	f := setupGuardFixture(t)
	f.loginAs(t, "cajero")

	fixed := time.Now()
	loading := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("loading"))
	})
	g := guard.New(f.manager, f.identities,
		guard.WithHold(time.Second),
		guard.WithNowFunc(func() time.Time { return fixed }),
		guard.WithLoadingHandler(loading))

	rec := serve(t, g.Require(okHandler()))
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "loading", rec.Body.String())
}

func TestHoldWindowBlocksThenServes(t *testing.T) {
	f := setupGuardFixture(t)
	f.loginAs(t, "cajero")
	g := guard.New(f.manager, f.identities, guard.WithHold(20*time.Millisecond))

	started := time.Now()
	rec := serve(t, g.Require(okHandler()))
	require.Equal(t, http.StatusOK, rec.Code)
	require.GreaterOrEqual(t, time.Since(started), 20*time.Millisecond)
}

func TestGinAdapter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	f := setupGuardFixture(t)
	f.loginAs(t, "superadmin")
	g := guard.New(f.manager, f.identities, guard.WithHold(0))

	router := gin.New()
	router.GET("/admin", guard.GinRequire(g, "superadmin"), func(c *gin.Context) {
		c.String(http.StatusOK, "admin")
	})
	router.GET("/register", guard.GinRequire(g, "cajero"), func(c *gin.Context) {
		c.String(http.StatusOK, "register")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "admin", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/register", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/denied", rec.Header().Get("Location"))
}
