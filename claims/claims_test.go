package claims_test

import (
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/finbackoffice/sessionkit/claims"
)

var testSecret = []byte("test-signing-secret")

func signedToken(t *testing.T, mapClaims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, mapClaims).SignedString(testSecret)
	require.NoError(t, err)
	return raw
}

func TestDecodeExtractsIDRoleAndTenant(t *testing.T) {
	raw := signedToken(t, jwtlib.MapClaims{"id": "7", "role": "cajero", "app": "tenantA"})

	c, err := claims.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "7", c.UserID)
	require.Equal(t, "cajero", c.Role)
	require.Equal(t, "tenantA", c.Tenant)
}

func TestDecodeToleratesNumericID(t *testing.T) {
	raw := signedToken(t, jwtlib.MapClaims{"id": 7, "role": "cajero"})

	c, err := claims.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "7", c.UserID)
	require.Empty(t, c.Tenant)
}

func TestDecodeDoesNotRequireValidSignature(t *testing.T) {
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"id": "9", "role": "superadmin",
	}).SignedString([]byte("a-key-the-client-never-sees"))
	require.NoError(t, err)

	c, err := claims.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "9", c.UserID)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := claims.Decode("not-a-token")
	require.Error(t, err)

	_, err = claims.Decode("   ")
	require.ErrorIs(t, err, claims.ErrMalformedToken)
}

func TestDecodeRejectsMissingID(t *testing.T) {
	raw := signedToken(t, jwtlib.MapClaims{"role": "cajero"})

	_, err := claims.Decode(raw)
	require.ErrorIs(t, err, claims.ErrMissingIDClaim)
}

func TestParseVerified(t *testing.T) {
	raw := signedToken(t, jwtlib.MapClaims{"id": "7", "role": "cajero", "app": "tenantA"})

	c, err := claims.ParseVerified(raw, testSecret)
	require.NoError(t, err)
	require.Equal(t, "7", c.UserID)

	_, err = claims.ParseVerified(raw, []byte("wrong-secret"))
	require.Error(t, err)
}
