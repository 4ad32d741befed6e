package claims

import (
	"strconv"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims is the subset of access-token claims the back-office client consumes:
// the principal id, the authorization role tag, and the tenant ("app") context.
type Claims struct {
	UserID string // "id" claim, principal identifier
	Role   string // "role" claim, authorization tag
	Tenant string // "app" claim, business/tenant context; may be empty
}

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrMissingIDClaim = errors.New("token missing id claim")
)

// Decode parses a compact token WITHOUT verifying its signature and extracts
// the id, role and app claims. Decoded claims feed UI-level decisions only;
// the backend re-verifies the token on every API call.
func Decode(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrMalformedToken
	}

	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[Decode] ParseUnverified")
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrap(ErrMalformedToken, "[Decode] extracting claims")
	}

	c := &Claims{
		UserID: stringClaim(mapClaims["id"]),
		Role:   stringClaim(mapClaims["role"]),
		Tenant: stringClaim(mapClaims["app"]),
	}
	if c.UserID == "" {
		return nil, ErrMissingIDClaim
	}
	return c, nil
}

// ParseVerified parses a compact token and verifies its HMAC signature.
// Used by the backend; the client never calls this.
func ParseVerified(rawToken string, secret []byte) (*Claims, error) {
	token, err := jwtlib.Parse(rawToken, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "[ParseVerified] jwt.Parse")
	}
	if !token.Valid {
		return nil, ErrMalformedToken
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrap(ErrMalformedToken, "[ParseVerified] extracting claims")
	}

	c := &Claims{
		UserID: stringClaim(mapClaims["id"]),
		Role:   stringClaim(mapClaims["role"]),
		Tenant: stringClaim(mapClaims["app"]),
	}
	if c.UserID == "" {
		return nil, ErrMissingIDClaim
	}
	return c, nil
}

// stringClaim tolerates both string and numeric encodings. Some issuers
// serialise user ids as JSON numbers.
func stringClaim(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return ""
	}
}
