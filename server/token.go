package server

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/finbackoffice/sessionkit/users"
)

// TokenIssuer signs access tokens carrying the id, role and app claims the
// back-office client decodes.
type TokenIssuer struct {
	secret  []byte
	expiry  time.Duration
	nowFunc func() time.Time
}

func NewTokenIssuer(secret []byte, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:  secret,
		expiry:  expiry,
		nowFunc: time.Now,
	}
}

func (ti *TokenIssuer) Issue(user *users.User) (string, error) {
	now := ti.nowFunc()
	mapClaims := jwtlib.MapClaims{
		"id":   user.ID,                   // Principal identifier
		"role": string(user.Role),         // Authorization tag
		"iat":  now.Unix(),                // Issued At: the time at which the token was issued
		"exp":  now.Add(ti.expiry).Unix(), // Expiry: when the token will expire
		"jti":  uuid.New().String(),       // Unique token ID
	}
	if user.App != "" {
		mapClaims["app"] = user.App // Tenant context, omitted when unknown
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, mapClaims).SignedString(ti.secret)
	if err != nil {
		return "", errors.Wrap(err, "[TokenIssuer.Issue] signing")
	}
	return signed, nil
}
