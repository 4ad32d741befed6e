package session

import (
	"context"

	"github.com/finbackoffice/sessionkit/users"
)

// Authenticator exchanges credentials for a bearer token. Rejects on invalid
// credentials or transport failure.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// TokenFetcher re-issues a bearer token from a previously persisted user id.
// An empty token with a nil error means "cannot restore". Re-issuing from a
// bare stored id is a trust assumption confined to this collaborator.
type TokenFetcher interface {
	FetchTokenByUserID(ctx context.Context, userID string) (string, error)
}

// UserFetcher loads the profile for an authenticated principal. A nil profile
// with a nil error means the backend knows no such user.
type UserFetcher interface {
	FetchUserByID(ctx context.Context, userID, token string) (*users.Profile, error)
}

// Collaborators holds the external dependencies of the Manager.
type Collaborators struct {
	Auth   Authenticator
	Tokens TokenFetcher
	Users  UserFetcher
}
