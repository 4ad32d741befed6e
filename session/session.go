// Package session owns the client-side authentication state machine of the
// back office: credential login, automatic restoration from persisted
// identifiers, and logout. A single Manager instance is shared by every
// consumer for the lifetime of the process, and all mutation is funnelled
// through its operations.
package session

import "github.com/finbackoffice/sessionkit/users"

// Status is the authentication status of the session.
type Status int

const (
	StatusEmpty Status = iota
	StatusRestoring
	StatusLoggingIn
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusRestoring:
		return "restoring"
	case StatusLoggingIn:
		return "logging_in"
	case StatusAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Session is the process-wide authentication state. A non-empty Token is the
// primary "is authenticated" signal; User and Role are always set together
// with it from the same token decode.
type Session struct {
	User   *users.Profile // nil when unauthenticated
	Role   string         // role claim from the access token
	Tenant string         // tenant context; may be empty even when authenticated
	Token  string         // opaque bearer credential
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
