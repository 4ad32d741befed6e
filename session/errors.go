package session

import "errors"

var (
	InvalidCredentialsErr = errors.New("invalid credentials")
	ProfileNotFoundErr    = errors.New("user profile not found")
	MalformedTokenErr     = errors.New("malformed access token")
)
