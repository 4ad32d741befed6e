package config

import (
	"time"
)

type AuthConfig interface {
	GetSigningSecret() string
	GetTokenExpiry() time.Duration
	GetBackendBaseURL() string
	GetRedisAddr() string
	GetBootstrapEmail() string
	GetBootstrapPassword() string
}

type Auth struct{}

var _ AuthConfig = Auth{}

// GetSigningSecret returns the HMAC secret used to sign access tokens.
// Only the backend reads this; clients decode tokens without it.
func (Auth) GetSigningSecret() string {
	return GetEnv("SIGNING_SECRET", "dev-only-signing-secret")
}

func (Auth) GetTokenExpiry() time.Duration {
	return getDuration("TOKEN_EXPIRY", 8*time.Hour)
}

func (Auth) GetBackendBaseURL() string {
	return GetEnv("BACKEND_BASE_URL", "http://localhost:8080")
}

// GetRedisAddr returns the Redis address for the shared identity store.
// Empty means the in-process store is used instead.
func (Auth) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Auth) GetBootstrapEmail() string {
	return GetEnv("BOOTSTRAP_EMAIL", "admin@backoffice.local")
}

func (Auth) GetBootstrapPassword() string {
	return GetEnv("BOOTSTRAP_PASSWORD", "ChangeMe123")
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
