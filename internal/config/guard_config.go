package config

import "time"

type GuardConfig interface {
	GetGuardHold() time.Duration
	GetLoginRoute() string
	GetDeniedRoute() string
}

type Guard struct{}

var _ GuardConfig = Guard{}

func (Guard) GetGuardHold() time.Duration {
	return getDuration("GUARD_HOLD", time.Second)
}

func (Guard) GetLoginRoute() string {
	return GetEnv("LOGIN_ROUTE", "/login")
}

func (Guard) GetDeniedRoute() string {
	return GetEnv("DENIED_ROUTE", "/denied")
}
