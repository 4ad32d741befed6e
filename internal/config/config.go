package config

type Config interface {
	EnvConfig
	AuthConfig
	GuardConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Auth
	Guard
}

func New() Config {
	return mainConfig{}
}
