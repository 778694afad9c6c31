package config

import "time"

// Config is everything the console shell needs to wire the session core.
type Config interface {
	APIConfig
	StorageConfig
}

// APIConfig locates and bounds calls to the backend.
type APIConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
	GetRenewTimeout() time.Duration
	GetLogLevel() string
}

// StorageConfig locates the durable credential store.
type StorageConfig interface {
	GetCredentialsFile() string
}

type mainConfig struct {
	EnvVars
}

// New returns the environment-variable backed configuration.
func New() Config {
	return mainConfig{}
}
