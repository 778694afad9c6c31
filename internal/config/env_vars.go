package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	baseURLVar      = "CONSOLE_API_BASE_URL"
	httpTimeoutVar  = "CONSOLE_HTTP_TIMEOUT"
	renewTimeoutVar = "CONSOLE_RENEW_TIMEOUT"
	credsFileVar    = "CONSOLE_CREDENTIALS_FILE"
	logLevelVar     = "CONSOLE_LOG_LEVEL"
)

type EnvVars struct{}

var _ Config = EnvVars{}

// GetAPIBaseURL returns the backend base URL (e.g. "https://api.condo.example").
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8000")
}

// GetHTTPTimeout bounds ordinary backend calls.
func (EnvVars) GetHTTPTimeout() time.Duration {
	return getDuration(httpTimeoutVar, 30*time.Second)
}

// GetRenewTimeout bounds the single credential refresh call. Hitting it
// counts as renewal failure.
func (EnvVars) GetRenewTimeout() time.Duration {
	return getDuration(renewTimeoutVar, 10*time.Second)
}

// GetCredentialsFile returns the path of the durable credential file,
// defaulting to the user config directory.
func (EnvVars) GetCredentialsFile() string {
	if path := os.Getenv(credsFileVar); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "condo-console", "credentials.json")
}

// GetLogLevel returns the zerolog level name ("debug", "info", ...).
func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
