package config

import (
	"os"
	"time"
)

const (
	accessSecretVar  = "JWT_SECRET"
	refreshSecretVar = "JWT_REFRESH_SECRET"
	accessTTLVar     = "ACCESS_TOKEN_TTL"
	refreshTTLVar    = "REFRESH_TOKEN_TTL"

	// Insecure fallbacks mirroring the development defaults. Never use these
	// in production; UsingFallbackSecrets lets the server warn at startup.
	defaultAccessSecret  = "defaultsecret"
	defaultRefreshSecret = "defaultrefreshsecret"
)

type SecurityConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	UsingFallbackSecrets() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetAccessTokenSecret() string {
	return GetEnv(accessSecretVar, defaultAccessSecret)
}

func (Security) GetRefreshTokenSecret() string {
	return GetEnv(refreshSecretVar, defaultRefreshSecret)
}

// GetAccessTokenTTL returns the access token lifetime. The default is
// deliberately short (15s) to bound exposure from token theft; set
// ACCESS_TOKEN_TTL to widen it if refresh churn is a problem.
func (Security) GetAccessTokenTTL() time.Duration {
	return getDuration(accessTTLVar, 15*time.Second)
}

func (Security) GetRefreshTokenTTL() time.Duration {
	return getDuration(refreshTTLVar, 365*24*time.Hour)
}

func (Security) UsingFallbackSecrets() bool {
	return os.Getenv(accessSecretVar) == "" || os.Getenv(refreshSecretVar) == ""
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
