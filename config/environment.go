package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	appEnvVar              = "APP_ENV"
	environmentDevelopment = "development"
	environmentProduction  = "production"
	environmentStaging     = "staging"
)

const (
	// DefaultConfigPath is used when no -config flag is given.
	DefaultConfigPath = "config/probe.yml"

	EnvironmentDevelopment = environmentDevelopment
	EnvironmentProduction  = environmentProduction
	EnvironmentStaging     = environmentStaging
)

var environmentAliases = map[string]string{
	"dev":     environmentDevelopment,
	"prod":    environmentProduction,
	"stag":    environmentStaging,
	"stage":   environmentStaging,
	"testnet": environmentStaging,
	"mainnet": environmentProduction,
}

// getAppEnvironment reads the application environment from APP_ENV and
// defaults to development when no value is provided.
func getAppEnvironment() string {
	env := strings.ToLower(strings.TrimSpace(os.Getenv(appEnvVar)))
	if env == "" {
		return environmentDevelopment
	}
	if canonical, ok := environmentAliases[env]; ok {
		return canonical
	}
	return env
}

// envSpecificPath turns config/probe.yml into config/probe.<env>.yml.
func envSpecificPath(path, env string) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s.%s%s", strings.TrimSuffix(path, ext), env, ext)
}

// ResolveConfigPath selects an environment specific configuration file when
// the default path is in use and a file for the current APP_ENV exists.
// An explicitly requested path is returned untouched.
func ResolveConfigPath(path string) string {
	if path != "" && path != DefaultConfigPath {
		return path
	}

	candidate := envSpecificPath(DefaultConfigPath, getAppEnvironment())
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return DefaultConfigPath
}

// AppEnvironment exposes the current application environment as configured
// through the APP_ENV environment variable, normalised through the same
// alias rules used to resolve environment specific files.
func AppEnvironment() string {
	return getAppEnvironment()
}

// IsProductionLike reports whether the provided environment should behave like
// a production deployment. Production-like environments (production and
// staging) refuse plain-http API hosts.
func IsProductionLike(env string) bool {
	switch env {
	case environmentProduction, environmentStaging:
		return true
	default:
		return false
	}
}
