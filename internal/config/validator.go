// Package config provides environment configuration validation
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ValidateEnv validates that all required environment variables are set
func ValidateEnv(requiredVars []string) error {
	var missing []string

	for _, varName := range requiredVars {
		value := os.Getenv(varName)
		if value == "" {
			missing = append(missing, varName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateAuth ensures that exactly one token verification mode is configured:
// a remote verification endpoint or a local signing secret.
func ValidateAuth() error {
	verifyURL := os.Getenv("AUTH_VERIFY_URL")
	secret := os.Getenv("AUTH_TOKEN_SECRET")

	if verifyURL == "" && secret == "" {
		return errors.New("either AUTH_VERIFY_URL or AUTH_TOKEN_SECRET is required")
	}
	if verifyURL != "" && secret != "" {
		return errors.New("AUTH_VERIFY_URL and AUTH_TOKEN_SECRET are mutually exclusive")
	}

	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// MustGetEnv retrieves an environment variable or panics
func MustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return value
}
