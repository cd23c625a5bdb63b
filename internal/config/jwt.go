package config

import (
	"fmt"
	"os"
	"strings"
)

// JWTConfig holds configuration for verifying admin bearer tokens.
type JWTConfig struct {
	Secret string
	Issuer string // optional; when set the token's iss claim must match
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required) and JWT_ISSUER (optional).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	config := &JWTConfig{
		Secret: secret,
		Issuer: strings.TrimSpace(os.Getenv("JWT_ISSUER")),
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if strings.TrimSpace(c.Secret) == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters, got: %d", len(c.Secret))
	}
	return nil
}
