package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Env:                  "development",
		Port:                 "8420",
		JWTSecret:            "secure-secret-at-least-32-chars-long",
		DBPassword:           "secure-password",
		DBSSLMode:            "disable",
		UploadDir:            "uploads",
		ImageMaxUploadSizeMB: 10,
		RedisURL:             "redis://localhost:6379",
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid development config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		c := validConfig()
		c.Port = ""
		assert.Error(t, c.Validate())
	})

	t.Run("missing JWT secret", func(t *testing.T) {
		c := validConfig()
		c.JWTSecret = ""
		assert.Error(t, c.Validate())
	})

	t.Run("missing upload dir", func(t *testing.T) {
		c := validConfig()
		c.UploadDir = ""
		assert.Error(t, c.Validate())
	})

	t.Run("non-positive upload size", func(t *testing.T) {
		c := validConfig()
		c.ImageMaxUploadSizeMB = 0
		assert.Error(t, c.Validate())
	})
}

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"strong secrets pass", func(c *Config) {}, false},
		{"default JWT secret rejected", func(c *Config) {
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"short JWT secret rejected", func(c *Config) {
			c.JWTSecret = "too-short"
		}, true},
		{"default DB password rejected", func(c *Config) {
			c.DBPassword = "password"
		}, true},
		{"empty DB password rejected", func(c *Config) {
			c.DBPassword = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = "production"
			c.DBSSLMode = "require"
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
