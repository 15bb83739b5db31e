package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setAuthEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_ISSUER", "muru-api")
	t.Setenv("JWT_AUDIENCE", "muru-web")
}

func TestLoadDefaults(t *testing.T) {
	setAuthEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, 0, cfg.Server.AuthRateLimit)
	assert.Equal(t, 60*time.Minute, cfg.Auth.Expiry())
	assert.Equal(t, 10, cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxBytes())
	assert.Equal(t, []string{".jpg", ".jpeg", ".png", ".gif"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, "Uploads", cfg.Upload.UploadPath)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	setAuthEnv(t)
	t.Setenv("JWT_EXPIRY_MINUTES", "15")
	t.Setenv("UPLOAD_ALLOWED_EXTENSIONS", ".png,.webp")
	t.Setenv("UPLOAD_MAX_FILE_SIZE_MB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Auth.Expiry())
	assert.Equal(t, []string{".png", ".webp"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, int64(2*1024*1024), cfg.Upload.MaxBytes())
}

func TestLoadFailsWithoutSigningConfig(t *testing.T) {
	t.Setenv("JWT_ISSUER", "muru-api")
	t.Setenv("JWT_AUDIENCE", "muru-web")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	tts := map[string]func(c *Config){
		"placeholder secret": func(c *Config) { c.Auth.JWTSecret = placeholderSecret },
		"short secret":       func(c *Config) { c.Auth.JWTSecret = "short" },
		"zero expiry":        func(c *Config) { c.Auth.ExpiryMinutes = 0 },
		"no extensions":      func(c *Config) { c.Upload.AllowedExtensions = nil },
		"unknown driver":     func(c *Config) { c.Storage.Driver = "ftp" },
		"s3 without bucket":  func(c *Config) { c.Storage.Driver = "s3" },
		"minio without keys": func(c *Config) { c.Storage.Driver = "minio" },
	}

	for name, mutate := range tts {
		t.Run(name, func(t *testing.T) {
			setAuthEnv(t)
			cfg, err := Load()
			require.NoError(t, err)

			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
