package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every bound variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shop-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres://postgres@localhost:5432/shop?sslmode=disable", cfg.Database.URL)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
		assert.Equal(t, cfg.JWT.Secret, cfg.JWT.RefreshSecret)
		assert.Equal(t, 10, cfg.Security.BcryptRounds)
		assert.Equal(t, 60*time.Second, cfg.Throttle.TTL)
		assert.Equal(t, 100, cfg.Throttle.Limit)
		assert.Equal(t, 5, cfg.Throttle.AuthLimit)
		assert.Equal(t, "Super Admin", cfg.Seed.Name)
		assert.False(t, cfg.Seed.OnStart)
		assert.Equal(t, "local", cfg.Upload.Driver)
		assert.Equal(t, "./uploads", cfg.Upload.Dir)
		assert.Equal(t, "/uploads", cfg.Upload.BaseURL)
		assert.Equal(t, int64(5242880), cfg.Upload.MaxSize)
		assert.Equal(t, 1920, cfg.Upload.MaxWidth)
		assert.Equal(t, 300, cfg.Upload.ThumbSize)
		assert.Equal(t, int64(40_000_000), cfg.Upload.MaxPixels)
		assert.True(t, cfg.Swagger.Enabled)
		assert.False(t, cfg.Redis.Enabled())
	})

	t.Run("loads values from spec environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "9000")
		t.Setenv("DATABASE_URL", "sqlite://./test.db")
		t.Setenv("JWT_SECRET", "a-very-long-secret-value-for-tests-only")
		t.Setenv("JWT_REFRESH_SECRET", "another-secret")
		t.Setenv("JWT_EXPIRES_IN", "30m")
		t.Setenv("JWT_REFRESH_EXPIRES_IN", "7d")
		t.Setenv("SUPER_ADMIN_EMAIL", "root@example.com")
		t.Setenv("SUPER_ADMIN_PASSWORD", "Secret123")
		t.Setenv("SUPER_ADMIN_SEED_ON_START", "true")
		t.Setenv("BCRYPT_ROUNDS", "12")
		t.Setenv("THROTTLE_TTL", "30")
		t.Setenv("THROTTLE_LIMIT", "50")
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		driver, err := cfg.Database.Driver()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", driver)
		assert.Equal(t, "./test.db", cfg.Database.DSN())
		assert.Equal(t, "another-secret", cfg.JWT.RefreshSecret)
		assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiration)
		assert.Equal(t, "root@example.com", cfg.Seed.Email)
		assert.True(t, cfg.Seed.OnStart)
		assert.NoError(t, cfg.Seed.Validate())
		assert.Equal(t, 12, cfg.Security.BcryptRounds)
		assert.Equal(t, 30*time.Second, cfg.Throttle.TTL)
		assert.Equal(t, 50, cfg.Throttle.Limit)
		assert.True(t, cfg.Redis.Enabled())
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects bcrypt rounds out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BCRYPT_ROUNDS", "3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BCRYPT_ROUNDS")

		t.Setenv("BCRYPT_ROUNDS", "32")
		_, err = Load()
		require.Error(t, err)
	})

	t.Run("rejects negative throttle values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("THROTTLE_LIMIT", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "THROTTLE")
	})

	t.Run("rejects unknown database scheme", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "mysql://localhost/shop")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("rejects malformed duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_EXPIRES_IN", "soon")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_EXPIRES_IN")
	})

	t.Run("s3 driver requires bucket", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORAGE_DRIVER", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "S3_BUCKET")

		t.Setenv("S3_BUCKET", "images")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "s3", cfg.Upload.Driver)
	})
}

func TestProductionValidation(t *testing.T) {
	production := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("SWAGGER_ENABLED", "false")
	}

	t.Run("valid production config", func(t *testing.T) {
		production(t)
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
		assert.False(t, cfg.Swagger.Enabled)
	})

	t.Run("requires jwt secret", func(t *testing.T) {
		production(t)
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET is required")
	})

	t.Run("requires long jwt secret", func(t *testing.T) {
		production(t)
		t.Setenv("JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32")
	})

	t.Run("rejects wildcard CORS", func(t *testing.T) {
		production(t)
		t.Setenv("CORS_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CORS_ORIGINS")
	})

	t.Run("swagger requires IP restriction", func(t *testing.T) {
		production(t)
		t.Setenv("SWAGGER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)

		t.Setenv("SWAGGER_ALLOWED_IPS", "10.0.0.1")
		_, err = Load()
		require.NoError(t, err)
	})
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"", 0},
		{"900", 900 * time.Second},
		{"15m", 15 * time.Minute},
		{"2d", 48 * time.Hour},
		{"1h30m", 90 * time.Minute},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := parseDuration("xd")
	assert.Error(t, err)
}

func TestSeedConfig_Validate(t *testing.T) {
	assert.Error(t, SeedConfig{Password: "x"}.Validate())
	assert.Error(t, SeedConfig{Email: "a@b.c"}.Validate())
	assert.NoError(t, SeedConfig{Email: "a@b.c", Password: "x"}.Validate())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(nil))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Equal(t, []string{"a", "b"}, splitList([]any{"a", " b "}))
}
