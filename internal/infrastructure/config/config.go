package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Throttle  ThrottleConfig
	Seed      SeedConfig
	Upload    UploadConfig
	Storage   StorageConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the app runs in production mode
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	AutoMigrate     bool
}

// RedisConfig holds Redis connection settings.
// An empty URL selects the in-memory fallbacks.
type RedisConfig struct {
	URL string
}

// Enabled reports whether a Redis URL is configured
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// SecurityConfig holds password hashing settings
type SecurityConfig struct {
	BcryptRounds int
}

// ThrottleConfig holds request throttling settings.
// Limit requests are allowed per TTL per client IP.
type ThrottleConfig struct {
	TTL       time.Duration
	Limit     int
	AuthLimit int
}

// SeedConfig holds the superadmin seed account
type SeedConfig struct {
	Email    string
	Password string
	Name     string
	OnStart  bool
}

// Validate checks that the seed account can be created
func (s SeedConfig) Validate() error {
	if strings.TrimSpace(s.Email) == "" {
		return fmt.Errorf("SUPER_ADMIN_EMAIL is required")
	}
	if s.Password == "" {
		return fmt.Errorf("SUPER_ADMIN_PASSWORD is required")
	}
	return nil
}

// UploadConfig holds image upload settings
type UploadConfig struct {
	Driver    string // local or s3
	Dir       string
	BaseURL   string
	MaxSize   int64
	MaxWidth  int
	MaxHeight int
	ThumbSize int
	MaxPixels int64
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	UseSSL       bool
	PublicURL    string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled    bool     // Whether to enable Swagger endpoint
	AllowedIPs []string // IP whitelist (empty = allow all)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	DBSlowQueryThresh time.Duration
}

// envBindings maps config keys to the environment variables that set them
var envBindings = map[string]string{
	"app.name":                  "APP_NAME",
	"app.env":                   "APP_ENV",
	"app.port":                  "PORT",
	"database.url":              "DATABASE_URL",
	"database.max_open_conns":   "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":   "DATABASE_MAX_IDLE_CONNS",
	"database.auto_migrate":     "DATABASE_AUTO_MIGRATE",
	"redis.url":                 "REDIS_URL",
	"jwt.secret":                "JWT_SECRET",
	"jwt.refresh_secret":        "JWT_REFRESH_SECRET",
	"jwt.expires_in":            "JWT_EXPIRES_IN",
	"jwt.refresh_expires_in":    "JWT_REFRESH_EXPIRES_IN",
	"jwt.max_refresh_count":     "JWT_MAX_REFRESH_COUNT",
	"jwt.issuer":                "JWT_ISSUER",
	"security.bcrypt_rounds":    "BCRYPT_ROUNDS",
	"throttle.ttl":              "THROTTLE_TTL",
	"throttle.limit":            "THROTTLE_LIMIT",
	"throttle.auth_limit":       "THROTTLE_AUTH_LIMIT",
	"seed.email":                "SUPER_ADMIN_EMAIL",
	"seed.password":             "SUPER_ADMIN_PASSWORD",
	"seed.name":                 "SUPER_ADMIN_NAME",
	"seed.on_start":             "SUPER_ADMIN_SEED_ON_START",
	"upload.driver":             "STORAGE_DRIVER",
	"upload.dir":                "UPLOAD_DIR",
	"upload.base_url":           "UPLOAD_BASE_URL",
	"upload.max_size":           "UPLOAD_MAX_SIZE",
	"upload.max_width":          "UPLOAD_MAX_WIDTH",
	"upload.max_height":         "UPLOAD_MAX_HEIGHT",
	"upload.thumb_size":         "UPLOAD_THUMB_SIZE",
	"upload.max_pixels":         "UPLOAD_MAX_PIXELS",
	"storage.bucket":            "S3_BUCKET",
	"storage.region":            "S3_REGION",
	"storage.endpoint":          "S3_ENDPOINT",
	"storage.access_key":        "S3_ACCESS_KEY",
	"storage.secret_key":        "S3_SECRET_KEY",
	"storage.use_path_style":    "S3_USE_PATH_STYLE",
	"storage.use_ssl":           "S3_USE_SSL",
	"storage.public_url":        "S3_PUBLIC_URL",
	"log.level":                 "LOG_LEVEL",
	"log.format":                "LOG_FORMAT",
	"log.output":                "LOG_OUTPUT",
	"http.cors_allow_origins":   "CORS_ORIGINS",
	"http.max_body_size":        "HTTP_MAX_BODY_SIZE",
	"http.trusted_proxies":      "TRUSTED_PROXIES",
	"swagger.enabled":           "SWAGGER_ENABLED",
	"swagger.allowed_ips":       "SWAGGER_ALLOWED_IPS",
	"telemetry.enabled":         "OTEL_ENABLED",
	"telemetry.endpoint":        "OTEL_ENDPOINT",
	"telemetry.insecure":        "OTEL_INSECURE",
	"telemetry.sampling_ratio":  "OTEL_SAMPLING_RATIO",
	"telemetry.service_name":    "OTEL_SERVICE_NAME",
	"telemetry.db_slow_query":   "DB_SLOW_QUERY_THRESHOLD",
}

// Load loads configuration from a .env file, an optional config.toml and
// environment variables.
// Priority (highest to lowest):
// 1. Environment variables (e.g., DATABASE_URL, JWT_SECRET)
// 2. .env file (never overrides variables already set)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	accessTTL, err := parseDuration(v.GetString("jwt.expires_in"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	refreshTTL, err := parseDuration(v.GetString("jwt.refresh_expires_in"))
	if err != nil {
		return nil, fmt.Errorf("JWT_REFRESH_EXPIRES_IN: %w", err)
	}
	slowQuery, err := parseDuration(v.GetString("telemetry.db_slow_query"))
	if err != nil {
		return nil, fmt.Errorf("DB_SLOW_QUERY_THRESHOLD: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database.url"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			URL: v.GetString("redis.url"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  accessTTL,
			RefreshTokenExpiration: refreshTTL,
			Issuer:                 v.GetString("jwt.issuer"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		},
		Security: SecurityConfig{
			BcryptRounds: v.GetInt("security.bcrypt_rounds"),
		},
		Throttle: ThrottleConfig{
			TTL:       time.Duration(v.GetInt("throttle.ttl")) * time.Second,
			Limit:     v.GetInt("throttle.limit"),
			AuthLimit: v.GetInt("throttle.auth_limit"),
		},
		Seed: SeedConfig{
			Email:    v.GetString("seed.email"),
			Password: v.GetString("seed.password"),
			Name:     v.GetString("seed.name"),
			OnStart:  v.GetBool("seed.on_start"),
		},
		Upload: UploadConfig{
			Driver:    strings.ToLower(v.GetString("upload.driver")),
			Dir:       v.GetString("upload.dir"),
			BaseURL:   v.GetString("upload.base_url"),
			MaxSize:   v.GetInt64("upload.max_size"),
			MaxWidth:  v.GetInt("upload.max_width"),
			MaxHeight: v.GetInt("upload.max_height"),
			ThumbSize: v.GetInt("upload.thumb_size"),
			MaxPixels: v.GetInt64("upload.max_pixels"),
		},
		Storage: StorageConfig{
			Bucket:       v.GetString("storage.bucket"),
			Region:       v.GetString("storage.region"),
			Endpoint:     v.GetString("storage.endpoint"),
			AccessKey:    v.GetString("storage.access_key"),
			SecretKey:    v.GetString("storage.secret_key"),
			UsePathStyle: v.GetBool("storage.use_path_style"),
			UseSSL:       v.GetBool("storage.use_ssl"),
			PublicURL:    v.GetString("storage.public_url"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: splitList(v.Get("http.cors_allow_origins")),
			CORSAllowMethods: splitList(v.Get("http.cors_allow_methods")),
			CORSAllowHeaders: splitList(v.Get("http.cors_allow_headers")),
			TrustedProxies:   splitList(v.Get("http.trusted_proxies")),
		},
		Swagger: SwaggerConfig{
			Enabled:    !v.IsSet("swagger.enabled") || v.GetBool("swagger.enabled"),
			AllowedIPs: splitList(v.Get("swagger.allowed_ips")),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBSlowQueryThresh: slowQuery,
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shop-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = "postgres://postgres@localhost:5432/shop?sslmode=disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.JWT.Secret == "" && !cfg.App.IsProduction() {
		cfg.JWT.Secret = "development-secret-change-me-0123456789"
	}
	if cfg.JWT.RefreshSecret == "" {
		cfg.JWT.RefreshSecret = cfg.JWT.Secret
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "shop-backend"
	}
	if cfg.JWT.MaxRefreshCount == 0 {
		cfg.JWT.MaxRefreshCount = 10
	}
	if cfg.Security.BcryptRounds == 0 {
		cfg.Security.BcryptRounds = 10
	}
	if cfg.Throttle.TTL == 0 {
		cfg.Throttle.TTL = 60 * time.Second
	}
	if cfg.Throttle.Limit == 0 {
		cfg.Throttle.Limit = 100
	}
	if cfg.Throttle.AuthLimit == 0 {
		cfg.Throttle.AuthLimit = 5
	}
	if cfg.Seed.Name == "" {
		cfg.Seed.Name = "Super Admin"
	}
	if cfg.Upload.Driver == "" {
		cfg.Upload.Driver = "local"
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "./uploads"
	}
	if cfg.Upload.BaseURL == "" {
		cfg.Upload.BaseURL = "/uploads"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 5 << 20
	}
	if cfg.Upload.MaxWidth == 0 {
		cfg.Upload.MaxWidth = 1920
	}
	if cfg.Upload.MaxHeight == 0 {
		cfg.Upload.MaxHeight = 1920
	}
	if cfg.Upload.ThumbSize == 0 {
		cfg.Upload.ThumbSize = 300
	}
	if cfg.Upload.MaxPixels == 0 {
		cfg.Upload.MaxPixels = 40_000_000
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	// Multipart uploads need room for the file plus form overhead
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = cfg.Upload.MaxSize + 1<<20
	}
	// Empty CORS origins means no cross-origin requests are allowed.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if _, err := c.Database.Driver(); err != nil {
		return err
	}

	if c.Security.BcryptRounds < 4 || c.Security.BcryptRounds > 31 {
		return fmt.Errorf("BCRYPT_ROUNDS must be between 4 and 31, got %d", c.Security.BcryptRounds)
	}
	if c.Throttle.TTL <= 0 || c.Throttle.Limit <= 0 || c.Throttle.AuthLimit <= 0 {
		return fmt.Errorf("THROTTLE_TTL, THROTTLE_LIMIT and THROTTLE_AUTH_LIMIT must be positive")
	}

	switch c.Upload.Driver {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be 'local' or 's3', got %q", c.Upload.Driver)
	}
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE must be positive")
	}
	if c.Upload.MaxWidth <= 0 || c.Upload.MaxHeight <= 0 || c.Upload.ThumbSize <= 0 {
		return fmt.Errorf("upload image dimensions must be positive")
	}
	if c.Upload.MaxPixels <= 0 {
		return fmt.Errorf("UPLOAD_MAX_PIXELS must be positive")
	}

	if c.App.IsProduction() {
		if c.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled or IP restricted in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Driver returns the gorm dialect selected by the database URL
func (d *DatabaseConfig) Driver() (string, error) {
	switch {
	case strings.HasPrefix(d.URL, "postgres://"), strings.HasPrefix(d.URL, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(d.URL, "sqlite://"), strings.HasPrefix(d.URL, "file:"):
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("DATABASE_URL must start with postgres://, postgresql://, sqlite:// or file:")
}

// DSN returns the connection string understood by the selected driver
func (d *DatabaseConfig) DSN() string {
	if strings.HasPrefix(d.URL, "sqlite://") {
		return strings.TrimPrefix(d.URL, "sqlite://")
	}
	return d.URL
}

// parseDuration accepts Go durations ("15m"), day suffixes ("7d") and bare seconds ("900")
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}

// splitList turns a comma separated env value or a TOML array into a trimmed list
func splitList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []any:
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
	default:
		parts = strings.Split(fmt.Sprint(val), ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
