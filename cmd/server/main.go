package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/shopadmin/backend/docs"
	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	identityapp "github.com/shopadmin/backend/internal/application/identity"
	mediaapp "github.com/shopadmin/backend/internal/application/media"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/infrastructure/cache"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/infrastructure/migration"
	"github.com/shopadmin/backend/internal/infrastructure/persistence"
	"github.com/shopadmin/backend/internal/infrastructure/storage"
	"github.com/shopadmin/backend/internal/infrastructure/telemetry"
	"github.com/shopadmin/backend/internal/interfaces/http/handler"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
	"github.com/shopadmin/backend/internal/interfaces/http/router"
)

//	@title			Shop Admin API
//	@version		1.0
//	@description	Admin and customer backend: authentication, category tree, product attributes and image uploads.

//	@contact.name	API Support
//	@contact.url	https://github.com/shopadmin/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry comes up first so the OTLP log bridge can be teed into the logger
	providers, err := telemetry.Setup(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.IsEnabled() {
		log, err = logger.New(logger.FromAppConfig(cfg), providers.Logs.Core(zapcore.InfoLevel))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if cfg.Telemetry.Enabled {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			DBSystem:        dbSystem(db.Driver()),
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			WithVariables:   !cfg.App.IsProduction(),
		}); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		if err := migrateSchema(cfg, db, log); err != nil {
			log.Fatal("Failed to migrate database schema", zap.Error(err))
		}
	}

	// Redis backs the token blacklist and the catalog cache; without it both
	// fall back to process-local memory
	var (
		blacklist auth.TokenBlacklist
		store     cache.Store
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(context.Background(), cfg.Redis.URL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func(client *redis.Client) {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}(client)
		blacklist = auth.NewRedisTokenBlacklist(client)
		store = cache.NewRedisStore(client, cache.WithKeyPrefix(cfg.App.Name+":"), cache.WithRedisLogger(log))
		log.Info("Redis connected")
	} else {
		memStore := cache.NewInMemoryStore(cache.WithInMemoryLogger(log))
		defer func() { _ = memStore.Close() }()
		blacklist = auth.NewInMemoryTokenBlacklist()
		store = memStore
		log.Warn("REDIS_URL not set, token blacklist and cache are process-local")
	}

	objects, uploadsFS, err := newObjectStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	hasher, err := auth.NewBcryptHasher(cfg.Security.BcryptRounds)
	if err != nil {
		log.Fatal("Failed to initialize password hasher", zap.Error(err))
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	meter := providers.Meter.Meter(cfg.Telemetry.ServiceName)
	metrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Warn("Failed to create business metrics", zap.Error(err))
		metrics = nil
	}

	// Repositories
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	attributeRepo := persistence.NewGormAttributeRepository(db.DB)
	attributeSetRepo := persistence.NewGormAttributeSetRepository(db.DB)
	imageRepo := persistence.NewGormImageRepository(db.DB)

	// Application services
	authService := identityapp.NewAuthService(adminRepo, customerRepo, hasher, jwtService, blacklist, metrics, log)
	adminService := identityapp.NewAdminService(adminRepo, hasher, jwtService, blacklist, log)
	customerService := identityapp.NewCustomerService(customerRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo, store, log)
	attributeService := catalogapp.NewAttributeService(attributeRepo, log)
	attributeSetService := catalogapp.NewAttributeSetService(attributeSetRepo, attributeRepo, log)
	uploadService := mediaapp.NewUploadService(
		objects,
		imageRepo,
		mediaapp.NewImageProcessor(cfg.Upload.MaxWidth, cfg.Upload.MaxHeight, cfg.Upload.ThumbSize,
			mediaapp.WithMaxPixels(cfg.Upload.MaxPixels)),
		cfg.Upload.MaxSize,
		metrics,
		log,
	)

	if cfg.Seed.OnStart {
		seedSuperAdmin(cfg.Seed, identityapp.NewSeeder(adminRepo, hasher, log), log)
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	throttleCtx, stopThrottle := context.WithCancel(context.Background())
	defer stopThrottle()
	throttler := middleware.NewThrottler(cfg.Throttle.Limit, cfg.Throttle.TTL)
	authThrottler := middleware.NewThrottler(cfg.Throttle.AuthLimit, cfg.Throttle.TTL)
	go throttler.Run(throttleCtx)
	go authThrottler.Run(throttleCtx)

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Throttler:      throttler,
		AuthThrottler:  authThrottler,
		CORS:           router.DefaultCORS(cfg.HTTP.CORSAllowOrigins, cfg.HTTP.CORSAllowMethods, cfg.HTTP.CORSAllowHeaders),
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		Meter:          meter,
		Swagger: middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		},
		UploadsPath: cfg.Upload.BaseURL,
		UploadsFS:   uploadsFS,
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Admin:     handler.NewAdminHandler(adminService),
		Customer:  handler.NewCustomerHandler(customerService),
		Category:  handler.NewCategoryHandler(categoryService),
		Attribute: handler.NewAttributeHandler(attributeService, attributeSetService),
		Upload:    handler.NewUploadHandler(uploadService, cfg.Upload.MaxSize),
		System:    handler.NewSystemHandler(cfg.App.Name, version, db),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// migrateSchema applies the embedded SQL migrations on postgres and gorm
// auto-migration on sqlite
func migrateSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if db.Driver() == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
		log.Info("SQLite schema is up to date")
		return nil
	}

	m, err := migration.NewFromURL(cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

// newObjectStorage selects the image storage backend. The returned file
// system is non-nil only for local storage, which the server exposes itself.
func newObjectStorage(cfg *config.Config, log *zap.Logger) (mediaapp.ObjectStorage, http.FileSystem, error) {
	if cfg.Upload.Driver == "s3" {
		s3Storage, err := storage.NewS3Storage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		log.Info("Using S3 object storage", zap.String("bucket", s3Storage.Bucket()))
		return s3Storage, nil, nil
	}

	local, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.BaseURL, storage.WithLocalLogger(log))
	if err != nil {
		return nil, nil, err
	}
	log.Info("Using local object storage", zap.String("dir", cfg.Upload.Dir), zap.String("base_url", cfg.Upload.BaseURL))
	return local, local.HTTPFileSystem(), nil
}

// seedSuperAdmin creates the configured superadmin. A missing or invalid
// seed account is logged and does not stop the server.
func seedSuperAdmin(seed config.SeedConfig, seeder *identityapp.Seeder, log *zap.Logger) {
	if err := seed.Validate(); err != nil {
		log.Warn("Skipping superadmin seed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := seeder.SeedSuperAdmin(ctx, identityapp.SeedInput{
		Email:    seed.Email,
		Password: seed.Password,
		Name:     seed.Name,
	})
	if err != nil {
		log.Error("Superadmin seed failed", zap.Error(err))
		return
	}
	log.Info("Superadmin seed finished", zap.String("status", string(result.Status)), zap.String("email", result.Email))
}

func dbSystem(driver string) string {
	if driver == config.DriverSQLite {
		return "sqlite"
	}
	return "postgresql"
}
