package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	identityapp "github.com/shopadmin/backend/internal/application/identity"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/infrastructure/persistence"
)

func main() {
	var (
		email    string
		name     string
		logLevel string
		timeout  time.Duration
	)

	flag.StringVar(&email, "email", "", "Superadmin email (overrides SUPER_ADMIN_EMAIL)")
	flag.StringVar(&name, "name", "", "Superadmin display name (overrides SUPER_ADMIN_NAME)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	flag.Usage = printUsage
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	seed := cfg.Seed
	if email != "" {
		seed.Email = email
	}
	if name != "" {
		seed.Name = name
	}
	if err := seed.Validate(); err != nil {
		log.Fatal("Invalid seed configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// sqlite databases have no SQL migrations; make sure the tables exist
	if db.Driver() == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Auto-migration failed", zap.Error(err))
		}
	}

	hasher, err := auth.NewBcryptHasher(cfg.Security.BcryptRounds)
	if err != nil {
		log.Fatal("Failed to initialize password hasher", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	seeder := identityapp.NewSeeder(persistence.NewGormAdminRepository(db.DB), hasher, log)
	result, err := seeder.SeedSuperAdmin(ctx, identityapp.SeedInput{
		Email:    seed.Email,
		Password: seed.Password,
		Name:     seed.Name,
	})
	if err != nil {
		log.Fatal("Seeding superadmin failed", zap.Error(err))
	}

	log.Info("Seed complete",
		zap.String("status", string(result.Status)),
		zap.String("email", result.Email),
		zap.String("admin_id", result.AdminID),
	)
}

func printUsage() {
	fmt.Println(`Shop admin superadmin seeder

Usage:
  seed [flags]

Creates the superadmin account from SUPER_ADMIN_EMAIL, SUPER_ADMIN_PASSWORD
and SUPER_ADMIN_NAME. Running it again is safe: an existing account with the
same email is left untouched and reported as skipped.

Flags:
  -email string       Override SUPER_ADMIN_EMAIL
  -name string        Override SUPER_ADMIN_NAME
  -log-level string   debug, info, warn, error (default: info)
  -timeout duration   Overall timeout (default: 30s)`)
}
