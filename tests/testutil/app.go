// Package testutil wires the complete HTTP application against in-memory
// backends for router and end-to-end tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	identityapp "github.com/shopadmin/backend/internal/application/identity"
	mediaapp "github.com/shopadmin/backend/internal/application/media"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/infrastructure/cache"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"github.com/shopadmin/backend/internal/infrastructure/persistence"
	"github.com/shopadmin/backend/internal/infrastructure/storage"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"github.com/shopadmin/backend/internal/interfaces/http/handler"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
	"github.com/shopadmin/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Seed credentials used by NewTestApp
const (
	SuperAdminEmail    = "root@shop.test"
	SuperAdminPassword = "Sup3rSecret!"
)

// TestApp is the complete HTTP application wired against an in-memory
// sqlite database, an in-memory filesystem and in-memory token blacklist.
type TestApp struct {
	Engine    *gin.Engine
	DB        *gorm.DB
	Files     afero.Fs
	JWT       *auth.JWTService
	Blacklist *auth.InMemoryTokenBlacklist
	Logs      *observer.ObservedLogs
}

// TestAppOption adjusts the configuration before the app is built
type TestAppOption func(*testAppConfig)

type testAppConfig struct {
	maxUploadSize int64
	authLimit     int
	database      *gorm.DB
}

// WithMaxUploadSize sets the upload size limit
func WithMaxUploadSize(n int64) TestAppOption {
	return func(c *testAppConfig) { c.maxUploadSize = n }
}

// WithAuthLimit sets the number of login/register calls allowed per minute
func WithAuthLimit(n int) TestAppOption {
	return func(c *testAppConfig) { c.authLimit = n }
}

// WithDatabase runs the app against an existing database instead of sqlite
func WithDatabase(db *gorm.DB) TestAppOption {
	return func(c *testAppConfig) { c.database = db }
}

// NewTestApp builds the application and seeds the superadmin
func NewTestApp(t *testing.T, opts ...TestAppOption) *TestApp {
	t.Helper()

	cfg := testAppConfig{maxUploadSize: 5 << 20, authLimit: 1000}
	for _, opt := range opts {
		opt(&cfg)
	}

	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	gormDB := cfg.database
	if gormDB == nil {
		db, err := persistence.NewDatabase(&config.DatabaseConfig{URL: "sqlite://file::memory:"})
		require.NoError(t, err)
		require.NoError(t, db.AutoMigrate())
		t.Cleanup(func() { _ = db.Close() })
		gormDB = db.DB
	}

	hasher, err := auth.NewBcryptHasher(4)
	require.NoError(t, err)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "shop-admin-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	store := cache.NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	files := afero.NewMemMapFs()
	objects := storage.NewLocalStorageFs(files, "/uploads", storage.WithLocalLogger(log))

	admins := persistence.NewGormAdminRepository(gormDB)
	customers := persistence.NewGormCustomerRepository(gormDB)
	attributes := persistence.NewGormAttributeRepository(gormDB)

	authService := identityapp.NewAuthService(admins, customers, hasher, jwtService, blacklist, nil, log)
	adminService := identityapp.NewAdminService(admins, hasher, jwtService, blacklist, log)
	customerService := identityapp.NewCustomerService(customers)
	categoryService := catalogapp.NewCategoryService(persistence.NewGormCategoryRepository(gormDB), store, log)
	attributeService := catalogapp.NewAttributeService(attributes, log)
	setService := catalogapp.NewAttributeSetService(persistence.NewGormAttributeSetRepository(gormDB), attributes, log)
	uploadService := mediaapp.NewUploadService(
		objects,
		persistence.NewGormImageRepository(gormDB),
		mediaapp.NewImageProcessor(1600, 1600, 300),
		cfg.maxUploadSize,
		nil,
		log,
	)

	_, err = identityapp.NewSeeder(admins, hasher, log).SeedSuperAdmin(context.Background(), identityapp.SeedInput{
		Email:    SuperAdminEmail,
		Password: SuperAdminPassword,
		Name:     "Root",
	})
	require.NoError(t, err)

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Throttler:      middleware.NewThrottler(10000, time.Minute),
		AuthThrottler:  middleware.NewThrottler(cfg.authLimit, time.Minute),
		CORS:           middleware.DefaultCORSConfig(),
		MaxBodySize:    cfg.maxUploadSize + 2<<20,
		ServiceName:    "shop-admin-test",
		UploadsPath:    "/uploads",
		UploadsFS:      objects.HTTPFileSystem(),
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Admin:     handler.NewAdminHandler(adminService),
		Customer:  handler.NewCustomerHandler(customerService),
		Category:  handler.NewCategoryHandler(categoryService),
		Attribute: handler.NewAttributeHandler(attributeService, setService),
		Upload:    handler.NewUploadHandler(uploadService, cfg.maxUploadSize),
		System:    handler.NewSystemHandler("shop-admin", "test", pingFunc(func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})),
	})

	return &TestApp{
		Engine:    engine,
		DB:        gormDB,
		Files:     files,
		JWT:       jwtService,
		Blacklist: blacklist,
		Logs:      logs,
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Do sends a JSON request. token may be empty; body may be nil.
func (a *TestApp) Do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.Engine.ServeHTTP(rec, req)
	return rec
}

// Upload sends a multipart upload with the given file content
func (a *TestApp) Upload(t *testing.T, token, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.Engine.ServeHTTP(rec, req)
	return rec
}

// LoginAdmin logs an admin in and returns the access and refresh tokens
func (a *TestApp) LoginAdmin(t *testing.T, email, password string) (string, string) {
	t.Helper()

	rec := a.Do(t, http.MethodPost, "/api/v1/auth/admin/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data handler.AdminLoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data.Token.AccessToken, resp.Data.Token.RefreshToken
}

// SuperAdminToken logs in as the seeded superadmin
func (a *TestApp) SuperAdminToken(t *testing.T) string {
	t.Helper()
	token, _ := a.LoginAdmin(t, SuperAdminEmail, SuperAdminPassword)
	return token
}

// CreateAdmin creates an admin with the given permissions and returns its access token
func (a *TestApp) CreateAdmin(t *testing.T, email string, permissions ...string) string {
	t.Helper()

	const password = "Adm1nPassword"
	rec := a.Do(t, http.MethodPost, "/api/v1/auth/admin/create", a.SuperAdminToken(t), map[string]any{
		"email":       email,
		"name":        "Test Admin",
		"password":    password,
		"permissions": permissions,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	token, _ := a.LoginAdmin(t, email, password)
	return token
}

// Decode unmarshals the response envelope and the data field into out
func Decode(t *testing.T, rec *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()

	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	if out != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Response
}

// ErrorCode returns the error code of an error envelope
func ErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	resp := Decode(t, rec, nil)
	require.NotNil(t, resp.Error, rec.Body.String())
	return resp.Error.Code
}
