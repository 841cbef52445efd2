package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/domain/identity"
	"github.com/shopadmin/backend/internal/infrastructure/auth"
	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/interfaces/http/handler"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	apiVersion  = "v1"
	apiBasePath = "/api/" + apiVersion
)

// Handlers groups the HTTP handlers served under /api/v1
type Handlers struct {
	Auth      *handler.AuthHandler
	Admin     *handler.AdminHandler
	Customer  *handler.CustomerHandler
	Category  *handler.CategoryHandler
	Attribute *handler.AttributeHandler
	Upload    *handler.UploadHandler
	System    *handler.SystemHandler
}

// EngineConfig holds everything the engine needs besides the handlers
type EngineConfig struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist

	// Throttler limits every request per client IP; AuthThrottler applies
	// the stricter budget to login and registration. Either may be nil.
	Throttler     *middleware.Throttler
	AuthThrottler *middleware.Throttler

	CORS           middleware.CORSConfig
	MaxBodySize    int64
	TrustedProxies []string

	ServiceName    string
	TracingEnabled bool
	Meter          metric.Meter

	Swagger middleware.SwaggerConfig

	// UploadsPath and UploadsFS serve locally stored images. UploadsFS is
	// nil when images live in object storage.
	UploadsPath string
	UploadsFS   http.FileSystem
}

// NewEngine builds the gin engine with the full middleware stack and all routes
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.ServiceName, cfg.TracingEnabled))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(cfg.Meter))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.Secure())
	if cfg.MaxBodySize > 0 {
		// uploads are capped by the upload handler, which reports FILE_TOO_LARGE
		engine.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
			MaxBytes: cfg.MaxBodySize,
			Exempt:   []string{http.MethodPost + " " + apiBasePath + "/upload"},
		}))
	}
	if cfg.Throttler != nil {
		engine.Use(middleware.Throttle(cfg.Throttler))
	}

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if cfg.UploadsFS != nil {
		path := cfg.UploadsPath
		if path == "" {
			path = "/uploads"
		}
		engine.StaticFS(strings.TrimSuffix(path, "/"), cfg.UploadsFS)
	}

	r := NewRouter(engine, WithAPIVersion(apiVersion))
	for _, group := range apiGroups(cfg, h, log) {
		r.Register(group)
	}
	r.Setup()

	log.Info("HTTP routes registered", zap.Int("routes", len(engine.Routes())))
	return engine
}

// apiGroups builds the versioned route table. Public reads carry no
// authentication; writes require an admin token with the named permission.
func apiGroups(cfg EngineConfig, h Handlers, log *zap.Logger) []*DomainGroup {
	authn := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     cfg.JWTService,
		TokenBlacklist: cfg.TokenBlacklist,
		Logger:         log,
	})
	permCfg := middleware.PermissionConfig{Logger: log}
	admin := func(p identity.Permission) []gin.HandlerFunc {
		return []gin.HandlerFunc{authn, middleware.RequirePermissionWithConfig(string(p), permCfg)}
	}
	with := func(guards []gin.HandlerFunc, fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), fn)
	}

	authThrottle := func(c *gin.Context) { c.Next() }
	if cfg.AuthThrottler != nil {
		authThrottle = middleware.ThrottleByKey(cfg.AuthThrottler, func(c *gin.Context) string {
			return "auth:" + c.ClientIP()
		})
	}

	var groups []*DomainGroup

	if h.Auth != nil {
		authRoutes := NewDomainGroup("auth", "/auth")
		authRoutes.POST("/admin/login", authThrottle, h.Auth.AdminLogin)
		authRoutes.POST("/customer/register", authThrottle, h.Auth.RegisterCustomer)
		authRoutes.POST("/customer/login", authThrottle, h.Auth.CustomerLogin)
		authRoutes.POST("/refresh", h.Auth.RefreshToken)
		authRoutes.POST("/logout", authn, h.Auth.Logout)
		authRoutes.GET("/me", authn, h.Auth.Me)

		if h.Admin != nil {
			authRoutes.POST("/admin/create", with(admin(identity.PermAdminWrite), h.Admin.Create)...)
			authRoutes.GET("/admin", with(admin(identity.PermAdminRead), h.Admin.List)...)
			authRoutes.GET("/admin/:id", with(admin(identity.PermAdminRead), h.Admin.Get)...)
			authRoutes.PATCH("/admin/:id/permissions", with(admin(identity.PermAdminWrite), h.Admin.UpdatePermissions)...)
			authRoutes.PATCH("/admin/:id/status", with(admin(identity.PermAdminWrite), h.Admin.UpdateStatus)...)
		}
		if h.Customer != nil {
			authRoutes.GET("/customer", with(admin(identity.PermCustomerRead), h.Customer.List)...)
			authRoutes.GET("/customer/:id", with(admin(identity.PermCustomerRead), h.Customer.Get)...)
		}
		groups = append(groups, authRoutes)
	}

	if h.Category != nil {
		write := admin(identity.PermCategoryWrite)
		categoryRoutes := NewDomainGroup("category", "/category")
		categoryRoutes.GET("", h.Category.List)
		categoryRoutes.GET("/tree", h.Category.GetTree)
		categoryRoutes.GET("/slug/:slug", h.Category.GetBySlug)
		categoryRoutes.GET("/:id", h.Category.GetByID)
		categoryRoutes.POST("", with(write, h.Category.Create)...)
		categoryRoutes.PATCH("/:id", with(write, h.Category.Update)...)
		categoryRoutes.DELETE("/:id", with(write, h.Category.Delete)...)
		groups = append(groups, categoryRoutes)
	}

	if h.Attribute != nil {
		write := admin(identity.PermAttributeWrite)
		attributeRoutes := NewDomainGroup("attribute", "/attribute")
		attributeRoutes.GET("", h.Attribute.List)
		attributeRoutes.GET("/sets", h.Attribute.ListSets)
		attributeRoutes.GET("/sets/:id", h.Attribute.GetSet)
		attributeRoutes.GET("/:id", h.Attribute.GetByID)
		attributeRoutes.POST("", with(write, h.Attribute.Create)...)
		attributeRoutes.PATCH("/:id", with(write, h.Attribute.Update)...)
		attributeRoutes.DELETE("/:id", with(write, h.Attribute.Delete)...)
		attributeRoutes.POST("/:id/values", with(write, h.Attribute.AddValue)...)
		attributeRoutes.PATCH("/:id/values/:valueId", with(write, h.Attribute.UpdateValue)...)
		attributeRoutes.DELETE("/:id/values/:valueId", with(write, h.Attribute.DeleteValue)...)
		attributeRoutes.POST("/sets", with(write, h.Attribute.CreateSet)...)
		attributeRoutes.PATCH("/sets/:id", with(write, h.Attribute.UpdateSet)...)
		attributeRoutes.DELETE("/sets/:id", with(write, h.Attribute.DeleteSet)...)
		groups = append(groups, attributeRoutes)
	}

	if h.Upload != nil {
		uploadRoutes := NewDomainGroup("upload", "/upload")
		uploadRoutes.Use(admin(identity.PermUploadWrite)...)
		uploadRoutes.POST("", h.Upload.Upload)
		uploadRoutes.DELETE("", h.Upload.Delete)
		uploadRoutes.GET("", h.Upload.List)
		uploadRoutes.GET("/:id", h.Upload.GetByID)
		groups = append(groups, uploadRoutes)
	}

	if h.System != nil {
		systemRoutes := NewDomainGroup("system", "/system")
		systemRoutes.GET("/info", h.System.GetSystemInfo)
		systemRoutes.GET("/ping", h.System.Ping)
		groups = append(groups, systemRoutes)
	}

	return groups
}

// DefaultCORS returns the CORS settings used when none are configured
func DefaultCORS(origins, methods, headers []string) middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
