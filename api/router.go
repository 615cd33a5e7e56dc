package api

import (
	"net/http"

	"pizzeria/api/middleware"
	"pizzeria/api/response"
	"pizzeria/config"
	"pizzeria/pkg/errors"
	"pizzeria/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// ControllerRegister is implemented by every controller mounted under /api/v1.
type ControllerRegister interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// MiddlewareRegister is an extra middleware appended after the default chain.
type MiddlewareRegister = gin.HandlerFunc

// Route is a route mounted at the engine root, outside /api/v1.
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Router Route configuration
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	controllers []ControllerRegister
	routes      []Route
}

// NewRouter Create route configuration. m may be nil.
func NewRouter(
	cfg *config.Config,
	m *metrics.Metrics,
	controllers []ControllerRegister,
	middlewares []MiddlewareRegister,
	routes []Route,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware())                      // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. Recovery middleware
	engine.Use(middleware.TracingMiddleware())                        // 3. Server span
	engine.Use(middleware.LoggingMiddleware())                        // 4. Logging middleware
	engine.Use(middleware.MetricsMiddleware(m))                       // 5. Prometheus
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 6. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 7. Rate limiting
	for _, mw := range middlewares {
		engine.Use(mw)
	}

	return &Router{
		engine:      engine,
		config:      cfg,
		controllers: controllers,
		routes:      routes,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	for _, c := range r.controllers {
		c.RegisterRoutes(apiGroup)
	}

	for _, route := range r.routes {
		r.engine.Handle(route.Method, route.Path, route.Handler)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})

	r.engine.NoRoute(func(c *gin.Context) {
		appErr := errors.NotFound("route not found")
		c.JSON(appErr.HTTPStatusCode(), &response.Response{
			Success:   false,
			Error:     string(appErr.Code),
			Message:   appErr.Message,
			Code:      appErr.HTTPStatusCode(),
			RequestID: response.GetRequestID(c),
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
