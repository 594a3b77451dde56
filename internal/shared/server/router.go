package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumai-backend/internal/shared/config"
	"resumai-backend/internal/shared/metrics"
	"resumai-backend/internal/shared/server/middleware"
)

// RouteRegistrar attaches a feature's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Cfg        config.Config
	Registrars []RouteRegistrar
}

const llmRateLimitGroup = "LLM"

// NewRouter assembles the gin engine with the middleware chain and all
// feature routes under /api/v1.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(deps.Cfg.CORSAllowOrigin))
	r.Use(middleware.Auth())
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			middleware.DefaultRateLimitGroup: {Rate: 20, Burst: 40},
			llmRateLimitGroup:                {Rate: 0.5, Burst: 3},
		},
		GroupFor: rateLimitGroupFor,
	}))

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/metrics", metrics.Handler())

	for _, reg := range deps.Registrars {
		reg.RegisterRoutes(api)
	}
	return r
}

// rateLimitGroupFor puts completion-backed routes in their own bucket.
func rateLimitGroupFor(c *gin.Context) string {
	path := c.Request.URL.Path
	switch {
	case strings.HasSuffix(path, "/resumes/guidelines"),
		strings.HasSuffix(path, "/resumes/generate"),
		strings.HasSuffix(path, "/chat"):
		return llmRateLimitGroup
	default:
		return ""
	}
}

// Addr joins the configured port into a listen address.
func Addr(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
