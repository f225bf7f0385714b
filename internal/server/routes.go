package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
)

func registerRoutes(r *gin.Engine, d Deps) {
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/jobs/:id" {
				return "POLLING"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 5, Burst: 20},
			"POLLING": {Rate: 20, Burst: 60},
		},
	}))

	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthStatus(c, d))
	})

	newCandidatesHandler(d).RegisterRoutes(api)
	newPostingsHandler(d).RegisterRoutes(api)
	newApplicationsHandler(d).RegisterRoutes(api)
	newJobsHandler(d).RegisterRoutes(api)
}

func healthStatus(c *gin.Context, d Deps) gin.H {
	status := gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if d.DB != nil {
		if err := d.DB.PingContext(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		} else {
			status["database"] = "ok"
		}
	} else {
		status["database"] = "memory"
	}
	return status
}
