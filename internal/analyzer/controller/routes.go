package controller

import (
	"cfanalyzer/internal/common/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the v1 API on r. Upstream-bound routes share the
// per-IP limit; static ones do not.
func RegisterRoutes(r gin.IRouter, h *AnalyzerController, limiter middleware.Limiter, policy middleware.RateLimitPolicy) {
	v1 := r.Group("/api/v1")
	v1.GET("/resources", h.Resources)
	v1.GET("/session/latest", h.Latest)

	upstream := v1.Group("", middleware.RateLimitMiddleware(limiter, "upstream", policy))
	upstream.GET("/handles/:handle/analysis", h.Analyze)
	upstream.GET("/handles/:handle/recommendations", h.Recommendations)
	upstream.GET("/handles/:handle/random-problem", h.RandomProblem)
	upstream.GET("/handles/:handle/problem-by-rating", h.ProblemByRating)
	upstream.GET("/compare", h.Compare)
}
