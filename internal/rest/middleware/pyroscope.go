package middleware

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// PyroscopeMiddleware labels the profiles of a request with its route and tenant
func PyroscopeMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Pyroscope.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		labels := pyroscope.Labels(
			"method", c.Request.Method,
			"endpoint", c.FullPath(),
			"tenant_id", types.GetTenantID(c.Request.Context()),
		)

		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Next()
		})
	}
}
