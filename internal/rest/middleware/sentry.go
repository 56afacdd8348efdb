package middleware

import (
	"time"

	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/types"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// SentryMiddleware opens a hub per request for panics and traces. It is a
// pass-through when Sentry is off.
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: 2 * time.Second,
	})
}

// SentryScopeMiddleware tags the request hub with the school and request id.
// It must run after TenantMiddleware.
func SentryScopeMiddleware(c *gin.Context) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		ctx := c.Request.Context()
		hub.Scope().SetTag("tenant_id", types.GetTenantID(ctx))
		hub.Scope().SetTag("request_id", types.GetRequestID(ctx))
	}
	c.Next()
}
