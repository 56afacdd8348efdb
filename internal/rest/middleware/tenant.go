package middleware

import (
	"strings"

	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/gin-gonic/gin"
)

// TenantMiddleware scopes the request to the school named by X-Tenant-ID. Requests without
// the header run against the default tenant, as a single school deployment does.
func TenantMiddleware(c *gin.Context) {
	tenantID := strings.TrimSpace(c.GetHeader(types.HeaderTenantID))
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}
	userID := strings.TrimSpace(c.GetHeader(types.HeaderUserID))
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx := types.SetTenantID(c.Request.Context(), tenantID)
	ctx = types.SetUserID(ctx, userID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
