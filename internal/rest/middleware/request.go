package middleware

import (
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/gin-gonic/gin"
)

// maxRequestIDLength bounds caller supplied ids before they reach logs and events.
const maxRequestIDLength = 64

// RequestIDMiddleware keeps the caller's X-Request-ID or generates one, puts it on
// the request context and echoes it back.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" || len(requestID) > maxRequestIDLength {
		requestID = types.GenerateUUID()
	}

	c.Request = c.Request.WithContext(types.SetRequestID(c.Request.Context(), requestID))
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
