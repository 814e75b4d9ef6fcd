package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// RequestIDHeader is the header the ID is accepted on and echoed back in.
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware attaches a request ID to every request and echoes it in
// the response headers. A caller-supplied ID is honored only when it is a
// valid UUID, so clients cannot inject arbitrary strings into the logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header(RequestIDHeader, reqID)
		c.Next()
	}
}

// RequestID returns the request's ID, generating one when the middleware did
// not run (direct handler tests, the health check before middleware applies).
func RequestID(c *gin.Context) string {
	if id := c.GetString(ContextKeyRequestID); id != "" {
		return id
	}
	return uuid.New().String()
}
