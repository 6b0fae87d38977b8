package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// ContextRequestID is the gin context key the logging middleware reads.
const ContextRequestID = "request_id"

// RequestID tags every request with an id for log correlation. An inbound
// X-Request-ID survives only when it parses as a UUID, so upstream proxies
// can thread their ids through without being able to inject arbitrary text
// into the logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)

		c.Next()
	}
}
