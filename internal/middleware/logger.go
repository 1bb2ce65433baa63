package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"venuebooking/internal/pkg/response"
)

// ErrorLogger recovers panics and writes one request_error line for every
// request that ends in a 5xx or carries errors attached with c.Error. The
// acting user and request id are included so a line can be matched to the
// reservation that failed.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				c.Abort()
				logFailure(c, start, "panic", fmt.Sprint(recovered))
				log.Printf("request_panic request_id=%s stack=%q", requestID(c), debug.Stack())
				return
			}

			switch {
			case len(c.Errors) > 0:
				logFailure(c, start, "error", strings.Join(c.Errors.Errors(), "; "))
			case c.Writer.Status() >= http.StatusInternalServerError:
				logFailure(c, start, "status", http.StatusText(c.Writer.Status()))
			}
		}()

		c.Next()
	}
}

func logFailure(c *gin.Context, start time.Time, kind, cause string) {
	log.Printf("request_error kind=%s status=%d method=%s path=%s user_id=%d role=%s request_id=%s latency=%s cause=%q",
		kind,
		c.Writer.Status(),
		c.Request.Method,
		c.FullPath(),
		c.GetInt64("user_id"),
		c.GetString("role"),
		requestID(c),
		time.Since(start).Round(time.Microsecond),
		cause,
	)
}

func requestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}
