package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Liveness answers as long as the process can serve HTTP. It never consults
// components, so a missing ffmpeg or an unreachable bucket does not get the
// process restarted.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "alive",
			"service":        serviceName,
			"uptime_seconds": int64(time.Since(startTime).Seconds()),
		})
	}
}
