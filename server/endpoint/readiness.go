package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Readiness answers whether the service can take requests: "ready" unless a
// required component is down, in which case the blockers are listed.
func Readiness(p Checkup) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := p.Report(c.Request.Context())
		if len(r.Blocking) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "not_ready",
				"service":   r.Service,
				"timestamp": r.Timestamp,
				"blocking":  r.Blocking,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"service":   r.Service,
			"timestamp": r.Timestamp,
		})
	}
}
