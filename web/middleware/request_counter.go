package middleware

import (
	"github.com/MindDevsDavid/DragonScan/web/service"

	"github.com/gin-gonic/gin"
)

// RequestCounterMiddleware feeds the dashboard request counter.
func RequestCounterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		service.RequestCount.Inc()
		c.Next()
	}
}
