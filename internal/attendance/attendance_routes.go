package attendance

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes expects r to already carry AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	attendance := r.Group("/attendance")
	{
		attendance.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			h.RecordAttendance,
		)
		attendance.GET("", middleware.RateLimitByUser(5, 20), h.ListLogs)
		attendance.GET("/export", middleware.RateLimitByUser(1, 3), h.ExportCSV)
	}
}
