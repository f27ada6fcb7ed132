package account

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes expects r to already carry AuthMiddleware. Role checks run
// inside the service.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	companies := r.Group("/companies")
	{
		companies.POST("",
			middleware.RateLimitByUser(0.2, 3),
			middleware.Idempotency(rdb),
			h.CreateCompany,
		)
		companies.POST("/join",
			middleware.RateLimitByUser(0.5, 5),
			middleware.Idempotency(rdb),
			h.JoinCompany,
		)
		companies.POST("/invite-code",
			middleware.RateLimitByUser(0.2, 3),
			h.ReissueInviteCode,
		)
		companies.DELETE("/me",
			middleware.RateLimitByUser(0.1, 2),
			h.DeleteAccountAndCompany,
		)
	}

	r.DELETE("/members/:uid",
		middleware.RateLimitByUser(1, 5),
		h.RemoveMember,
	)
}
