package user

import (
	"go-attendance/internal/domain"
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to already carry AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, roles middleware.RoleResolver) {
	r.GET("/session",
		middleware.RateLimitByUser(5, 20),
		handler.GetSession,
	)

	r.GET("/members",
		middleware.RateLimitByUser(2, 10),
		middleware.RBACAuthorize(rbacService, roles, domain.ResourceMember, domain.ActionRead),
		handler.ListMembers,
	)
}
