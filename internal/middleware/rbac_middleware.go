package middleware

import (
	"context"

	"go-attendance/internal/domain"
	"go-attendance/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContextRole = "role"

// RBACService is satisfied by anything that can answer a role/resource/action check.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RoleResolver loads the caller's stored role; roles never travel in tokens.
type RoleResolver interface {
	RoleOf(ctx context.Context, uid string) (domain.Role, error)
}

func RBACAuthorize(service RBACService, roles RoleResolver, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(ContextUserID)
		if uid == "" {
			abortWithError(c, apperror.ErrUnauthenticated)
			return
		}

		role, err := roles.RoleOf(c.Request.Context(), uid)
		if err != nil {
			abortWithError(c, err)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			zap.L().Named("middleware.rbac").Error("rbac enforce failed", zap.Error(err))
			abortWithError(c, err)
			return
		}

		if !allowed {
			abortWithError(c, apperror.ErrPermissionDenied)
			return
		}

		c.Set(ContextRole, string(role))
		c.Next()
	}
}
