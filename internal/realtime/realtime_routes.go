package realtime

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the feed with its own auth chain, which also accepts
// the access token as a query parameter.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, verifier middleware.TokenVerifier) {
	r.GET("/feed",
		middleware.AuthMiddleware(verifier, middleware.AllowQueryToken()),
		handler.Feed,
	)
}
