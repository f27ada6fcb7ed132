package middleware

import (
	"strings"

	"go-attendance/internal/domain"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextName   = "name"

	AccessTokenCookie = "access_token"
	AccessTokenQuery  = "access_token"
)

// TokenVerifier turns an access token into the authenticated caller.
type TokenVerifier interface {
	VerifyAccessToken(token string) (domain.Caller, error)
}

type authOptions struct {
	allowQueryToken bool
}

type AuthOption func(*authOptions)

// AllowQueryToken also accepts ?access_token=, for websocket upgrades where
// browsers cannot set headers.
func AllowQueryToken() AuthOption {
	return func(o *authOptions) { o.allowQueryToken = true }
}

func AuthMiddleware(verifier TokenVerifier, opts ...AuthOption) gin.HandlerFunc {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		tokenString := extractToken(c, o.allowQueryToken)
		if tokenString == "" {
			abortWithError(c, apperror.ErrUnauthenticated)
			return
		}

		caller, err := verifier.VerifyAccessToken(tokenString)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if !caller.Authenticated() {
			abortWithError(c, apperror.ErrUnauthenticated)
			return
		}

		c.Set(ContextUserID, caller.UID)
		c.Set(ContextEmail, caller.Email)
		c.Set(ContextName, caller.Name)

		ctx := contextutil.WithUserID(c.Request.Context(), caller.UID)
		reqLogger := contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", caller.UID))
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CurrentCaller reads the identity AuthMiddleware stored on the gin context.
func CurrentCaller(c *gin.Context) domain.Caller {
	return domain.Caller{
		UID:   c.GetString(ContextUserID),
		Email: c.GetString(ContextEmail),
		Name:  c.GetString(ContextName),
	}
}

func extractToken(c *gin.Context, allowQuery bool) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found && token != "" {
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	if allowQuery {
		return c.Query(AccessTokenQuery)
	}
	return ""
}

func abortWithError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err).Localize(c.Request.Context())
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
