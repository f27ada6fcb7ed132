package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-attendance/internal/domain"
	"go-attendance/internal/middleware"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	getSessionFn  func(ctx context.Context, caller domain.Caller) (user.SessionResponse, error)
	listMembersFn func(ctx context.Context, caller domain.Caller) ([]user.MemberResponse, error)
}

func (f *fakeService) GetSession(ctx context.Context, caller domain.Caller) (user.SessionResponse, error) {
	return f.getSessionFn(ctx, caller)
}
func (f *fakeService) ListMembers(ctx context.Context, caller domain.Caller) ([]user.MemberResponse, error) {
	return f.listMembersFn(ctx, caller)
}
func (f *fakeService) RoleOf(ctx context.Context, uid string) (domain.Role, error) {
	return domain.RoleAdmin, nil
}
func (f *fakeService) Invalidate(ctx context.Context, uids ...string) {}

func withCaller(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uid)
		c.Set(middleware.ContextEmail, uid+"@example.com")
		c.Next()
	}
}

func TestHandler_GetSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{getSessionFn: func(ctx context.Context, caller domain.Caller) (user.SessionResponse, error) {
		assert.Equal(t, "uid-1", caller.UID)
		assert.Equal(t, "uid-1@example.com", caller.Email)
		return user.SessionResponse{UID: caller.UID, IsNewUser: true, Permissions: []string{}}, nil
	}}
	h := user.NewHandler(svc)

	r := gin.New()
	r.GET("/session", withCaller("uid-1"), h.GetSession)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/session", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, true, body["ok"])
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["isNewUser"])
}

func TestHandler_ListMembers_Denied(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{listMembersFn: func(ctx context.Context, caller domain.Caller) ([]user.MemberResponse, error) {
		return nil, apperror.ErrPermissionDenied
	}}
	h := user.NewHandler(svc)

	r := gin.New()
	r.GET("/members", withCaller("uid-2"), h.ListMembers)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, "permission-denied", body["error"].(map[string]any)["code"])
}
