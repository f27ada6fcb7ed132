package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-attendance/internal/domain"
	"go-attendance/internal/realtime"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeMembers struct {
	findFn func(ctx context.Context, uid string) (*user.User, error)
}

func (f *fakeMembers) FindByUID(ctx context.Context, uid string) (*user.User, error) {
	return f.findFn(ctx, uid)
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyAccessToken(token string) (domain.Caller, error) {
	if token == "" {
		return domain.Caller{}, apperror.ErrUnauthenticated
	}
	return domain.Caller{UID: token}, nil
}

func newFeedServer(t *testing.T, hub *realtime.Hub, members realtime.MemberFinder) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	realtime.RegisterRoutes(r.Group("/api/v1"), realtime.NewHandler(hub, members, nil, zap.NewNop()), fakeVerifier{})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandler_Feed(t *testing.T) {
	companyID := uuid.New()
	hub := realtime.NewHub(8, zap.NewNop())
	members := &fakeMembers{findFn: func(ctx context.Context, uid string) (*user.User, error) {
		return &user.User{UID: uid, CompanyID: &companyID, Role: domain.RoleUser}, nil
	}}
	srv := newFeedServer(t, hub, members)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/feed?access_token=alice"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(companyID.String()) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(realtime.Event{Type: realtime.EventAttendanceRecorded, CompanyID: companyID.String(), UID: "bob"})
	hub.Publish(realtime.Event{Type: realtime.EventAttendanceRecorded, CompanyID: companyID.String(), UID: "alice"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got realtime.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "alice", got.UID)
	assert.Equal(t, realtime.EventAttendanceRecorded, got.Type)
}

func TestHandler_FeedClosedWhenMemberRemoved(t *testing.T) {
	companyID := uuid.New()
	hub := realtime.NewHub(8, zap.NewNop())
	members := &fakeMembers{findFn: func(ctx context.Context, uid string) (*user.User, error) {
		return &user.User{UID: uid, CompanyID: &companyID, Role: domain.RoleUser}, nil
	}}
	srv := newFeedServer(t, hub, members)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/feed?access_token=alice"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(companyID.String()) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(realtime.Event{Type: realtime.EventMemberRemoved, CompanyID: companyID.String(), UID: "alice"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got realtime.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, realtime.EventMemberRemoved, got.Type)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "got %v", err)
	assert.Equal(t, 0, hub.SubscriberCount(companyID.String()))
}

func TestHandler_FeedRejects(t *testing.T) {
	hub := realtime.NewHub(8, zap.NewNop())

	t.Run("unauthenticated", func(t *testing.T) {
		srv := newFeedServer(t, hub, &fakeMembers{})

		resp, err := http.Get(srv.URL + "/api/v1/feed")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("caller without company", func(t *testing.T) {
		srv := newFeedServer(t, hub, &fakeMembers{findFn: func(ctx context.Context, uid string) (*user.User, error) {
			return nil, gorm.ErrRecordNotFound
		}})

		resp, err := http.Get(srv.URL + "/api/v1/feed?access_token=alice")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	})
}
