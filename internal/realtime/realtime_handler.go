package realtime

import (
	"context"
	"net/http"
	"time"

	"go-attendance/internal/middleware"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"
	"go-attendance/internal/shared/response"
	"go-attendance/internal/user"
	usererrors "go-attendance/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type MemberFinder interface {
	FindByUID(ctx context.Context, uid string) (*user.User, error)
}

type Handler struct {
	hub      *Hub
	members  MemberFinder
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler accepts any origin when allowedOrigins is empty.
func NewHandler(hub *Hub, members MemberFinder, allowedOrigins []string, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("realtime.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.handler")
	}

	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Handler{
		hub:     hub,
		members: members,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
		logger: l,
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err).Localize(c.Request.Context())
	h.logger.Warn("feed request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	caller := middleware.CurrentCaller(c)

	u, err := h.members.FindByUID(ctx, caller.UID)
	if err != nil {
		if database.IsNotFound(err) {
			err = usererrors.ErrNoCompany
		}
		h.writeServiceError(c, err)
		return
	}
	if !u.HasCompany() {
		h.writeServiceError(c, usererrors.ErrNoCompany)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("feed upgrade failed", zap.String("uid", caller.UID), zap.Error(err))
		return
	}
	defer conn.Close()

	companyID := u.CompanyID.String()
	sub := h.hub.Subscribe(companyID, caller.UID, u.IsAdmin())
	defer h.hub.Unsubscribe(sub)

	l := contextutil.GetLogger(ctx, h.logger).With(zap.String("company_id", companyID))
	l.Info("feed subscribed")

	closed := make(chan struct{})
	go readPump(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			l.Info("feed closed by client")
			return
		case <-ctx.Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				code, text := closeFrame(sub.Reason())
				l.Info("feed subscription ended", zap.String("reason", text))
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(code, text),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				l.Warn("feed write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func closeFrame(reason CloseReason) (int, string) {
	switch reason {
	case ClosedRevoked:
		return websocket.ClosePolicyViolation, "membership revoked"
	case ClosedShutdown:
		return websocket.CloseGoingAway, "server shutting down"
	default:
		return websocket.CloseNormalClosure, ""
	}
}

// readPump drains client frames so pongs and close frames are processed.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
