package app

import (
	"net/http"

	"go-attendance/internal/account"
	"go-attendance/internal/attendance"
	"go-attendance/internal/company"
	"go-attendance/internal/config"
	"go-attendance/internal/identity"
	"go-attendance/internal/invitecode"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/middleware"
	"go-attendance/internal/rbac"
	"go-attendance/internal/rbac/infra"
	"go-attendance/internal/realtime"
	"go-attendance/internal/shared/audit"
	"go-attendance/internal/shared/database"
	"go-attendance/internal/shared/i18n"
	"go-attendance/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	auditLogger audit.Logger,
) ([]func(), error) {
	logger := zap.L()

	// --- Repositories ---
	companyRepo := company.NewRepository(db)
	userRepo := user.NewRepository(db)
	identityRepo := identity.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	transactor := database.NewTransactor(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService, err := rbac.NewService(enforcer, logger)
	if err != nil {
		return nil, err
	}

	translator := i18n.New(cfg.DefaultLanguage)
	hub := realtime.NewHub(realtime.DefaultBufferSize, logger)

	// --- Services ---
	identityService := identity.NewService(identityRepo, identity.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, logger)
	userService := user.NewService(userRepo, companyRepo, rbacService, rdb, cfg.SessionCacheTTL, logger)
	accountService := account.NewService(account.Deps{
		Tx:         transactor,
		Companies:  companyRepo,
		Users:      userRepo,
		Attendance: attendanceRepo,
		Outbox:     outboxRepo,
		Identities: identityService,
		Allocator:  invitecode.NewAllocator(cfg.InviteCodeMaxAttempts, invitecode.WithLogger(logger)),
		Authz:      rbacService,
		Translator: translator,
		Sessions:   userService,
		Publisher:  hub,
		Audit:      auditLogger,
		ChunkSize:  cfg.TeardownChunkSize,
		Logger:     logger,
	})
	attendanceService := attendance.NewService(
		transactor,
		attendanceRepo,
		userRepo,
		outboxRepo,
		rbacService,
		translator,
		hub,
		attendance.WithLocation(cfg.ExportLocation()),
		attendance.WithLogger(logger),
	)

	// --- Handlers ---
	identityHandler := identity.NewHandler(identityService, identity.CookieConfig{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, logger)
	userHandler := user.NewHandler(userService, logger)
	accountHandler := account.NewHandler(accountService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	feedHandler := realtime.NewHandler(hub, userRepo, cfg.FeedAllowedOrigins, logger)

	// --- Routes Registration ---
	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		middleware.Language(translator),
	)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	identity.RegisterRoutes(api, identityHandler)
	realtime.RegisterRoutes(api, feedHandler, identityService)

	authed := api.Group("", middleware.AuthMiddleware(identityService))
	{
		user.RegisterRoutes(authed, userHandler, rbacService, userService)
		account.RegisterRoutes(authed, accountHandler, rdb)
		attendance.RegisterRoutes(authed, attendanceHandler, rdb)
	}

	return []func(){hub.Close}, nil
}
